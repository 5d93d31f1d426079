package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	hoisthttp "github.com/aretw0/hoist/pkg/adapters/http"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/observability"
	"github.com/aretw0/hoist/pkg/supervisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFleet struct {
	mock.Mock
}

func (m *MockFleet) Status() supervisor.Status {
	return m.Called().Get(0).(supervisor.Status)
}

func (m *MockFleet) Handles() []domain.ProcessHandle {
	return m.Called().Get(0).([]domain.ProcessHandle)
}

func newServer(fleet *MockFleet) *hoisthttp.Server {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.StateChanged(supervisor.StateRunning)
	return &hoisthttp.Server{
		Fleet:    fleet,
		Gatherer: reg,
		Sample: func(_ context.Context, handles []domain.ProcessHandle) []supervisor.Usage {
			out := make([]supervisor.Usage, len(handles))
			for i, h := range handles {
				out[i] = supervisor.Usage{ProcessHandle: h, Running: true, RSS: 1024}
			}
			return out
		},
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		state string
		code  int
	}{
		{supervisor.StateRunning, http.StatusOK},
		{supervisor.StateStarting, http.StatusServiceUnavailable},
		{supervisor.StateCrashShutdown, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			fleet := &MockFleet{}
			fleet.On("Status").Return(supervisor.Status{State: tt.state})

			w := httptest.NewRecorder()
			newServer(fleet).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, `{"state":"`+tt.state+`"}`, w.Body.String())
			fleet.AssertExpectations(t)
		})
	}
}

func TestFleet(t *testing.T) {
	fleet := &MockFleet{}
	handles := []domain.ProcessHandle{{Role: domain.RoleAxisX, Pid: 41}, {Role: domain.RoleAxisZ, Pid: 42}}
	fleet.On("Status").Return(supervisor.Status{RunID: "r1", State: supervisor.StateRunning, Inactivity: "4s"})
	fleet.On("Handles").Return(handles)

	w := httptest.NewRecorder()
	newServer(fleet).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fleet", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "r1", body["run_id"])
	assert.Equal(t, "4s", body["inactivity"])
	usage := body["usage"].([]any)
	require.Len(t, usage, 2)
	assert.Equal(t, "axis-z", usage[1].(map[string]any)["role"])
	assert.EqualValues(t, 42, usage[1].(map[string]any)["pid"])
}

func TestMetricsEndpoint(t *testing.T) {
	fleet := &MockFleet{}
	w := httptest.NewRecorder()
	newServer(fleet).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `hoist_supervisor_state{state="running"} 1`))
}

func TestInfo(t *testing.T) {
	fleet := &MockFleet{}
	fleet.On("Status").Return(supervisor.Status{RunID: "r9"})

	w := httptest.NewRecorder()
	newServer(fleet).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hoist", body["app"])
	assert.Equal(t, "r9", body["run_id"])
	assert.NotEmpty(t, body["version"])
}
