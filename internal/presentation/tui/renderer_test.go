package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_RendersKeymaps(t *testing.T) {
	render := NewRenderer()

	out, err := render(CommandHelp)
	require.NoError(t, err)
	assert.Contains(t, out, "Vx++")

	out, err = render(InspectionHelp)
	require.NoError(t, err)
	assert.Contains(t, out, "RESET")
}
