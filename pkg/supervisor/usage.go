package supervisor

import (
	"context"

	"github.com/aretw0/hoist/pkg/domain"
	"github.com/shirou/gopsutil/v3/process"
)

// Usage is a resource sample of one worker.
type Usage struct {
	domain.ProcessHandle
	Running    bool    `json:"running"`
	CPUPercent float64 `json:"cpu_percent"`
	RSS        uint64  `json:"rss_bytes"`
}

// Sample reads CPU and memory usage of the given workers. Workers that can no
// longer be inspected are reported as not running.
func Sample(ctx context.Context, handles []domain.ProcessHandle) []Usage {
	out := make([]Usage, 0, len(handles))
	for _, h := range handles {
		u := Usage{ProcessHandle: h}
		p, err := process.NewProcessWithContext(ctx, int32(h.Pid))
		if err != nil {
			out = append(out, u)
			continue
		}
		u.Running, _ = p.IsRunningWithContext(ctx)
		if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
			u.CPUPercent = cpu
		}
		if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
			u.RSS = mem.RSS
		}
		out = append(out, u)
	}
	return out
}
