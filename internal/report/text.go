package report

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/sysreport/internal/model"
)

// RenderText builds the human-readable report.
func RenderText(s model.Sample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CPU Usage: %s%%\n", percent(s.CPU))

	m := s.Memory
	fmt.Fprintf(&b, "\nMemory Usage: %s%% (Total Memory: %.2f GB, Used Memory: %.2f GB, Free Memory: %.2f GB)\n",
		percent(m.Percent), m.TotalGB(), m.UsedGB(), m.FreeGB())

	for _, d := range s.Disks {
		fmt.Fprintf(&b, "\nDisk Statistics: - Mount Point: %s, Usage: %s%% (Total: %.2f GB, Used: %.2f GB, Free: %.2f GB)\n",
			d.MountPoint, percent(d.Percent), d.TotalGB(), d.UsedGB(), d.FreeGB())
	}

	b.WriteString("\nTop 5 CPU-Consuming Processes:\n")
	for _, p := range s.Top {
		fmt.Fprintf(&b, "  - PID: %d, Name: %s, CPU Usage: %s%%\n", p.PID, p.Name, percent(p.CPU))
	}
	return b.String()
}
