// Package alert checks a sample against fixed usage limits.
package alert

import (
	"strings"

	"github.com/Dicklesworthstone/sysreport/internal/model"
)

const (
	CPULimit    = 80.0
	MemoryLimit = 75.0
	DiskLimit   = 90.0

	// Mount points containing this are read-only squashfs images that always report full.
	snapMarker = "/snap"
)

const (
	CPUMessage    = "CPU usage is reached above 80%!"
	MemoryMessage = "Memory usage is reached above 75%!"
	DiskMessage   = "Disk space usage is reached above 90%!"
)

// Evaluate applies each rule independently; several alerts may fire at once and
// one disk alert is produced per qualifying partition.
func Evaluate(cpu float64, memory model.Memory, disks []model.Disk) []string {
	var alerts []string
	if cpu > CPULimit {
		alerts = append(alerts, CPUMessage)
	}
	if memory.Percent > MemoryLimit {
		alerts = append(alerts, MemoryMessage)
	}
	for range OverfullDisks(disks) {
		alerts = append(alerts, DiskMessage)
	}
	return alerts
}

// EvaluateSample is Evaluate over a whole sample.
func EvaluateSample(s model.Sample) []string {
	return Evaluate(s.CPU, s.Memory, s.Disks)
}

// OverfullDisks returns the partitions that trip the disk rule, in input order.
func OverfullDisks(disks []model.Disk) []model.Disk {
	var out []model.Disk
	for _, d := range disks {
		if strings.Contains(d.MountPoint, snapMarker) {
			continue
		}
		if d.Percent > DiskLimit {
			out = append(out, d)
		}
	}
	return out
}
