package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dicklesworthstone/sysreport/internal/model"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	DefaultCPUWindow = time.Second
	DefaultTopN      = 5
)

// ErrCollect wraps every failure to read host metrics.
var ErrCollect = errors.New("collect system metrics")

// Sampler builds one Sample per call from gopsutil reads.
type Sampler struct {
	// CPUWindow is how long Collect blocks measuring CPU usage.
	CPUWindow time.Duration
	TopN      int
	Logger    *slog.Logger
}

func New(logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		CPUWindow: DefaultCPUWindow,
		TopN:      DefaultTopN,
		Logger:    logger,
	}
}

// Collect reads CPU, memory, per-partition disk usage and the top processes.
// Process CPU usage is measured across the same window as the host CPU.
// Any failing query fails the whole sample.
func (s *Sampler) Collect(ctx context.Context) (model.Sample, error) {
	start := time.Now()

	handles, err := listProcesses(ctx)
	if err != nil {
		return model.Sample{}, err
	}
	var cpuPct float64
	procs, err := s.measureProcesses(ctx, handles, func(ctx context.Context) (time.Duration, error) {
		windowStart := time.Now()
		pct, err := s.cpuPercent(ctx)
		cpuPct = pct
		return time.Since(windowStart), err
	})
	if err != nil {
		return model.Sample{}, err
	}
	memory, err := s.memory(ctx)
	if err != nil {
		return model.Sample{}, err
	}
	disks, err := s.disks(ctx)
	if err != nil {
		return model.Sample{}, err
	}

	s.Logger.Debug("sample collected",
		slog.Duration("took", time.Since(start)),
		slog.Int("partitions", len(disks)),
		slog.Int("processes", len(procs)))

	return model.Sample{
		Timestamp: start,
		CPU:       cpuPct,
		Memory:    memory,
		Disks:     disks,
		Top:       SelectTop(procs, s.TopN),
	}, nil
}

func (s *Sampler) cpuPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, s.CPUWindow, false)
	if err != nil {
		return 0, fmt.Errorf("%w: cpu percent: %w", ErrCollect, err)
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("%w: cpu percent: no data", ErrCollect)
	}
	return model.Round1(pcts[0]), nil
}

func (s *Sampler) memory(ctx context.Context) (model.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.Memory{}, fmt.Errorf("%w: virtual memory: %w", ErrCollect, err)
	}
	return memoryFromStat(vm), nil
}

// memoryFromStat reports usage as the share of RAM not available to new
// allocations, (total - available) / total.
func memoryFromStat(vm *mem.VirtualMemoryStat) model.Memory {
	m := model.Memory{
		TotalBytes: vm.Total,
		UsedBytes:  vm.Used,
		FreeBytes:  vm.Free,
	}
	if vm.Total > 0 && vm.Available <= vm.Total {
		m.Percent = model.Round1(float64(vm.Total-vm.Available) / float64(vm.Total) * 100)
	}
	return m
}

func (s *Sampler) disks(ctx context.Context) ([]model.Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: disk partitions: %w", ErrCollect, err)
	}
	disks := make([]model.Disk, 0, len(parts))
	for _, p := range parts {
		u, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: disk usage %s: %w", ErrCollect, p.Mountpoint, err)
		}
		disks = append(disks, model.Disk{
			MountPoint: p.Mountpoint,
			TotalBytes: u.Total,
			UsedBytes:  u.Used,
			FreeBytes:  u.Free,
			Percent:    model.Round1(u.UsedPercent),
		})
	}
	return disks, nil
}

// procHandle is the part of a process the sampler reads.
type procHandle interface {
	PID() int
	NameWithContext(ctx context.Context) (string, error)
	TimesWithContext(ctx context.Context) (*cpu.TimesStat, error)
}

type hostProcess struct{ *process.Process }

func (p hostProcess) PID() int { return int(p.Pid) }

func listProcesses(ctx context.Context) ([]procHandle, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: process list: %w", ErrCollect, err)
	}
	handles := make([]procHandle, 0, len(procs))
	for _, p := range procs {
		handles = append(handles, hostProcess{p})
	}
	return handles, nil
}

type procReading struct {
	h    procHandle
	name string
	busy float64 // user+system seconds
}

// measureProcesses reads every process's CPU time before and after window and
// reports the difference as a percentage of the elapsed time, in enumeration order.
// Processes that exit or deny access while being read are skipped.
func (s *Sampler) measureProcesses(ctx context.Context, handles []procHandle, window func(context.Context) (time.Duration, error)) ([]model.Process, error) {
	skipped := 0
	before := make([]procReading, 0, len(handles))
	for _, h := range handles {
		name, err := h.NameWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		t, err := h.TimesWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		before = append(before, procReading{h: h, name: name, busy: t.User + t.System})
	}

	elapsed, err := window(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Process, 0, len(before))
	for _, r := range before {
		t, err := r.h.TimesWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		var pct float64
		if delta := t.User + t.System - r.busy; delta > 0 && elapsed > 0 {
			pct = delta / elapsed.Seconds() * 100
		}
		out = append(out, model.Process{
			PID:  r.h.PID(),
			Name: r.name,
			CPU:  model.Round1(pct),
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.Logger.Debug("processes skipped", slog.Int("count", skipped))
	}
	return out, nil
}

// SelectTop returns at most n processes sorted by CPU descending.
// Ties keep their input order.
func SelectTop(procs []model.Process, n int) []model.Process {
	top := make([]model.Process, len(procs))
	copy(top, procs)
	sort.SliceStable(top, func(i, j int) bool { return top[i].CPU > top[j].CPU })
	if n >= 0 && len(top) > n {
		top = top[:n]
	}
	return top
}
