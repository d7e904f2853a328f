// Package monitor drives the collect, alert, report cycle.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/Dicklesworthstone/sysreport/internal/alert"
	"github.com/Dicklesworthstone/sysreport/internal/model"
	"github.com/Dicklesworthstone/sysreport/internal/report"
)

// Collector produces one sample per call. *sampler.Sampler satisfies it.
type Collector interface {
	Collect(ctx context.Context) (model.Sample, error)
}

// Cycle is everything one iteration produced.
type Cycle struct {
	Seq    int
	Sample model.Sample
	Alerts []string
	Output string // full text report or a save confirmation
	Path   string
}

var alertColor = color.New(color.FgRed, color.Bold)

// Runner executes cycles strictly one after another.
type Runner struct {
	Collector Collector
	Writer    *report.Writer
	Encoding  report.Encoding
	Interval  time.Duration
	// MaxCycles stops the loop after that many cycles; 0 runs until ctx is done.
	MaxCycles int
	Out       io.Writer
	Logger    *slog.Logger
	// Sink, if set, receives every completed cycle.
	Sink func(Cycle)
}

// Run loops until ctx is canceled, MaxCycles is reached, or a cycle fails.
// Cancellation is a clean stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	for seq := 1; ; seq++ {
		c, err := r.cycle(ctx, seq, out, logger)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("monitor stopped", slog.Int("cycles", seq-1))
				return nil
			}
			return err
		}
		if r.Sink != nil {
			r.Sink(c)
		}
		if r.MaxCycles > 0 && seq >= r.MaxCycles {
			return nil
		}
		if !sleep(ctx, r.Interval) {
			logger.Info("monitor stopped", slog.Int("cycles", seq))
			return nil
		}
	}
}

func (r *Runner) cycle(ctx context.Context, seq int, out io.Writer, logger *slog.Logger) (Cycle, error) {
	sample, err := r.Collector.Collect(ctx)
	if err != nil {
		return Cycle{}, err
	}

	alerts := alert.EvaluateSample(sample)
	for _, a := range alerts {
		if _, err := alertColor.Fprintln(out, "Alert: "+a); err != nil {
			return Cycle{}, fmt.Errorf("print alert: %w", err)
		}
	}
	for _, d := range alert.OverfullDisks(sample.Disks) {
		logger.Debug("partition above limit",
			slog.String("mount_point", d.MountPoint),
			slog.Float64("percent", d.Percent))
	}

	output, path, err := r.Writer.Write(sample, r.Encoding)
	if err != nil {
		return Cycle{}, err
	}
	if _, err := fmt.Fprintln(out, output); err != nil {
		return Cycle{}, fmt.Errorf("print report: %w", err)
	}

	logger.Debug("cycle complete",
		slog.Int("seq", seq),
		slog.Int("alerts", len(alerts)),
		slog.String("path", path))

	return Cycle{Seq: seq, Sample: sample, Alerts: alerts, Output: output, Path: path}, nil
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
