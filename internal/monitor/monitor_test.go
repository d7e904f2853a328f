package monitor_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/sysreport/internal/model"
	"github.com/Dicklesworthstone/sysreport/internal/monitor"
	"github.com/Dicklesworthstone/sysreport/internal/report"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakeCollector struct {
	sample model.Sample
	err    error
	calls  int
}

func (f *fakeCollector) Collect(ctx context.Context) (model.Sample, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return model.Sample{}, err
	}
	return f.sample, f.err
}

func busySample() model.Sample {
	return model.Sample{
		CPU:    85,
		Memory: model.Memory{Percent: 60},
		Disks:  []model.Disk{{MountPoint: "/", Percent: 95}},
		Top:    []model.Process{{PID: 1, Name: "init", CPU: 0.1}},
	}
}

func newRunner(t *testing.T, c monitor.Collector, enc report.Encoding, out *bytes.Buffer) *monitor.Runner {
	t.Helper()
	return &monitor.Runner{
		Collector: c,
		Writer:    report.NewWriter(t.TempDir()),
		Encoding:  enc,
		Interval:  time.Millisecond,
		Out:       out,
	}
}

func TestRunTextCycle(t *testing.T) {
	var out bytes.Buffer
	fc := &fakeCollector{sample: busySample()}
	r := newRunner(t, fc, report.Text, &out)
	r.MaxCycles = 1

	var cycles []monitor.Cycle
	r.Sink = func(c monitor.Cycle) { cycles = append(cycles, c) }

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, cycles, 1)

	c := cycles[0]
	assert.Equal(t, []string{
		"CPU usage is reached above 80%!",
		"Disk space usage is reached above 90%!",
	}, c.Alerts)
	assert.Equal(t, filepath.Join(r.Writer.Dir, "system_report.txt"), c.Path)

	data, err := os.ReadFile(c.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "CPU Usage: 85%"))

	want := "Alert: CPU usage is reached above 80%!\n" +
		"Alert: Disk space usage is reached above 90%!\n" +
		string(data) + "\n"
	assert.Equal(t, want, out.String())
}

func TestRunJSONPrintsConfirmation(t *testing.T) {
	var out bytes.Buffer
	fc := &fakeCollector{sample: model.Sample{CPU: 5, Memory: model.Memory{Percent: 10}}}
	r := newRunner(t, fc, report.JSON, &out)
	r.MaxCycles = 1

	require.NoError(t, r.Run(context.Background()))

	path := r.Writer.Path(report.JSON)
	assert.Equal(t, "Report saved as "+path+"\n", out.String())
	assert.FileExists(t, path)
}

func TestRunRepeatsUntilMaxCycles(t *testing.T) {
	var out bytes.Buffer
	fc := &fakeCollector{sample: model.Sample{}}
	r := newRunner(t, fc, report.CSV, &out)
	r.MaxCycles = 3

	var seqs []int
	r.Sink = func(c monitor.Cycle) { seqs = append(seqs, c.Seq) }

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 3, fc.calls)
	assert.Equal(t, []int{1, 2, 3}, seqs)
	assert.Equal(t, 3, strings.Count(out.String(), "Report saved as"))
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	fc := &fakeCollector{sample: model.Sample{}}
	r := newRunner(t, fc, report.Text, &out)
	r.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	r.Sink = func(monitor.Cycle) { cancel() }

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	assert.Equal(t, 1, fc.calls)
}

func TestRunCanceledBeforeStart(t *testing.T) {
	fc := &fakeCollector{}
	r := newRunner(t, fc, report.Text, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, r.Run(ctx))
	assert.NoFileExists(t, r.Writer.Path(report.Text))
}

func TestRunCollectErrorIsFatal(t *testing.T) {
	boom := errors.New("permission denied")
	fc := &fakeCollector{err: boom}
	r := newRunner(t, fc, report.Text, &bytes.Buffer{})

	err := r.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, fc.calls)
	assert.NoFileExists(t, r.Writer.Path(report.Text))
}

func TestRunWriteErrorIsFatal(t *testing.T) {
	fc := &fakeCollector{sample: model.Sample{}}
	r := newRunner(t, fc, report.JSON, &bytes.Buffer{})
	r.Writer = report.NewWriter(filepath.Join(t.TempDir(), "gone"))

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
