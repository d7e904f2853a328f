package cli

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/sysreport/internal/config"
	"github.com/Dicklesworthstone/sysreport/internal/monitor"
	"github.com/Dicklesworthstone/sysreport/internal/report"
	"github.com/Dicklesworthstone/sysreport/internal/sampler"
	"github.com/Dicklesworthstone/sysreport/internal/ui"
)

// Deps are the process-level collaborators; zero fields fall back to the real host.
type Deps struct {
	NewCollector func(*slog.Logger) monitor.Collector
	Stdout       io.Writer
	Stderr       io.Writer
	GOOS         string
}

func (d Deps) withDefaults() Deps {
	if d.NewCollector == nil {
		d.NewCollector = func(l *slog.Logger) monitor.Collector { return sampler.New(l) }
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.GOOS == "" {
		d.GOOS = runtime.GOOS
	}
	return d
}

type flags struct {
	configPath string
	interval   int
	format     string
	outputDir  string
	logLevel   string
	count      int
	tui        bool
}

func NewRootCmd(d Deps) *cobra.Command {
	d = d.withDefaults()
	var f flags

	cmd := &cobra.Command{
		Use:   "sysreport",
		Short: "Monitor system performance",
		Long: `sysreport samples CPU, memory, disk and process usage at a fixed interval,
prints threshold alerts and rewrites a report file every cycle.

Examples:
  # text report every 10 seconds
  sysreport

  # JSON report every 5 seconds into /var/tmp
  sysreport --interval 5 --format json --output-dir /var/tmp`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.CheckPlatform(d.GOOS); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}

			logger := newLogger(level, d.Stderr)
			logger.Debug("starting",
				slog.Int("interval", cfg.Interval),
				slog.String("format", cfg.Format),
				slog.String("output_dir", cfg.OutputDir))

			runner := &monitor.Runner{
				Collector: d.NewCollector(logger),
				Writer:    report.NewWriter(cfg.OutputDir),
				Encoding:  cfg.Encoding(),
				Interval:  cfg.Period(),
				MaxCycles: cfg.Count,
				Out:       d.Stdout,
				Logger:    logger,
			}
			if cfg.TUI {
				return ui.RunTUI(cmd.Context(), runner)
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.SetOut(d.Stdout)
	cmd.SetErr(d.Stderr)

	def := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.IntVar(&f.interval, "interval", def.Interval, "monitoring interval in seconds")
	fs.StringVar(&f.format, "format", def.Format, "output format: "+encodingList())
	fs.StringVar(&f.outputDir, "output-dir", def.OutputDir, "directory the report file is written to")
	fs.StringVar(&f.logLevel, "log-level", def.LogLevel, "diagnostic log level: debug|info|warn|error")
	fs.IntVar(&f.count, "count", def.Count, "stop after this many cycles (0 runs until interrupted)")
	fs.BoolVar(&f.tui, "tui", def.TUI, "show a live terminal view instead of printing reports")

	cmd.AddCommand(newShowCmd(d))
	return cmd
}

// loadConfig layers explicitly set flags over file and environment values.
// Callers validate what they use.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	fs := cmd.Flags()
	if fs.Changed("interval") {
		cfg.Interval = f.interval
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("count") {
		cfg.Count = f.count
	}
	if fs.Changed("tui") {
		cfg.TUI = f.tui
	}
	return cfg, nil
}

func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func encodingList() string {
	names := make([]string, 0, 3)
	for _, e := range report.Encodings() {
		names = append(names, string(e))
	}
	return strings.Join(names, "|")
}
