package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/sysreport/internal/config"
	"github.com/Dicklesworthstone/sysreport/internal/report"
)

func newShowCmd(d Deps) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the last written report",
		Long: `Print the report file left by the last cycle. JSON reports are colorized.

Examples:
  sysreport show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			// the monitoring settings don't apply here
			if err := cfg.ValidateFormat(); err != nil {
				return err
			}
			data, err := report.ReadLast(cfg.OutputDir, cfg.Encoding())
			if err != nil {
				return err
			}
			if cfg.Encoding() == report.JSON {
				if data, err = prettyJSON(data); err != nil {
					return fmt.Errorf("format %s: %w", cfg.Encoding().FileName(), err)
				}
			}
			_, err = fmt.Fprintln(d.Stdout, string(data))
			return err
		},
	}

	def := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.format, "format", def.Format, "report format to show: "+encodingList())
	fs.StringVar(&f.outputDir, "output-dir", def.OutputDir, "directory the report file was written to")
	return cmd
}

func prettyJSON(data []byte) ([]byte, error) {
	pf := prettyjson.NewFormatter()
	pf.Indent = 4
	pf.DisabledColor = color.NoColor
	return pf.Format(data)
}
