package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Dicklesworthstone/sysreport/internal/model"
)

func encodeCSV(w io.Writer, s model.Sample) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	rows := [][]string{
		{"Metric", "Value"},
		{"CPU Usage", percent(s.CPU) + "%"},
		{"Memory Usage", percent(s.Memory.Percent) + "%"},
	}
	for _, d := range s.Disks {
		rows = append(rows, []string{"Disk Usage (" + d.MountPoint + ")", percent(d.Percent) + "%"})
	}
	rows = append(rows,
		[]string{"Top Processes", ""},
		[]string{"PID", "Name", "CPU Usage"},
	)
	for _, p := range s.Top {
		rows = append(rows, []string{strconv.Itoa(p.PID), p.Name, percent(p.CPU) + "%"})
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
