package report

import (
	"encoding/json"
	"io"

	"github.com/Dicklesworthstone/sysreport/internal/model"
)

type jsonReport struct {
	CPUUsage     float64       `json:"cpu_usage"`
	MemoryUsage  jsonMemory    `json:"memory_usage"`
	DiskUsage    []jsonDisk    `json:"disk_usage"`
	TopProcesses []jsonProcess `json:"top_processes"`
}

type jsonMemory struct {
	Percent float64 `json:"percent"`
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
}

type jsonDisk struct {
	MountPoint string  `json:"mount_point"`
	Total      float64 `json:"total"`
	Used       float64 `json:"used"`
	Free       float64 `json:"free"`
	Percent    float64 `json:"percent"`
}

type jsonProcess struct {
	PID        int     `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
}

func newJSONReport(s model.Sample) jsonReport {
	r := jsonReport{
		CPUUsage: s.CPU,
		MemoryUsage: jsonMemory{
			Percent: s.Memory.Percent,
			TotalGB: s.Memory.TotalGB(),
			UsedGB:  s.Memory.UsedGB(),
			FreeGB:  s.Memory.FreeGB(),
		},
		// empty lists encode as [] rather than null
		DiskUsage:    make([]jsonDisk, 0, len(s.Disks)),
		TopProcesses: make([]jsonProcess, 0, len(s.Top)),
	}
	for _, d := range s.Disks {
		r.DiskUsage = append(r.DiskUsage, jsonDisk{
			MountPoint: d.MountPoint,
			Total:      d.TotalGB(),
			Used:       d.UsedGB(),
			Free:       d.FreeGB(),
			Percent:    d.Percent,
		})
	}
	for _, p := range s.Top {
		r.TopProcesses = append(r.TopProcesses, jsonProcess{
			PID:        p.PID,
			Name:       p.Name,
			CPUPercent: p.CPU,
		})
	}
	return r
}

func encodeJSON(w io.Writer, s model.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(newJSONReport(s))
}
