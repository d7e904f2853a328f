package model

import (
	"math"
	"time"
)

const bytesPerGiB = 1024 * 1024 * 1024

// Memory captures RAM usage in bytes for precision.
type Memory struct {
	Percent    float64 // percent 0-100
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
}

func (m Memory) TotalGB() float64 { return GiB(m.TotalBytes) }
func (m Memory) UsedGB() float64  { return GiB(m.UsedBytes) }
func (m Memory) FreeGB() float64  { return GiB(m.FreeBytes) }

// Disk is the usage of one mounted partition.
type Disk struct {
	MountPoint string
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
	Percent    float64
}

func (d Disk) TotalGB() float64 { return GiB(d.TotalBytes) }
func (d Disk) UsedGB() float64  { return GiB(d.UsedBytes) }
func (d Disk) FreeGB() float64  { return GiB(d.FreeBytes) }

// Process is a lightweight top entry.
type Process struct {
	PID  int
	Name string
	CPU  float64
}

// Sample is the full snapshot of one cycle, exchanged between sampler, alerts and reports.
type Sample struct {
	Timestamp time.Time
	CPU       float64 // percent 0-100
	Memory    Memory
	Disks     []Disk
	Top       []Process
}

func GiB(b uint64) float64 { return float64(b) / bytesPerGiB }

// Round1 rounds a percentage to one decimal place.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }
