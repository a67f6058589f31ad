package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/utkarsh5026/turbit/internal/config"
	"github.com/utkarsh5026/turbit/internal/cpu"
	"github.com/utkarsh5026/turbit/pool"
)

var powerLevels = []int{10, 25, 50, pool.DefaultPower, 100}

func runStats(cfg *config.Config, w io.Writer) error {
	maxProcesses := cfg.MaxProcesses
	if maxProcesses == 0 {
		maxProcesses = cpu.GetNumCPU()
	}

	colorFprintln(w, Cyan, "Machine")
	machine := tablewriter.NewWriter(w)
	machine.Header("Metric", "Value")
	_ = machine.Append("CPU cores", strconv.Itoa(cpu.GetNumCPU()))
	_ = machine.Append("Max processes", strconv.Itoa(maxProcesses))
	_ = machine.Append("Total memory", formatMemory(cpu.TotalMemory()))
	_ = machine.Append("Free memory", formatMemory(cpu.FreeMemory()))
	if pct, ok := cpu.MemoryUsagePercent(); ok {
		_ = machine.Append("Memory usage", fmt.Sprintf("%.1f%%", pct))
	} else {
		_ = machine.Append("Memory usage", "n/a")
	}
	if load, ok := cpu.LoadAverage(); ok {
		_ = machine.Append("Load average (1m)", fmt.Sprintf("%.2f", load))
	} else {
		_ = machine.Append("Load average (1m)", "n/a")
	}
	if err := machine.Render(); err != nil {
		return err
	}

	colorFprintln(w, Cyan, "\nWorkers per power level")
	levels := tablewriter.NewWriter(w)
	levels.Header("Power", "Workers")
	for _, p := range powerLevels {
		_ = levels.Append(fmt.Sprintf("%d%%", p), strconv.Itoa(pool.WorkerCount(p, maxProcesses)))
	}
	if cfg.Power != pool.DefaultPower {
		_ = levels.Append(fmt.Sprintf("%d%% (configured)", cfg.Power), strconv.Itoa(pool.WorkerCount(cfg.Power, maxProcesses)))
	}
	return levels.Render()
}

func formatMemory(n uint64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return pool.FormatBytes(int64(n))
}
