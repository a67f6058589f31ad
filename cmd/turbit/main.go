// Command turbit runs the bundled example workloads on the parallel engine,
// compares it against sequential processing and reports machine capacity.
//
// Usage:
//
//	turbit [flags] demo [name...]
//	turbit [flags] bench
//	turbit [flags] stats
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarsh5026/turbit/internal/config"
	"github.com/utkarsh5026/turbit/internal/demo"
	"github.com/utkarsh5026/turbit/pool"
)

var (
	Cyan   = color.New(color.FgCyan, color.Bold)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed, color.Bold)
	Bold   = color.New(color.Bold)
)

func main() {
	pool.ServeIfWorker()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("turbit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs, stderr) }

	cfg, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		colorFprintln(stderr, Red, err)
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(fs, stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "demo":
		err = runDemos(ctx, cfg, cmdArgs, stdout)
	case "bench":
		err = runBench(ctx, cfg, stdout, stderr)
	case "stats":
		err = runStats(cfg, stdout)
	case "help":
		usage(fs, stdout)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		colorFprintln(stderr, Red, "Error:", err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: turbit [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  demo [name...]  run the example workloads (all when no name is given)")
	fmt.Fprintln(w, "  bench           speed test: sequential processing against the engine")
	fmt.Fprintln(w, "  stats           machine capacity and worker count per power level")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Demos:")
	for _, d := range demo.All() {
		fmt.Fprintf(w, "  %-18s %s, power %d%%\n", d.Name, d.Description, d.Power)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Demos run at the power shown unless -power or TURBIT_POWER is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// newEngine builds an engine from cfg. reg may be nil.
func newEngine(cfg *config.Config, reg prometheus.Registerer) (*pool.Engine, error) {
	opts := cfg.EngineOptions()
	if reg != nil {
		opts = append(opts, pool.WithMetrics(reg))
	}
	return pool.New(opts...)
}

func runDemos(ctx context.Context, cfg *config.Config, names []string, w io.Writer) error {
	selected := demo.All()
	if len(names) > 0 {
		selected = selected[:0]
		for _, name := range names {
			d, ok := demo.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown demo %q", name)
			}
			selected = append(selected, d)
		}
	}

	e, err := newEngine(cfg, nil)
	if err != nil {
		return err
	}
	defer e.Teardown()

	for _, d := range selected {
		colorFprintln(w, Bold, "▶", d.Name, "-", d.Description)
		if err := d.Run(ctx, e, cfg.DemoPower(d.Power), w); err != nil {
			return fmt.Errorf("demo %s: %w", d.Name, err)
		}
	}
	return nil
}

func colorFprintln(w io.Writer, c *color.Color, a ...any) {
	_, _ = c.Fprintln(w, a...)
}

func colorFprintf(w io.Writer, c *color.Color, format string, a ...any) {
	_, _ = c.Fprintf(w, format, a...)
}
