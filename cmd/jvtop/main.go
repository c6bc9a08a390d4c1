package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "", "Path to scenario yaml file")
		budget       = flag.Int("budget", 0, "Byte budget override (0 = scenario value)")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *scenarioFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: jvtop -scenario <file.yaml>")
		fmt.Fprintln(os.Stderr, "       jvtop -scenario <file.yaml> -budget <bytes>")
		fmt.Fprintln(os.Stderr, "       jvtop -scenario <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	scenario, err := LoadScenario(*scenarioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *budget > 0 {
		scenario.Budget = *budget
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(scenario); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(scenario); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scenario *Scenario) error {
	fmt.Printf("Scenario: %s\n", scenario.Name)
	if scenario.Budget > 0 {
		fmt.Printf("Budget: %d bytes\n", scenario.Budget)
	}
	fmt.Printf("Steps: %d\n\n", len(scenario.Steps))

	r := newRunner(scenario.Budget)
	defer r.close()

	failed := 0
	for i, step := range scenario.Steps {
		res := r.apply(step)
		status := "ok"
		if res.Err != nil {
			status = "FAILED: " + res.Err.Error()
			failed++
		}
		fmt.Printf("%3d  %-32s len=%-6d cap=%-6d in-use=%-8d %s\n",
			i+1, formatStep(step), res.Len, res.Cap, res.Stats.BytesInUse, status)
	}

	s := r.counting.Stats()
	fmt.Printf("\n--- resource report ---\n")
	fmt.Printf("allocations:   %d (%d failed)\n", s.Allocs, s.Failures)
	fmt.Printf("deallocations: %d\n", s.Deallocs)
	fmt.Printf("bytes:         %d allocated, %d freed, %d in use (peak %d)\n",
		s.BytesAllocated, s.BytesFreed, s.BytesInUse, s.MaxBytesInUse)
	fmt.Printf("heap blocks:   %d live\n", r.heap.Live())

	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(scenario.Steps))
	}
	return nil
}
