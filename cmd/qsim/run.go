package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qsim"
	"gopkg.in/yaml.v3"
)

type runFlags struct {
	optimize    bool
	level       string
	memoryLimit float64
	shots       int
	seed        uint64
	format      string
}

// runReport is the yaml rendering of one run.
type runReport struct {
	RunID         string                    `yaml:"run_id"`
	Circuit       string                    `yaml:"circuit"`
	Qubits        int                       `yaml:"qubits"`
	Level         string                    `yaml:"level"`
	Optimization  *qsim.OptimizationReport  `yaml:"optimization,omitempty"`
	Measurements  []qsim.MeasurementOutcome `yaml:"measurements"`
	Bitstring     string                    `yaml:"bitstring,omitempty"`
	Amplitudes    []qsim.BasisAmplitude     `yaml:"amplitudes"`
	Counts        map[string]int            `yaml:"counts,omitempty"`
	Operations    int                       `yaml:"operations"`
	ExecutionTime string                    `yaml:"execution_time"`
}

func newRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Simulate a circuit script",
		Long: `Parse SCRIPT, optionally optimise it, execute it and print the
measurement outcomes together with the final amplitudes.

Examples:
  qsim run bell.qs -n 2
  qsim run ghz.qs -n 5 --optimize --level aggressive
  qsim run bell.qs -n 2 --shots 1000 --seed 7 --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.optimize, "optimize", false, "run the circuit optimiser before simulating")
	cmd.Flags().StringVar(&flags.level, "level", "ultra", "optimization level: none, basic, aggressive, ultra")
	cmd.Flags().Float64Var(&flags.memoryLimit, "memory-limit", 8.0, "state vector memory limit in GB")
	cmd.Flags().IntVar(&flags.shots, "shots", 0, "sample this many bitstrings from the final state")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed, 0 picks one")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text or yaml")
	return cmd
}

func runScript(cmd *cobra.Command, global *globalFlags, flags *runFlags, path string) error {
	if flags.format != "text" && flags.format != "yaml" {
		return fmt.Errorf("unknown format %q", flags.format)
	}

	resolved, err := loadSettings(cmd, global.configFile)
	if err != nil {
		return err
	}

	circuit, err := loadCircuit(path, global.numQubits)
	if err != nil {
		return err
	}

	var optimization *qsim.OptimizationReport
	if flags.optimize {
		report := circuit.Optimize()
		optimization = &report
	}

	rng := newRand(resolved.seed)
	sim := qsim.NewStateVectorSimulator(qsim.WithConfig(resolved.config), qsim.WithRand(rng))
	defer sim.Close()

	result, err := sim.ExecuteCircuit(circuit)
	if err != nil {
		return err
	}

	report := runReport{
		RunID:         result.RunID,
		Circuit:       circuit.Name,
		Qubits:        circuit.NumQubits(),
		Level:         resolved.config.OptimizationLevel.String(),
		Optimization:  optimization,
		Measurements:  result.Measurements,
		Bitstring:     result.Bitstring(),
		Amplitudes:    result.FinalState.NonZero(),
		Operations:    result.OperationsCount,
		ExecutionTime: result.ExecutionTime.String(),
	}
	if flags.shots > 0 {
		report.Counts = result.FinalState.SampleCounts(flags.shots, rng)
	}

	out := cmd.OutOrStdout()
	if flags.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	}

	writeRunText(out, report, result.ExecutionTime)
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func writeRunText(out io.Writer, report runReport, elapsed time.Duration) {
	fmt.Fprintf(out, "Run %s: %s (%d qubits, level %s)\n", report.RunID, report.Circuit, report.Qubits, report.Level)

	if opt := report.Optimization; opt != nil {
		fmt.Fprintf(out, "Optimized: %d -> %d gates, depth %d -> %d\n",
			opt.GatesBefore, opt.GatesAfter, opt.DepthBefore, opt.DepthAfter)
	}

	if len(report.Measurements) > 0 {
		fmt.Fprintln(out, "Measurements:")
		for _, m := range report.Measurements {
			fmt.Fprintf(out, "  q%d = %d\n", m.Qubit, m.Value())
		}
	}

	fmt.Fprintln(out, "Amplitudes:")
	for _, amp := range report.Amplitudes {
		fmt.Fprintf(out, "  |%s>  %+.6f%+.6fi  p=%.6f\n", amp.Basis, amp.Real, amp.Imag, amp.Prob)
	}

	if len(report.Counts) > 0 {
		fmt.Fprintln(out, "Counts:")
		keys := make([]string, 0, len(report.Counts))
		for k := range report.Counts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %d\n", k, report.Counts[k])
		}
	}

	fmt.Fprintf(out, "Operations: %d in %v\n", report.Operations, elapsed)
}
