package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/qsim"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	numQubits  int
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "qsim",
		Short: "qsim - a dense state-vector quantum circuit simulator",
		Long: `qsim builds circuits from line-oriented scripts and simulates them on a
dense state vector.

Script grammar, one command per line, # starts a comment:
  H|X|Y|Z|S|T q       single-qubit gates
  CNOT|CZ|SWAP q1 q2  two-qubit gates
  RX|RY|RZ q angle    rotations, angle may be a pi expression (pi/2, -3*pi/4)
  TOFFOLI c1 c2 t     doubly controlled X
  MEASURE q           measure one qubit after the last layer
  MEASURE_ALL         measure every qubit`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default ./qsim.yaml if present)")
	root.PersistentFlags().IntVarP(&flags.numQubits, "qubits", "n", 2, "number of qubits in the register")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newInfoCmd(flags))
	return root
}

// settings is the resolved configuration: defaults < file < env < flags.
type settings struct {
	config qsim.SimulationConfig
	seed   uint64
}

/*
loadSettings resolves the simulator configuration. Viper keys and their
QSIM_ environment variables are level, memory_limit_gb,
max_parallel_gates, sparse_threshold, parallel_threshold and seed.
*/
func loadSettings(cmd *cobra.Command, configFile string) (settings, error) {
	v := viper.New()
	defaults := qsim.NewSimulationConfig()

	v.SetDefault("level", defaults.OptimizationLevel.String())
	v.SetDefault("memory_limit_gb", defaults.MemoryLimitGB)
	v.SetDefault("max_parallel_gates", defaults.MaxParallelGates)
	v.SetDefault("sparse_threshold", defaults.SparseThreshold)
	v.SetDefault("parallel_threshold", defaults.ParallelThreshold)
	v.SetDefault("seed", 0)

	v.SetEnvPrefix("QSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"level":           "level",
		"memory_limit_gb": "memory-limit",
		"seed":            "seed",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, err
			}
		}
	}

	if err := readConfigFile(v, configFile); err != nil {
		return settings{}, err
	}

	level, err := qsim.ParseOptimizationLevel(v.GetString("level"))
	if err != nil {
		return settings{}, err
	}

	cfg := defaults
	cfg.OptimizationLevel = level
	cfg.MemoryLimitGB = v.GetFloat64("memory_limit_gb")
	cfg.MaxParallelGates = v.GetInt("max_parallel_gates")
	cfg.SparseThreshold = v.GetFloat64("sparse_threshold")
	cfg.ParallelThreshold = v.GetInt("parallel_threshold")

	return settings{config: cfg, seed: v.GetUint64("seed")}, nil
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName("qsim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func loadCircuit(path string, numQubits int) (*qsim.QuantumCircuit, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	circuit, err := qsim.ParseScript(file, numQubits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	circuit.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return circuit, nil
}
