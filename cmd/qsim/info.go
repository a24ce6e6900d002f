package main

import (
	"fmt"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func newInfoCmd(global *globalFlags) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "info SCRIPT",
		Short: "Describe a circuit script without running it",
		Long:  `Print depth, gate counts and qubit connectivity of SCRIPT. --dump prints every layer.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuit, err := loadCircuit(args[0], global.numQubits)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, circuit.Info())

			counts := circuit.GateCountByType()
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			slices.Sort(names)

			fmt.Fprintln(out, "Gate counts:")
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %d\n", name, counts[name])
			}

			fmt.Fprintln(out, "Connectivity:")
			for q, peers := range circuit.QubitConnectivity() {
				fmt.Fprintf(out, "  q%d: %v\n", q, peers)
			}

			if measured := circuit.MeasuredQubits(); len(measured) > 0 {
				fmt.Fprintf(out, "Measured: %v\n", measured)
			}

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(out, circuit.Layers())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the layer structure")
	return cmd
}
