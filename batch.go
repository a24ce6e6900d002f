package qsim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs one circuit of a batch with its outcome.
type BatchResult struct {
	Index  int
	Result *QuantumResult
	Err    error
}

/*
SimulateBatch runs every circuit on its own simulator, at most
cfg.MaxParallelGates at a time. A failing circuit does not stop the
others; its error is reported in its slot. Results are in input order.
Cancelling ctx stops circuits that have not started yet.
*/
func SimulateBatch(ctx context.Context, circuits []*QuantumCircuit, cfg SimulationConfig) []BatchResult {
	results := make([]BatchResult, len(circuits))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.workers())

	for i, circuit := range circuits {
		results[i].Index = i

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			// a single circuit never fans out inside a batch
			local := cfg
			local.MaxParallelGates = 1

			sim := NewStateVectorSimulator(WithConfig(local))
			defer sim.Close()

			result, err := sim.ExecuteCircuit(circuit)
			if err != nil {
				results[i].Err = fmt.Errorf("circuit %d (%s): %w", i, circuit.Name, err)
				return nil
			}
			results[i].Result = result
			return nil
		})
	}

	_ = group.Wait()
	return results
}
