package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qcircuit"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Inputs  int
	Shots   int
	Seed    uint64
	Workers int
	MaxJobs int
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify every oracle on a worker pool",
		Long: `Run Deutsch-Jozsa for both constant oracles and the balanced oracle of every
input mask, one job per oracle, on a pool of workers. Job i is seeded with
seed+i.

Example:
  qcircuit batch --inputs 3 --workers 4 --seed 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Inputs, "inputs", 3, "number of input qubits")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "shots per job (default from config)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "base seed (default from config, 0 derives one from the clock)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "number of workers (default from config)")
	cmd.Flags().IntVar(&opts.MaxJobs, "max-jobs", 64, "upper bound on the number of jobs")

	return cmd
}

func runBatch(opts *BatchOptions, cmd *cobra.Command) error {
	config, err := opts.Config()
	if err != nil {
		return err
	}

	shots, seed := opts.Shots, opts.Seed
	if shots <= 0 {
		shots = config.Shots
	}
	if seed == 0 {
		seed = config.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	oracles, err := batchOracles(opts.Inputs, opts.MaxJobs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid batch", err)
	}

	q := qcircuit.NewQ(cmd.Context(), opts.Workers, config)
	defer q.Close()

	results := make([]chan qcircuit.Result, len(oracles))
	for i, oracle := range oracles {
		results[i] = q.ScheduleCircuit(fmt.Sprintf("job-%d", i), opts.Inputs, oracle, shots, seed+uint64(i))
	}

	report := BatchReport{Inputs: opts.Inputs, Shots: shots}
	failures := 0
	for i, ch := range results {
		result := <-ch
		row := BatchRow{
			ID:      fmt.Sprintf("job-%d", i),
			Oracle:  oracles[i].Name,
			Seed:    seed + uint64(i),
			Verdict: qcircuit.Classify(result.Counts).String(),
			Counts:  result.Counts,
		}
		if result.Error != nil {
			row.Error = result.Error.Error()
			failures++
		}
		report.Jobs = append(report.Jobs, row)
	}
	report.Metrics = q.Metrics()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := out.Write(report); err != nil {
		return err
	}

	if failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d jobs failed", failures, len(oracles)))
	}
	return nil
}

// batchOracles lists both constant oracles followed by balanced oracles in
// mask order, stopping at maxJobs.
func batchOracles(inputs, maxJobs int) ([]qcircuit.Oracle, error) {
	if maxJobs < 2 {
		return nil, fmt.Errorf("max-jobs %d leaves no room for the constant oracles", maxJobs)
	}

	oracles := make([]qcircuit.Oracle, 0, maxJobs)
	for _, name := range []string{"constant-0", "constant-1"} {
		oracle, err := oracleByName(name, 0, inputs)
		if err != nil {
			return nil, err
		}
		oracles = append(oracles, oracle)
	}

	for mask := uint64(1); len(oracles) < maxJobs && inputs < 64 && mask < 1<<uint(inputs); mask++ {
		oracle, err := oracleByName("balanced", mask, inputs)
		if err != nil {
			return nil, err
		}
		oracles = append(oracles, oracle)
	}

	return oracles, nil
}
