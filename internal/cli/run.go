package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qcircuit"
	"gopkg.in/yaml.v3"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed uint64
}

// circuitFile is the YAML form of a Program.
type circuitFile struct {
	Qubits     int `yaml:"qubits"`
	Operations []struct {
		Gate   string `yaml:"gate"`
		Qubits []int  `yaml:"qubits"`
	} `yaml:"operations"`
	Measure struct {
		Qubits []int `yaml:"qubits"`
		Shots  int   `yaml:"shots"`
	} `yaml:"measure"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <circuit.yaml>",
		Short: "Run a circuit described in YAML",
		Long: `Run a gate program read from a YAML file and print its outcome table.

A single qubit gate listed with several qubits is applied to each of them in
order. Controlled gates list their controls first and the target last.

Example file:
  qubits: 2
  operations:
    - gate: h
      qubits: [0]
    - gate: cx
      qubits: [0, 1]
  measure:
    qubits: [0, 1]
    shots: 1024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default from config)")

	return cmd
}

func runCircuit(opts *RunOptions, path string, cmd *cobra.Command) error {
	config, err := opts.Config()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read circuit", err)
	}

	program, err := parseCircuit(data, config.Shots)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid circuit %s", path), err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = config.Seed
	}

	counts, err := qcircuit.Execute(program, qcircuit.NewRandomSource(seed), config)
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return out.Write(RunReport{
		Name:   path,
		Qubits: program.Qubits,
		Shots:  program.Measure.Shots,
		Seed:   seed,
		Counts: counts,
	})
}

// parseCircuit decodes a circuit file into a Program. A missing shot count
// falls back to defaultShots.
func parseCircuit(data []byte, defaultShots int) (qcircuit.Program, error) {
	var file circuitFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return qcircuit.Program{}, err
	}

	program := qcircuit.Program{
		Qubits: file.Qubits,
		Measure: qcircuit.MeasurementSpec{
			Qubits: file.Measure.Qubits,
			Shots:  file.Measure.Shots,
		},
	}
	if program.Measure.Shots == 0 {
		program.Measure.Shots = defaultShots
	}

	for i, op := range file.Operations {
		gate, ok := qcircuit.GateByName(op.Gate)
		if !ok {
			return qcircuit.Program{}, fmt.Errorf("operation %d: unknown gate %q", i, op.Gate)
		}

		if gate.Arity() == 1 && len(op.Qubits) > 1 {
			for _, q := range op.Qubits {
				program.Operations = append(program.Operations, qcircuit.Operation{Gate: gate, Qubits: []int{q}})
			}
			continue
		}

		program.Operations = append(program.Operations, qcircuit.Operation{Gate: gate, Qubits: op.Qubits})
	}

	return program, nil
}
