package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qcircuit"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format     string // "text" | "json" | "yaml"
	ConfigPath string

	config *qcircuit.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the qcircuit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qcircuit",
		Short: "Statevector circuit simulator",
		Long:  "Runs Deutsch-Jozsa and small gate programs on a simulated qubit register.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			_, err := opts.Config()
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a config file")

	cmd.AddCommand(NewDJCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))

	return cmd
}

// Config loads the configuration once per invocation.
func (o *RootOptions) Config() (*qcircuit.Config, error) {
	if o.config != nil {
		return o.config, nil
	}

	config, err := qcircuit.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	o.config = config
	return config, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
