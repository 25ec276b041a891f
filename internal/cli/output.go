package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/theapemachine/qcircuit"
	"gopkg.in/yaml.v3"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A run failed
	ExitCommandError = 2 // Bad flags, files or config
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// RunReport is the outcome table of one circuit run.
type RunReport struct {
	Name    string          `json:"name" yaml:"name"`
	Qubits  int             `json:"qubits" yaml:"qubits"`
	Shots   int             `json:"shots" yaml:"shots"`
	Seed    uint64          `json:"seed" yaml:"seed"`
	Verdict string          `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Counts  qcircuit.Counts `json:"counts" yaml:"counts"`
}

// BatchRow is one job of a batch.
type BatchRow struct {
	ID      string          `json:"id" yaml:"id"`
	Oracle  string          `json:"oracle" yaml:"oracle"`
	Seed    uint64          `json:"seed" yaml:"seed"`
	Verdict string          `json:"verdict" yaml:"verdict"`
	Counts  qcircuit.Counts `json:"counts,omitempty" yaml:"counts,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchReport collects every job of a batch and the pool metrics.
type BatchReport struct {
	Inputs  int                    `json:"inputs" yaml:"inputs"`
	Shots   int                    `json:"shots" yaml:"shots"`
	Jobs    []BatchRow             `json:"jobs" yaml:"jobs"`
	Metrics map[string]interface{} `json:"metrics" yaml:"metrics"`
}

// OutputFormatter writes reports as text tables, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) Write(report interface{}) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		defer enc.Close()
		return enc.Encode(report)
	}

	switch r := report.(type) {
	case RunReport:
		f.writeRun(r)
	case BatchReport:
		f.writeBatch(r)
	default:
		fmt.Fprintln(f.Writer, report)
	}
	return nil
}

func (f *OutputFormatter) writeRun(r RunReport) {
	fmt.Fprintf(f.Writer, "%s: %d qubits, %d shots, seed %d\n", r.Name, r.Qubits, r.Shots, r.Seed)
	if r.Verdict != "" {
		fmt.Fprintf(f.Writer, "verdict: %s\n", r.Verdict)
	}

	table := tablewriter.NewWriter(f.Writer)
	table.SetHeader([]string{"Outcome", "Count", "Frequency"})
	for _, outcome := range r.Counts.Outcomes() {
		count := r.Counts[outcome]
		table.Append([]string{
			outcome,
			strconv.Itoa(count),
			strconv.FormatFloat(float64(count)/float64(r.Shots), 'f', 4, 64),
		})
	}
	table.Render()
}

func (f *OutputFormatter) writeBatch(r BatchReport) {
	fmt.Fprintf(f.Writer, "batch: %d inputs, %d shots, %d jobs\n", r.Inputs, r.Shots, len(r.Jobs))

	table := tablewriter.NewWriter(f.Writer)
	table.SetHeader([]string{"Job", "Oracle", "Seed", "Verdict", "Outcomes", "Error"})
	for _, row := range r.Jobs {
		table.Append([]string{
			row.ID,
			row.Oracle,
			strconv.FormatUint(row.Seed, 10),
			row.Verdict,
			strconv.Itoa(len(row.Counts)),
			row.Error,
		})
	}
	table.Render()

	metrics := tablewriter.NewWriter(f.Writer)
	metrics.SetHeader([]string{"Metric", "Value"})
	for _, key := range []string{
		"worker_count", "job_count", "failed_jobs", "scheduling_failures",
		"shots_sampled", "success_rate", "avg_latency_ms", "p95_latency_ms", "p99_latency_ms",
	} {
		metrics.Append([]string{key, fmt.Sprint(r.Metrics[key])})
	}
	metrics.Render()
}
