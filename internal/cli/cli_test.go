package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/qcircuit"
	"gopkg.in/yaml.v3"
)

func execute(args ...string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestRootCommand(t *testing.T) {
	Convey("Given the root command", t, func() {
		Convey("An unknown format is a command error", func() {
			_, err := execute("dj", "--format", "xml")
			So(err, ShouldNotBeNil)
			So(GetExitCode(err), ShouldEqual, ExitCommandError)
		})

		Convey("A missing config file is a command error", func() {
			_, err := execute("dj", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
			So(GetExitCode(err), ShouldEqual, ExitCommandError)
		})

		Convey("Plain errors exit with the failure code", func() {
			So(GetExitCode(errors.New("boom")), ShouldEqual, ExitFailure)
			So(WrapExitError(ExitCommandError, "reading", os.ErrNotExist).Error(), ShouldEqual, "reading: file does not exist")
		})
	})
}

func TestDJCommand(t *testing.T) {
	Convey("Given the dj command", t, func() {
		Convey("The constant-0 oracle measures all zeros", func() {
			buf, err := execute("dj", "--inputs", "3", "--shots", "1024", "--seed", "7", "--format", "json")
			So(err, ShouldBeNil)

			var report RunReport
			So(json.Unmarshal(buf.Bytes(), &report), ShouldBeNil)
			So(report.Name, ShouldEqual, "constant-0")
			So(report.Qubits, ShouldEqual, 4)
			So(report.Verdict, ShouldEqual, "constant")
			So(report.Counts, ShouldResemble, qcircuit.Counts{"000": 1024})
		})

		Convey("A balanced oracle measures its mask", func() {
			buf, err := execute("dj", "--oracle", "balanced", "--mask", "0b011", "--shots", "64", "--format", "yaml")
			So(err, ShouldBeNil)

			var report RunReport
			So(yaml.Unmarshal(buf.Bytes(), &report), ShouldBeNil)
			So(report.Verdict, ShouldEqual, "balanced")
			So(report.Counts, ShouldResemble, qcircuit.Counts{"110": 64})
		})

		Convey("Text output is a table of outcomes", func() {
			buf, err := execute("dj", "--inputs", "2", "--shots", "16")
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "verdict: constant")
			So(buf.String(), ShouldContainSubstring, "00")
			So(buf.String(), ShouldContainSubstring, "1.0000")
		})

		Convey("Bad oracles and sizes are command errors", func() {
			_, err := execute("dj", "--oracle", "parity")
			So(GetExitCode(err), ShouldEqual, ExitCommandError)

			_, err = execute("dj", "--oracle", "balanced", "--mask", "0")
			So(errors.Is(err, qcircuit.ErrInvalidOperands), ShouldBeTrue)

			_, err = execute("dj", "--inputs", "0")
			So(errors.Is(err, qcircuit.ErrInvalidSize), ShouldBeTrue)
		})

		Convey("A register beyond capacity fails the run", func() {
			_, err := execute("dj", "--inputs", "40")
			So(GetExitCode(err), ShouldEqual, ExitFailure)
			So(errors.Is(err, qcircuit.ErrInvalidSize), ShouldBeTrue)
		})
	})
}

func TestRunCommand(t *testing.T) {
	Convey("Given a Bell circuit file", t, func() {
		path := filepath.Join(t.TempDir(), "bell.yaml")
		So(os.WriteFile(path, []byte(`
qubits: 2
operations:
  - gate: h
    qubits: [0]
  - gate: cx
    qubits: [0, 1]
measure:
  qubits: [0, 1]
  shots: 500
`), 0o644), ShouldBeNil)

		Convey("Only correlated outcomes are measured", func() {
			buf, err := execute("run", path, "--seed", "3", "--format", "json")
			So(err, ShouldBeNil)

			var report RunReport
			So(json.Unmarshal(buf.Bytes(), &report), ShouldBeNil)
			So(report.Counts.Total(), ShouldEqual, 500)
			for outcome := range report.Counts {
				So(outcome, ShouldBeIn, "00", "11")
			}
		})

		Convey("A missing file is a command error", func() {
			_, err := execute("run", filepath.Join(t.TempDir(), "none.yaml"))
			So(GetExitCode(err), ShouldEqual, ExitCommandError)
		})
	})

	Convey("Given circuit sources to parse", t, func() {
		Convey("A single qubit gate on several qubits is applied to each", func() {
			program, err := parseCircuit([]byte(`
qubits: 3
operations:
  - gate: h
    qubits: [0, 1, 2]
measure:
  qubits: [0, 1, 2]
`), 128)
			So(err, ShouldBeNil)
			So(program.Operations, ShouldHaveLength, 3)
			So(program.Operations[2].Qubits, ShouldResemble, []int{2})
			So(program.Measure.Shots, ShouldEqual, 128)
		})

		Convey("Unknown gates are rejected", func() {
			_, err := parseCircuit([]byte("qubits: 1\noperations:\n  - gate: toffoli\n    qubits: [0]\n"), 1)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "operation 0")
		})

		Convey("Invalid YAML is rejected", func() {
			_, err := parseCircuit([]byte("qubits: [oops"), 1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBatchCommand(t *testing.T) {
	Convey("Given a batch over three inputs", t, func() {
		buf, err := execute("batch", "--inputs", "3", "--shots", "128", "--seed", "100", "--workers", "2", "--format", "json")
		So(err, ShouldBeNil)

		var report BatchReport
		So(json.Unmarshal(buf.Bytes(), &report), ShouldBeNil)

		Convey("Every oracle gets one job with its own seed", func() {
			So(report.Jobs, ShouldHaveLength, 9)
			for i, job := range report.Jobs {
				So(job.Seed, ShouldEqual, uint64(100+i))
				So(job.Error, ShouldBeEmpty)
				So(job.Counts.Total(), ShouldEqual, 128)
			}
		})

		Convey("Constant and balanced oracles are told apart", func() {
			So(report.Jobs[0].Verdict, ShouldEqual, "constant")
			So(report.Jobs[1].Verdict, ShouldEqual, "constant")
			for _, job := range report.Jobs[2:] {
				So(job.Verdict, ShouldEqual, "balanced")
			}
		})

		Convey("Pool metrics are reported", func() {
			So(report.Metrics["job_count"], ShouldEqual, 9.0)
			So(report.Metrics["worker_count"], ShouldEqual, 2.0)
		})
	})

	Convey("The job bound caps the balanced oracles", t, func() {
		oracles, err := batchOracles(4, 5)
		So(err, ShouldBeNil)
		So(oracles, ShouldHaveLength, 5)
		So(oracles[4].Name, ShouldEqual, "balanced-11")

		_, err = batchOracles(3, 1)
		So(err, ShouldNotBeNil)
	})

	Convey("The text form prints both tables", t, func() {
		buf, err := execute("batch", "--inputs", "2", "--shots", "32", "--seed", "5")
		So(err, ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "batch: 2 inputs, 32 shots, 5 jobs")
		So(buf.String(), ShouldContainSubstring, "balanced-11")
		So(buf.String(), ShouldContainSubstring, "shots_sampled")
	})
}
