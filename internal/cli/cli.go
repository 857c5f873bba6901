// Package cli implements the analyze/generate subcommand surface (spec §6),
// parsed with the standard library flag package the way the teacher's
// cmd/main.go parses its own flags.
package cli

import (
	"flag"
	"time"

	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
)

// AnalyzeArgs holds the parsed flags for the analyze subcommand.
type AnalyzeArgs struct {
	InputPath          string
	MinWindow          time.Duration
	MaxWindow          time.Duration
	Output             string
	OutputUserAnonsets string
	GenerateTestcase   string
	SizesOnly          bool
	MetricsAddr        string
}

// ParseAnalyzeArgs parses the analyze subcommand's flags, enforcing spec
// §6's mutual-exclusion rule between --sizes-only and
// --generate-testcase/--output-user-anonsets.
func ParseAnalyzeArgs(args []string) (AnalyzeArgs, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	var a AnalyzeArgs
	fs.DurationVar(&a.MinWindow, "min-window", 0, "minimum network delay")
	fs.DurationVar(&a.MaxWindow, "max-window", 0, "maximum network delay")
	fs.StringVar(&a.Output, "output", "", "result JSON output path (may end in .zst or .gz)")
	fs.StringVar(&a.OutputUserAnonsets, "output-user-anonsets", "", "deanonymization JSON output path")
	fs.StringVar(&a.GenerateTestcase, "generate-testcase", "", "write a testcase folder here instead of a result")
	fs.BoolVar(&a.SizesOnly, "sizes-only", false, "emit anonymity-set sizes instead of full destination lists")
	fs.StringVar(&a.MetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return a, apperr.NewConfigError(err.Error())
	}
	if fs.NArg() != 1 {
		return a, apperr.NewConfigError("analyze requires exactly one positional argument: the trace CSV path")
	}
	a.InputPath = fs.Arg(0)

	if a.MinWindow > a.MaxWindow {
		return a, apperr.NewConfigError("--min-window must not exceed --max-window")
	}
	if a.SizesOnly && (a.GenerateTestcase != "" || a.OutputUserAnonsets != "") {
		return a, apperr.NewConfigError("--sizes-only is mutually exclusive with --generate-testcase and --output-user-anonsets")
	}
	if a.Output == "" && a.GenerateTestcase == "" {
		return a, apperr.NewConfigError("either --output or --generate-testcase must be given")
	}

	return a, nil
}

// GenerateArgs holds the parsed flags for the generate subcommand.
type GenerateArgs struct {
	ConfigPath string
	Output     string
	Seed       int64
}

// ParseGenerateArgs parses the generate subcommand's flags.
func ParseGenerateArgs(args []string) (GenerateArgs, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	var g GenerateArgs
	fs.StringVar(&g.ConfigPath, "config", "", "YAML file with distribution parameters")
	fs.StringVar(&g.Output, "output", "network_trace.csv", "trace CSV output path")
	fs.Int64Var(&g.Seed, "seed", 0, "PRNG seed (0 picks a time-derived seed)")

	if err := fs.Parse(args); err != nil {
		return g, apperr.NewConfigError(err.Error())
	}
	if fs.NArg() != 0 {
		return g, apperr.NewConfigError("generate does not take positional arguments")
	}
	return g, nil
}

// Usage describes the two-subcommand surface.
func Usage() string {
	return `usage:
  ppcalc analyze [flags] <trace.csv>
  ppcalc generate [flags]
`
}
