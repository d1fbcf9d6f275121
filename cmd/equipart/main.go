package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/equipartition/internal/logging"
	"github.com/eugenenazirov/equipartition/internal/partition"
)

const (
	exitFound = iota
	exitNoPartition
	exitError
)

type result struct {
	Values []int64 `json:"values" yaml:"values"`
	Found  bool    `json:"found" yaml:"found"`
	Left   []int64 `json:"left,omitempty" yaml:"left,omitempty,flow"`
	Right  []int64 `json:"right,omitempty" yaml:"right,omitempty,flow"`
	Sum    int64   `json:"sum" yaml:"sum"`
	Steps  int64   `json:"steps" yaml:"steps"`
}

func main() {
	logger, err := logging.New("warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(exitError)
	}
	code := run(os.Args[1:], os.Stdout, logger)
	_ = logger.Sync()
	os.Exit(code)
}

// run parses args, solves and writes the result to out. It returns the process exit code.
func run(args []string, out io.Writer, logger *zap.Logger) int {
	app := kingpin.New("equipart", "Split integers into two lists with equal sums. Use -- before negative values.")
	maxSteps := app.Flag("max-steps", "Maximum search steps (0 for unlimited)").Default("0").Int64()
	timeout := app.Flag("timeout", "Give up after this long (0 for no timeout)").Default("0s").Duration()
	localPruning := app.Flag("local-pruning", "Prune exhausted branches only instead of the whole search").Bool()
	format := app.Flag("format", "Output format").Default("json").Enum("json", "yaml")
	values := app.Arg("values", "Integers to split").Int64List()

	if _, err := app.Parse(args); err != nil {
		logger.Error("invalid arguments", zap.Error(err))
		return exitError
	}

	if err := partition.CheckSum(*values); err != nil {
		logger.Error("invalid values", zap.Error(err))
		return exitError
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	solver := partition.New(partition.WithMaxSteps(*maxSteps), partition.WithLocalPruning(*localPruning))
	start := time.Now()
	p, stats, err := solver.SolveWithStats(ctx, *values)
	logger.Debug("search finished", zap.Int64("steps", stats.Steps), zap.Duration("duration", time.Since(start)))

	res := result{Values: *values, Steps: stats.Steps}
	if res.Values == nil {
		res.Values = []int64{}
	}
	code := exitFound
	switch {
	case err == nil:
		res.Found = true
		res.Left, res.Right = p.Left, p.Right
		res.Sum = p.LeftSum()
	case errors.Is(err, partition.ErrNoPartition):
		code = exitNoPartition
	default:
		logger.Error("search failed", zap.Error(err), zap.Int64("steps", stats.Steps))
		return exitError
	}

	if err := encode(out, *format, res); err != nil {
		logger.Error("write result", zap.Error(err))
		return exitError
	}
	return code
}

func encode(out io.Writer, format string, res result) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(res)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
