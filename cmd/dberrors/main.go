package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shibukawa/dberrors"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// setup loads the configuration and builds the normalizer it describes.
// Metrics, when enabled, are registered on the returned registry.
func (c *Context) setup() (*dberrors.Config, *dberrors.Normalizer, *prometheus.Registry, error) {
	config, err := dberrors.LoadConfig(c.Config)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	registry := prometheus.NewRegistry()

	opts, err := config.Options(registry)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load pattern sets: %w", err)
	}

	stderr := c.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	logger := newLogger(config.Log, c.Verbose, stderr)
	opts = append(opts, dberrors.WithLogger(logger))

	return config, dberrors.New(opts...), registry, nil
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"dberrors.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Classify ClassifyCmd `cmd:"" help:"Classify a native database error described by flags"`
	Check    CheckCmd    `cmd:"" help:"Replay corpus files and verify classification"`
	Patterns PatternsCmd `cmd:"" help:"List loaded pattern sets"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "dberrors v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
