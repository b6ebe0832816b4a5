package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/smarterz/internal/repositories"
	"github.com/desertthunder/smarterz/internal/services"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/desertthunder/smarterz/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	upstream   services.Upstream
	store      repositories.ProgressStore
	aggregator *tasks.Aggregator
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store is optional; when nil each command opens the store named by the config and closes it on return.
type RunnerOpts struct {
	Config   *shared.Config
	Upstream services.Upstream
	Store    repositories.ProgressStore
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		upstream:   opts.Upstream,
		store:      opts.Store,
		aggregator: tasks.NewAggregator(opts.Upstream, opts.Logger),
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the logger used by the runner and its aggregator.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.aggregator = tasks.NewAggregator(r.upstream, logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, batchesCommand, batchCommand, progressCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore returns the injected store, or opens the configured one.
//
// The returned close func is always non-nil.
func (r *Runner) openStore() (repositories.ProgressStore, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	store, err := repositories.NewProgressStore(r.config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open progress store: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close progress store", "error", err)
		}
	}, nil
}

func (r *Runner) requireUpstream() error {
	if r.upstream == nil {
		return fmt.Errorf("%w: content API not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
