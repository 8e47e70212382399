// Package cli turns an argument vector into one command run.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
)

// defaultCommand runs when no arguments are given.
const defaultCommand = "list"

// ServiceFactory opens the task store described by cfg.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	input    io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// WithInput sets the reader handed to commands that read from stdin.
// When unset those commands fall back to os.Stdin.
func (d *Dispatcher) WithInput(r io.Reader) *Dispatcher {
	d.input = r
	return d
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	backend   string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.backend, "backend", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name, rest := defaultCommand, []string(nil)
	if len(args) > 0 {
		name, rest = args[0], args[1:]
	}

	// Flags require a command in front of them.
	cmd, ok := d.registry.Find(name)
	if strings.HasPrefix(name, "-") || !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	var common commonFlags
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(rest); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", describeFlagError(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := loadConfig(common)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.ConfigError
	}

	cfg.Log = logging.New(common.debug, errOut)
	defer func() { _ = cfg.Log.Sync() }()
	cfg.Log.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.String("backend", cfg.Backend),
		zap.String("config_dir", cfg.Dir))

	var svc service.Service
	if cmd.NeedsBackend() {
		svc, err = d.openService(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		if closer, ok := svc.(io.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					cfg.Log.Warn("failed to close task store", zap.Error(err))
				}
			}()
		}
	}

	if r, ok := cmd.(commands.InputReader); ok {
		r.SetInput(d.input)
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

func (d *Dispatcher) openService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if d.factory == nil {
		return nil, errors.New("no task store configured")
	}
	return d.factory(ctx, cfg)
}

// loadConfig layers the command-line flags over config.Load and validates
// the result.
func loadConfig(common commonFlags) (*config.Config, error) {
	cfg, err := config.Load(common.configDir)
	if err != nil {
		return nil, err
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.backend != "" {
		cfg.Backend = strings.ToLower(common.backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// describeFlagError rewrites flag package errors into the CLI's wording.
func describeFlagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		// "flag needs an argument: -backend"
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		return "flag needs an argument: " + name
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
		return "unknown flag: " + name
	default:
		return msg
	}
}
