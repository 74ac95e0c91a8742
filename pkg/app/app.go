package app

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"

	"easel/internal/api"
	"easel/internal/config"
	"easel/internal/env"
	"easel/internal/service"
	"easel/pkg/logging"
)

// ConfigDirEnv optionally carries the directory holding easel's own
// config.yaml.
const ConfigDirEnv = "EASEL_CONFIG_DIR"

// DebugEnv forces debug-level logging when set to "1".
const DebugEnv = "EASEL_DEBUG"

// Config holds the application bootstrap configuration.
type Config struct {
	// Debug forces debug-level logging regardless of config.yaml.
	Debug bool

	// Headless requests headless mode explicitly, equivalent to setting
	// EASEL_HEADLESS=1 before startup.
	Headless bool

	// ScriptPath is the app script path. Empty means: take it from the
	// environment, or fall back to the caller's source file.
	ScriptPath string

	// ConfigDir is the directory holding easel's config.yaml. Empty
	// means EASEL_CONFIG_DIR, then the current directory.
	ConfigDir string

	// Summary prints a component-state summary table after a headless
	// run.
	Summary bool
}

// AppFunc is the application definition: it renders components and
// reads state through the service handle it is given.
type AppFunc func(svc service.Service) error

// Run bootstraps logging and the service singleton, executes the app
// definition and drives the lifecycle that matches the detected
// execution context. Headless and virtual runs are linear; server runs
// block until interrupted.
func Run(cfg Config, fn AppFunc) error {
	svc, level, err := bootstrap(cfg)
	if err != nil {
		return err
	}

	switch svc.ExecutionContext() {
	case api.ContextServer:
		return runServerMode(context.Background(), cfg, svc, level, fn)
	default:
		return runLinearMode(cfg, svc, fn)
	}
}

// RunServer is Run for apps launched through the server bootstrap. It
// records the caller as the server entry point so the legacy call-stack
// detection never mistakes the process for a direct script run.
func RunServer(cfg Config, fn AppFunc) error {
	env.MarkServerEntry()
	return Run(cfg, fn)
}

// bootstrap loads the runtime configuration, initializes logging and
// creates (or returns) the service singleton.
func bootstrap(cfg Config) (service.Service, logging.LogLevel, error) {
	configDir := cfg.ConfigDir
	if configDir == "" {
		configDir = os.Getenv(ConfigDirEnv)
	}
	if configDir == "" {
		configDir = "."
	}

	runtimeCfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, logging.LevelInfo, err
	}

	level := config.ParseLogLevel(runtimeCfg.LogLevel)
	if cfg.Debug || os.Getenv(DebugEnv) == "1" {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	if cfg.Headless {
		os.Setenv(env.HeadlessEnv, "1")
	}

	svc, err := service.Initialize(cfg.ScriptPath)
	return svc, level, err
}

// runLinearMode executes the app definition top to bottom, optionally
// prints the state summary, and shuts the service down.
func runLinearMode(cfg Config, svc service.Service, fn AppFunc) error {
	logging.Info("Bootstrap", "Running app in %s mode", svc.ExecutionContext())

	runErr := fn(svc)
	if runErr != nil {
		logging.Error("Bootstrap", runErr, "App definition returned an error")
	}

	if cfg.Summary {
		printStateSummary(svc)
	}

	if err := svc.Shutdown(context.Background()); err != nil {
		return err
	}
	return runErr
}

// runServerMode executes the app definition once for the initial render,
// then blocks until SIGINT or SIGTERM before shutting down. The
// transport layer serving clients runs outside this loop. Logging
// switches to stream mode so connected clients receive server-side
// diagnostics as log messages.
func runServerMode(ctx context.Context, cfg Config, svc service.Service, level logging.LogLevel, fn AppFunc) error {
	logging.Info("Bootstrap", "Running app in server mode")

	if srv, ok := svc.(*service.ServerService); ok {
		entries := logging.InitForStream(level)
		defer logging.CloseStreamChannel()
		srv.ForwardLogs(entries, level)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return fn(svc)
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			logging.Info("Bootstrap", "Interrupt received, shutting down")
			return svc.Shutdown(gctx)
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		svc.Shutdown(context.Background())
		return err
	}
	return svc.Shutdown(context.Background())
}

// printStateSummary renders the final component states as a table on
// stdout.
func printStateSummary(svc service.Service) {
	snapshot := svc.StateSnapshot()

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("Component state")
	tw.AppendHeader(table.Row{"Component", "Value"})
	for _, id := range ids {
		tw.AppendRow(table.Row{id, snapshot[id]})
	}
	tw.Render()
}
