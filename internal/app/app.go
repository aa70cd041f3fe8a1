// Package app wires the gamepad combination engine together: event bus,
// script engine, combination store, input accumulator, preview coordinator,
// directory watcher, and the console surface.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/padbind/padbind/internal/combo"
	"github.com/padbind/padbind/internal/config"
	"github.com/padbind/padbind/internal/event"
	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input"
	"github.com/padbind/padbind/internal/log"
	"github.com/padbind/padbind/internal/preview"
	"github.com/padbind/padbind/internal/script"
	"github.com/padbind/padbind/internal/watch"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// CombinationsDir overrides the configured combinations directory.
	CombinationsDir string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Input and Output are the console streams. They default to stdin and
	// stdout.
	Input  io.Reader
	Output io.Writer

	// LogOutput is where logs go. Defaults to stderr.
	LogOutput io.Writer

	// DisableWatcher turns the directory watcher off regardless of config.
	DisableWatcher bool
}

// Application is the central coordinator. It owns every component's
// lifecycle; shutdown always runs on the main goroutine, never inside an
// event handler.
type Application struct {
	cfg    config.Config
	logger *log.Logger

	// Core infrastructure
	bus    *event.Bus
	engine *script.Engine

	// Domain components
	store       *combo.Store
	handler     *combo.Handler
	accumulator *input.Accumulator
	coordinator *preview.Coordinator

	// Boundary surfaces
	console *Console
	watcher *watch.Watcher

	quit     chan struct{}
	quitOnce sync.Once

	shutdownOnce sync.Once
}

// New creates an application with all components wired but nothing running.
func New(opts Options) (*Application, error) {
	app := &Application{quit: make(chan struct{})}
	if err := app.bootstrap(opts); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Config
	cfg, err := config.Load(configPath(opts))
	if err != nil {
		return err
	}
	if opts.CombinationsDir != "" {
		cfg.Combinations.Directory = opts.CombinationsDir
	}
	app.cfg = cfg

	// 2. Logger
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	app.logger = log.New(log.Config{
		Level:  log.ParseLevel(level),
		Output: logOut,
		Prefix: "padbind",
	})

	// 3. Event bus
	app.bus = event.NewBus(
		event.WithQueueSize(cfg.Bus.QueueSize),
		event.WithLogger(app.logger),
	)

	// 4. Console surface
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	app.console = NewConsole(in, out, app.bus, app.logger, app.RequestExit)

	// 5. Script engine with the host facility
	facility := NewHostFacility(app.bus, app.console, app.RequestExit, app.logger)
	app.engine = script.NewEngine(facility, app.logger)

	// 6. Combination store
	launcher := NewExecLauncher(app.logger)
	app.store = combo.NewStore(app.engine, launcher, app.logger)

	// 7. Preview coordinator over the console presenter
	app.coordinator = preview.NewCoordinator(app.console, app.logger,
		preview.WithTimings(cfg.Preview.Delay(), cfg.Preview.Poll(), cfg.Preview.Budget()))

	// 8. Combination handler and input accumulator
	app.handler = combo.NewHandler(app.store, app.engine, app.coordinator, app.bus, app.logger)
	app.accumulator = input.NewAccumulator(app.bus, app.logger)

	// 9. Subscriptions
	if err := app.subscribe(); err != nil {
		return err
	}

	// 10. Initial load
	if err := app.store.Reload(cfg.Combinations.Directory); err != nil {
		return fmt.Errorf("loading combinations: %w", err)
	}
	app.logger.Infof("loaded %d combinations from %s", app.store.Count(), app.store.Dir())

	// 11. Directory watcher
	if cfg.Watcher.Enabled && !opts.DisableWatcher {
		w, err := watch.New(app.store.Dir, app.bus, app.logger,
			watch.WithDebounce(cfg.Watcher.Debounce()))
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		app.watcher = w
	}

	return nil
}

func configPath(opts Options) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	return config.DefaultFileName
}

// subscribe attaches every component to the kinds it handles.
func (app *Application) subscribe() error {
	subs := []struct {
		sub   event.Subscriber
		kinds []topic.Topic
	}{
		{app.accumulator, []topic.Topic{topic.SymbolTyped}},
		{app.handler, app.handler.Topics()},
		{app.coordinator, []topic.Topic{topic.Run, topic.Edit}},
		{app.console, []topic.Topic{topic.ShowMessage}},
	}
	for _, s := range subs {
		if _, err := app.bus.Subscribe(s.sub, s.kinds...); err != nil {
			return fmt.Errorf("subscribing: %w", err)
		}
	}
	return nil
}

// Run starts the console loop and the watcher and blocks until the context
// is cancelled, a script requests exit, or the input stream ends. Shutdown
// runs before Run returns.
func (app *Application) Run(ctx context.Context) error {
	if app.watcher != nil {
		if err := app.watcher.Start(); err != nil {
			app.logger.Errorf("starting watcher: %v", err)
			app.watcher = nil
		}
	}
	app.console.Run()

	select {
	case <-ctx.Done():
		app.logger.Infof("interrupted")
	case <-app.quit:
	}

	app.Shutdown()
	return nil
}

// RequestExit asks the main loop to stop. Safe from any goroutine,
// including event handlers.
func (app *Application) RequestExit() {
	app.quitOnce.Do(func() { close(app.quit) })
}

// Shutdown stops everything in reverse dependency order. Must not be called
// from an event handler; the bus waits for handlers to finish.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		app.bus.ShutdownAll()
		app.engine.Close()
		app.logger.Infof("stopped")
	})
}

// Bus exposes the event bus for the command layer.
func (app *Application) Bus() *event.Bus {
	return app.bus
}
