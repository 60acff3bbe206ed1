package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fastask/fastask/internal/api"
	"github.com/fastask/fastask/internal/config"
	"github.com/fastask/fastask/internal/core"
	"github.com/fastask/fastask/internal/dispatcher"
	"github.com/fastask/fastask/internal/eventbus"
	"github.com/fastask/fastask/internal/history"
	"github.com/fastask/fastask/internal/hotkey"
	"github.com/fastask/fastask/internal/logging"
	"github.com/fastask/fastask/internal/models"
	"github.com/fastask/fastask/internal/screenshot"
	"github.com/fastask/fastask/internal/update"
	"github.com/fastask/fastask/ui/styles"
)

// Application owns the full lifecycle: config, store, core service, hotkeys
// and the Bubble Tea program.
type Application struct {
	config     *config.Config
	log        *zap.SugaredLogger
	bus        *eventbus.Bus
	dispatcher *dispatcher.EventDispatcher
	store      *history.Store
	service    *core.QueryService
	capturer   screenshot.Capturer
	hotkeys    *hotkey.Manager
	model      *LauncherModel
	program    *tea.Program
}

func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	styles.SetTheme(cfg.Theme)

	store, err := history.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	// The launcher stays usable for history browsing without an API key.
	var client core.Completer
	if cfg.IsValid() {
		client = api.New(cfg.APIKey, cfg.APIURL, cfg.Model, logger)
	} else {
		logger.Warnw("no API key configured, queries are disabled")
	}

	bus := eventbus.New()
	bus.SetErrorCallback(func(busErr eventbus.BusError) {
		logger.Warnw("event bus delivery failed", "op", busErr.Operation, "err", busErr.Err)
	})

	disp := dispatcher.New(bus)
	service := core.NewQueryService(cfg, client, store, bus, logger)
	capturer := screenshot.NewCommandCapturer(cfg.ScreenshotCommand, cfg.ScreenshotsDir, logger)
	hotkeys := hotkey.NewManager(hotkey.NopBinder{}, cfg.DebugHotkeys, logger)

	model := &LauncherModel{
		appModel: models.AppModel{
			Mode:        models.ModeHistory,
			Status:      "Ready",
			ClientReady: service.IsReady(),
		},
		dispatcher: disp,
		capturer:   capturer,
	}

	return &Application{
		config:     cfg,
		log:        logger,
		bus:        bus,
		dispatcher: disp,
		store:      store,
		service:    service,
		capturer:   capturer,
		hotkeys:    hotkeys,
		model:      model,
	}, nil
}

// Start runs background services and blocks on the UI loop.
func (app *Application) Start() error {
	app.service.Start()

	app.program = tea.NewProgram(app.model, tea.WithAltScreen())

	app.registerHotkeys()
	app.handleSignals()

	_, err := app.program.Run()
	return err
}

// registerHotkeys binds the global combinations. The summon hotkey resets the
// launcher view; the screenshot hotkey captures and attaches.
func (app *Application) registerHotkeys() {
	app.hotkeys.Register(app.config.AppHotkey, func() {
		app.program.Send(update.ResetMsg{})
	})
	app.hotkeys.Register(app.config.ScreenshotHotkey, func() {
		// Capture off the binder thread; Send marshals into the UI loop.
		go func() {
			app.program.Send(update.CaptureCmd(app.capturer)())
		}()
	})
}

// handleSignals quits cleanly on SIGINT and SIGTERM, releasing the hotkeys
// before the process goes away.
func (app *Application) handleSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		app.log.Infow("shutting down on signal", "signal", sig.String())
		app.hotkeys.Close()
		app.program.Quit()
	}()
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.hotkeys.Close()
	if err := app.store.Close(); err != nil {
		app.log.Warnw("closing history store", "err", err)
	}
	_ = app.log.Sync()
}
