// Package app assembles the CV builder: storage, template registry, export
// pipeline, editing session, command handlers and the HTTP UI.
package app

import (
	"context"
	"os"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"

	cvhttp "github.com/goliatone/go-cvbuilder/adapters/http"
	exportpdf "github.com/goliatone/go-cvbuilder/adapters/pdf"
	exportsqlite "github.com/goliatone/go-cvbuilder/adapters/sqlite"
	storebun "github.com/goliatone/go-cvbuilder/adapters/store/bun"
	storefs "github.com/goliatone/go-cvbuilder/adapters/store/fs"
	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	trackerbun "github.com/goliatone/go-cvbuilder/adapters/tracker/bun"
	"github.com/goliatone/go-cvbuilder/config"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/notify"
	"github.com/goliatone/go-cvbuilder/persistence"
	"github.com/goliatone/go-cvbuilder/session"
)

// App holds the application dependencies.
type App struct {
	Config    config.Config
	Logger    cv.Logger
	DB        *bun.DB
	Gateway   *persistence.Gateway
	Templates *cvtemplate.Registry
	Exports   *export.Service
	History   *trackerbun.Tracker
	Inbox     *notify.Inbox
	Session   *session.Session
	HTTP      *cvhttp.Handler
	Handlers  Handlers

	capturer      *exportpdf.ChromiumCapturer
	scheduler     *cron.Cron
	subscriptions []dispatcher.Subscription
}

// New creates and initializes the application. Nothing is loaded or scheduled
// until Start.
func New(ctx context.Context, cfg config.Config, logger cv.Logger) (*App, error) {
	logger = cv.LoggerOr(logger)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, cv.NewError(cv.KindIO, "create data directory", err)
	}

	a := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close(context.Background())
		}
	}()

	inbox, err := notify.NewInbox(notify.DefaultCapacity, logger)
	if err != nil {
		return nil, err
	}
	a.Inbox = inbox

	db, err := storebun.Open(cfg.Storage.DatabasePath())
	if err != nil {
		return nil, err
	}
	a.DB = db

	documents := storebun.NewStore(db)
	if err := documents.Migrate(ctx); err != nil {
		return nil, err
	}
	a.History = trackerbun.NewTracker(db)
	if err := a.History.Migrate(ctx); err != nil {
		return nil, err
	}

	a.Gateway = persistence.NewGateway(persistence.Config{
		Store:     storefs.NewKV(cfg.Storage.KVDir()),
		Documents: documents,
		Logger:    logger,
	})

	a.Templates, err = cvtemplate.DefaultRegistry(cvtemplate.Config{
		Seed:        cfg.Session.DecorativeSeed,
		Preferences: a.Gateway,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	a.Exports, err = a.exportService()
	if err != nil {
		return nil, err
	}

	a.Session, err = session.New(session.Config{
		Templates:        a.Templates,
		Exporter:         a.Exports,
		Store:            a.Gateway,
		Notifier:         notify.Fanout{a.Inbox, notify.Log{Logger: logger}},
		Logger:           logger,
		AutosaveDebounce: cfg.Session.AutosaveDebounce,
		SnapshotInterval: cfg.Session.SnapshotInterval,
	})
	if err != nil {
		return nil, err
	}

	a.HTTP, err = cvhttp.NewHandler(cvhttp.Config{
		Session: a.Session,
		Inbox:   a.Inbox,
		Defaults: export.Request{
			Format:   export.FormatPDF,
			Strategy: cfg.Export.DefaultStrategy,
			Quality:  cfg.Export.Quality,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	a.Handlers, a.subscriptions, err = RegisterHandlers(nil, HandlerDeps{
		Session:       a.Session,
		Decoder:       a.Gateway,
		Exporter:      a.Exports,
		History:       a.History,
		HistoryMaxAge: cfg.Export.HistoryMaxAge,
		BatchDir:      cfg.Storage.BatchDir(),
	})
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

func (a *App) exportService() (*export.Service, error) {
	cfg := a.Config
	a.capturer = &exportpdf.ChromiumCapturer{
		BrowserPath:   cfg.Export.ChromePath,
		Headless:      true,
		Timeout:       cfg.Export.RasterTimeout,
		BlockExternal: true,
	}

	strategies := export.NewStrategyRegistry()
	if err := strategies.Register(exportpdf.NewRasterStrategy(a.capturer, a.Logger)); err != nil {
		return nil, err
	}
	if err := strategies.Register(exportpdf.NewVectorStrategy(a.Templates, a.Logger)); err != nil {
		return nil, err
	}

	renderers := export.NewRendererRegistry()
	for format, renderer := range map[export.Format]export.Renderer{
		export.FormatHTML:   export.HTMLRenderer{Templates: a.Templates},
		export.FormatJSON:   export.JSONRenderer{Encoder: a.Gateway},
		export.FormatXLSX:   export.XLSXRenderer{},
		export.FormatSQLite: exportsqlite.Renderer{},
	} {
		if err := renderers.Register(format, renderer); err != nil {
			return nil, err
		}
	}

	return export.NewService(export.ServiceConfig{
		Strategies:      strategies,
		Renderers:       renderers,
		DefaultStrategy: cfg.Export.DefaultStrategy,
		DefaultQuality:  cfg.Export.Quality,
		RasterTimeout:   cfg.Export.RasterTimeout,
		Tracker:         a.History,
		Store:           storefs.NewStore(cfg.Storage.ArtifactDir()),
		Logger:          a.Logger,
	}), nil
}

// Start restores the saved record and schedules the history prune.
func (a *App) Start(ctx context.Context) error {
	if err := a.Session.Open(ctx); err != nil {
		a.Logger.Warnf("app: initial render failed: %v", err)
	}

	prune := a.Handlers.PruneHistory
	if prune == nil {
		return nil
	}
	a.scheduler = cron.New()
	if _, err := a.scheduler.AddFunc(prune.CronOptions().Expression, func() {
		if err := prune.CronHandler()(); err != nil {
			a.Logger.Errorf("app: export history prune failed: %v", err)
		}
	}); err != nil {
		return cv.NewError(cv.KindValidation, "invalid prune schedule", err)
	}
	a.scheduler.Start()
	return nil
}

// Close flushes the session and releases the browser and the database.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
		a.scheduler = nil
	}
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	a.subscriptions = nil
	if a.Session != nil {
		_ = a.Session.Close(ctx)
	}
	if a.capturer != nil {
		_ = a.capturer.Close()
	}
	if a.DB != nil {
		db := a.DB
		a.DB = nil
		return db.Close()
	}
	return nil
}
