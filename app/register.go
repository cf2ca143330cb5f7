package app

import (
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cvbuilder/command"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/query"
	"github.com/goliatone/go-cvbuilder/session"
)

// HandlerDeps are the services the command and query handlers run against.
type HandlerDeps struct {
	Session       *session.Session
	Decoder       command.RecordDecoder
	Exporter      command.BatchExporter
	History       command.HistoryPruner
	HistoryMaxAge time.Duration
	// BatchDir is scanned for *.json CV files by the batch export command.
	BatchDir string
}

// Handlers exposes the handlers that also run outside the dispatcher.
type Handlers struct {
	PruneHistory *command.PruneHistoryHandler
	BatchExport  *command.BatchCommand
}

// RegisterHandlers subscribes the CV commands and queries to the dispatcher and, when
// reg is set, registers them for CLI and cron discovery.
func RegisterHandlers(reg *gcmd.Registry, deps HandlerDeps) (Handlers, []dispatcher.Subscription, error) {
	if deps.Session == nil {
		return Handlers{}, nil, errors.New("session is required", errors.CategoryValidation).
			WithTextCode("SESSION_REQUIRED")
	}
	s := deps.Session

	exportCV := command.NewExportCVHandler(s)
	importCV := command.NewImportCVHandler(s)
	selectTemplate := command.NewSelectTemplateHandler(s)
	saveSnapshot := command.NewSaveSnapshotHandler(s)
	loadSnapshot := command.NewLoadSnapshotHandler(s)
	deleteSnapshot := command.NewDeleteSnapshotHandler(s)

	preview := query.NewPreviewHandler(s)
	stats := query.NewStatsHandler(s)
	snapshots := query.NewListSnapshotsHandler(s)
	templates := query.NewListTemplatesHandler(s)
	history := query.NewExportHistoryHandler(s)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(exportCV),
		dispatcher.SubscribeCommand(importCV),
		dispatcher.SubscribeCommand(selectTemplate),
		dispatcher.SubscribeCommand(saveSnapshot),
		dispatcher.SubscribeCommand(loadSnapshot),
		dispatcher.SubscribeCommand(deleteSnapshot),
		dispatcher.SubscribeQuery(preview),
		dispatcher.SubscribeQuery(stats),
		dispatcher.SubscribeQuery(snapshots),
		dispatcher.SubscribeQuery(templates),
		dispatcher.SubscribeQuery(history),
	}

	handlers := Handlers{}
	if deps.History != nil {
		handlers.PruneHistory = command.NewPruneHistoryHandler(deps.History, deps.HistoryMaxAge)
		subscriptions = append(subscriptions, dispatcher.SubscribeCommand(handlers.PruneHistory))
	}
	if deps.Decoder != nil && deps.Exporter != nil && deps.BatchDir != "" {
		handlers.BatchExport = command.NewBatchExportCommand(
			deps.Decoder,
			deps.Exporter,
			command.DirectoryLoader(deps.BatchDir, export.FormatPDF),
		)
	}

	if reg != nil {
		registered := []any{
			exportCV,
			importCV,
			selectTemplate,
			saveSnapshot,
			loadSnapshot,
			deleteSnapshot,
			preview,
			stats,
			snapshots,
			templates,
			history,
		}
		if handlers.PruneHistory != nil {
			registered = append(registered, handlers.PruneHistory)
		}
		if handlers.BatchExport != nil {
			registered = append(registered, handlers.BatchExport)
		}
		for _, handler := range registered {
			if err := reg.RegisterCommand(handler); err != nil {
				return handlers, subscriptions, err
			}
		}
	}

	return handlers, subscriptions, nil
}
