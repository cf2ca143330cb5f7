package cvhttp

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-cvbuilder/adapters/formgen"
	"github.com/goliatone/go-cvbuilder/command"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/notify"
	"github.com/goliatone/go-cvbuilder/persistence"
	"github.com/goliatone/go-cvbuilder/query"
	"github.com/goliatone/go-cvbuilder/session"
)

// DefaultBodyLimit fits a 2MB photo sent as multipart with some headroom.
const DefaultBodyLimit = 4 * 1024 * 1024

// Config configures the HTTP adapter.
type Config struct {
	Session *session.Session
	// Inbox backs GET /api/notifications. Nil lists nothing.
	Inbox *notify.Inbox
	// Defaults fill export parameters the request leaves out.
	Defaults export.Request
	Title    string
	Logger   cv.Logger
}

// Handler exposes the session over HTTP. Commands and queries go through the
// same handlers the dispatcher uses.
type Handler struct {
	session  *session.Session
	inbox    *notify.Inbox
	defaults export.Request
	title    string
	logger   cv.Logger

	exportCV       *command.ExportCVHandler
	importCV       *command.ImportCVHandler
	selectTemplate *command.SelectTemplateHandler
	saveSnapshot   *command.SaveSnapshotHandler
	loadSnapshot   *command.LoadSnapshotHandler
	deleteSnapshot *command.DeleteSnapshotHandler

	preview   *query.PreviewHandler
	stats     *query.StatsHandler
	snapshots *query.ListSnapshotsHandler
	templates *query.ListTemplatesHandler
	history   *query.ExportHistoryHandler
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Session == nil {
		return nil, cv.NewError(cv.KindValidation, "http handler requires a session", nil)
	}
	if cfg.Title == "" {
		cfg.Title = "CV Builder"
	}
	if cfg.Defaults.Format == "" {
		cfg.Defaults.Format = export.FormatPDF
	}
	s := cfg.Session
	return &Handler{
		session:        s,
		inbox:          cfg.Inbox,
		defaults:       cfg.Defaults,
		title:          cfg.Title,
		logger:         cv.LoggerOr(cfg.Logger),
		exportCV:       command.NewExportCVHandler(s),
		importCV:       command.NewImportCVHandler(s),
		selectTemplate: command.NewSelectTemplateHandler(s),
		saveSnapshot:   command.NewSaveSnapshotHandler(s),
		loadSnapshot:   command.NewLoadSnapshotHandler(s),
		deleteSnapshot: command.NewDeleteSnapshotHandler(s),
		preview:        query.NewPreviewHandler(s),
		stats:          query.NewStatsHandler(s),
		snapshots:      query.NewListSnapshotsHandler(s),
		templates:      query.NewListTemplatesHandler(s),
		history:        query.NewExportHistoryHandler(s),
	}, nil
}

// NewServer returns a go-router server over fiber with the handler routes
// registered after middleware.
func NewServer(h *Handler, middleware ...fiber.Handler) router.Server[*fiber.App] {
	srv := router.NewFiberAdapter(appInitializer(middleware...))
	h.RegisterRoutes(srv.Router())
	return srv
}

func appInitializer(middleware ...fiber.Handler) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:               "cvbuilder",
			BodyLimit:             DefaultBodyLimit,
			DisableStartupMessage: true,
			ErrorHandler:          ErrorHandler,
		})
		for _, mw := range middleware {
			app.Use(mw)
		}
		return app
	}
}

// RegisterRoutes registers the UI and API routes on r.
func (h *Handler) RegisterRoutes(r router.Router[*fiber.App]) {
	r.Get("/", h.page)

	api := r.Group("/api")

	api.Get("/cv", h.getRecord)
	api.Put("/cv", h.replaceRecord)
	api.Patch("/cv/personal", h.updatePersonal)
	api.Put("/cv/photo", h.setPhoto)
	api.Delete("/cv/photo", h.removePhoto)

	api.Post("/cv/experiences", h.addExperience)
	api.Put("/cv/experiences/:id", h.updateExperience)
	api.Delete("/cv/experiences/:id", h.removeExperience)
	api.Post("/cv/educations", h.addEducation)
	api.Put("/cv/educations/:id", h.updateEducation)
	api.Delete("/cv/educations/:id", h.removeEducation)
	api.Post("/cv/languages", h.addLanguage)
	api.Put("/cv/languages/:id", h.updateLanguage)
	api.Delete("/cv/languages/:id", h.removeLanguage)
	api.Put("/cv/skills", h.setSkills)
	api.Put("/cv/interests", h.setInterests)

	api.Get("/ui", h.ui)
	api.Get("/templates", h.listTemplates)
	api.Post("/templates/:id", h.selectTemplateRoute)
	api.Get("/preview", h.previewRoute)
	api.Get("/stats", h.statsRoute)

	api.Get("/export/:format", h.exportRoute)
	api.Get("/exports", h.historyRoute)
	api.Post("/import", h.importRoute)

	api.Get("/snapshots", h.listSnapshots)
	api.Post("/snapshots", h.createSnapshot)
	api.Get("/snapshots/:id", h.getSnapshot)
	api.Delete("/snapshots/:id", h.removeSnapshot)
	api.Post("/snapshots/:id/load", h.restoreSnapshot)

	api.Post("/sample", h.sample)
	api.Post("/reset", h.reset)
	api.Get("/notifications", h.notifications)
	api.Post("/notifications/read", h.readNotifications)
}

// run validates msg and hands it to a command handler.
func run[T interface{ Validate() error }](ctx context.Context, execute func(context.Context, T) error, msg T) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return execute(ctx, msg)
}

func (h *Handler) page(c router.Context) error {
	snap := h.session.Preview().Snapshot()
	if snap.Empty() {
		if _, err := h.session.Render(c.Context()); err != nil {
			return writeError(c, err)
		}
		snap = h.session.Preview().Snapshot()
	}
	c.SetHeader(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(snap.Document(h.title))
}

func (h *Handler) getRecord(c router.Context) error {
	return c.JSON(fiber.StatusOK, h.session.Record())
}

func (h *Handler) replaceRecord(c router.Context) error {
	var record cv.Record
	if err := decodeBody(c, &record); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, h.session.Replace(c.Context(), record))
}

func (h *Handler) updatePersonal(c router.Context) error {
	var patch session.PersonalPatch
	if err := decodeBody(c, &patch); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, h.session.UpdatePersonal(c.Context(), patch))
}

func (h *Handler) setPhoto(c router.Context) error {
	data, contentType, err := uploadBody(c, "photo")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.session.SetPhoto(c.Context(), data, contentType); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, h.session.Record().Personal)
}

func (h *Handler) removePhoto(c router.Context) error {
	h.session.RemovePhoto(c.Context())
	return c.NoContent(fiber.StatusNoContent)
}

func (h *Handler) listTemplates(c router.Context) error {
	infos, err := h.templates.Query(c.Context(), query.ListTemplates{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, fiber.Map{"templates": infos, "selected": h.session.Record().Template})
}

func (h *Handler) ui(c router.Context) error {
	infos, err := h.templates.Query(c.Context(), query.ListTemplates{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, formgen.EditorUI("/api", infos))
}

func (h *Handler) selectTemplateRoute(c router.Context) error {
	var selected cv.TemplateID
	msg := command.SelectTemplate{Template: cv.TemplateID(c.Param("id")), Result: &selected}
	if err := run(c.Context(), h.selectTemplate.Execute, msg); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, fiber.Map{"selected": selected})
}

func (h *Handler) previewRoute(c router.Context) error {
	markup, err := h.preview.Query(c.Context(), query.Preview{})
	if err != nil {
		return writeError(c, err)
	}
	failures := make([]fiber.Map, 0, len(markup.Failures))
	for _, failure := range markup.Failures {
		entry := fiber.Map{"section": failure.Section}
		if failure.Err != nil {
			entry["error"] = failure.Err.Error()
		}
		failures = append(failures, entry)
	}
	return c.JSON(fiber.StatusOK, fiber.Map{
		"template":   markup.Template,
		"html":       markup.HTML,
		"stylesheet": markup.Stylesheet.Ref,
		"css":        markup.Stylesheet.CSS,
		"failures":   failures,
	})
}

func (h *Handler) statsRoute(c router.Context) error {
	stats, err := h.stats.Query(c.Context(), query.Stats{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, stats)
}

func (h *Handler) exportRoute(c router.Context) error {
	req := exportRequest(c, h.defaults)
	var result export.Result
	msg := command.ExportCV{Format: req.Format, Strategy: req.Strategy, Quality: req.Quality, Result: &result}
	if err := run(c.Context(), h.exportCV.Execute, msg); err != nil {
		h.logger.Warnf("http: export %s failed: %v", req.Format, err)
		return writeError(c, err)
	}

	c.SetHeader(fiber.HeaderContentType, result.ContentType)
	c.SetHeader(fiber.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	c.SetHeader("X-Export-ID", result.ID)
	if result.Strategy != "" {
		c.SetHeader("X-Export-Strategy", string(result.Strategy))
	}
	if result.FellBack {
		c.SetHeader("X-Export-Fallback", "true")
	}
	return c.Send(result.Data)
}

func (h *Handler) historyRoute(c router.Context) error {
	filter, err := historyFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	msg := query.ExportHistory{Filter: filter}
	if err := msg.Validate(); err != nil {
		return writeError(c, err)
	}
	records, err := h.history.Query(c.Context(), msg)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, fiber.Map{"exports": records})
}

func (h *Handler) importRoute(c router.Context) error {
	data, _, err := uploadBody(c, "file")
	if err != nil {
		return writeError(c, err)
	}
	var record cv.Record
	if err := run(c.Context(), h.importCV.Execute, command.ImportCV{Data: data, Result: &record}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, record)
}

func (h *Handler) listSnapshots(c router.Context) error {
	infos, err := h.snapshots.Query(c.Context(), query.ListSnapshots{})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, fiber.Map{"snapshots": infos})
}

func (h *Handler) createSnapshot(c router.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if len(c.Body()) > 0 {
		if err := decodeBody(c, &body); err != nil {
			return writeError(c, err)
		}
	}
	var snap persistence.Snapshot
	if err := run(c.Context(), h.saveSnapshot.Execute, command.SaveSnapshot{Name: body.Name, Result: &snap}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusCreated, snap)
}

func (h *Handler) getSnapshot(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	snap, err := h.session.Snapshot(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, snap)
}

func (h *Handler) removeSnapshot(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := run(c.Context(), h.deleteSnapshot.Execute, command.DeleteSnapshot{ID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(fiber.StatusNoContent)
}

func (h *Handler) restoreSnapshot(c router.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var record cv.Record
	if err := run(c.Context(), h.loadSnapshot.Execute, command.LoadSnapshot{ID: id, Result: &record}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.StatusOK, record)
}

func (h *Handler) sample(c router.Context) error {
	return c.JSON(fiber.StatusOK, h.session.LoadSample(c.Context()))
}

func (h *Handler) reset(c router.Context) error {
	return c.JSON(fiber.StatusOK, h.session.Reset(c.Context()))
}

func (h *Handler) notifications(c router.Context) error {
	var after uint64
	if raw := c.Query("after"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return writeError(c, cv.NewError(cv.KindValidation, "invalid after cursor", err))
		}
		after = parsed
	}
	items := []notify.Notification{}
	unread := 0
	if h.inbox != nil {
		ctx := c.Context()
		since, err := h.inbox.Since(ctx, after)
		if err != nil {
			return writeError(c, err)
		}
		items = append(items, since...)
		if unread, err = h.inbox.Unread(ctx); err != nil {
			return writeError(c, err)
		}
	}
	return c.JSON(fiber.StatusOK, fiber.Map{"notifications": items, "unread": unread})
}

func (h *Handler) readNotifications(c router.Context) error {
	if h.inbox != nil {
		if err := h.inbox.MarkAllRead(c.Context()); err != nil {
			return writeError(c, err)
		}
	}
	return c.NoContent(fiber.StatusNoContent)
}
