package cvtemplate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
	"github.com/goliatone/go-cvbuilder/layout"
)

// Template is a registered visual template.
type Template struct {
	ID            cv.TemplateID
	Name          string
	StylesheetRef string
	Stylesheet    string
	Layout        layout.Layout
	Renderer      Renderer
}

// Info describes a template for pickers.
type Info struct {
	ID            cv.TemplateID `json:"id"`
	Name          string        `json:"name"`
	StylesheetRef string        `json:"stylesheet"`
}

// Stylesheet is the stylesheet bound to a template.
type Stylesheet struct {
	Ref string
	CSS string
}

// Markup is a rendered preview.
type Markup struct {
	Template   cv.TemplateID
	HTML       string
	Stylesheet Stylesheet
	Failures   []document.Failure
}

// PreferenceSaver persists the selected template id.
type PreferenceSaver interface {
	SaveTemplate(ctx context.Context, id cv.TemplateID) error
}

// Config configures a Registry.
type Config struct {
	Default cv.TemplateID
	// Seed feeds the decorative skill percentages.
	Seed        int64
	Preferences PreferenceSaver
	Logger      cv.Logger
	// MaxParallel bounds RenderAll, zero uses the number of templates.
	MaxParallel int
}

// Registry stores templates by id. It keeps no notion of an active template: the
// selected id travels on the record.
type Registry struct {
	mu        sync.RWMutex
	templates map[cv.TemplateID]Template
	order     []cv.TemplateID
	cfg       Config
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.Default == "" {
		cfg.Default = cv.DefaultTemplate
	}
	cfg.Logger = cv.LoggerOr(cfg.Logger)
	return &Registry{
		templates: make(map[cv.TemplateID]Template),
		cfg:       cfg,
	}
}

// Register adds a template under id.
func (r *Registry) Register(id cv.TemplateID, tmpl Template) error {
	if id == "" {
		return cv.NewError(cv.KindValidation, "template id is required", nil)
	}
	if tmpl.Layout == nil {
		return cv.NewError(cv.KindValidation, "template layout is required", nil)
	}
	if tmpl.Renderer == nil {
		return cv.NewError(cv.KindValidation, "template renderer is required", nil)
	}
	tmpl.ID = id
	if tmpl.Name == "" {
		tmpl.Name = tmpl.Layout.Name()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[id]; exists {
		return cv.NewError(cv.KindValidation, fmt.Sprintf("template %q already registered", id), nil)
	}
	r.templates[id] = tmpl
	r.order = append(r.order, id)
	return nil
}

// Normalize maps id to a registered template id, falling back to the default.
func (r *Registry) Normalize(id cv.TemplateID) cv.TemplateID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.templates[id]; ok {
		return id
	}
	candidate := cv.TemplateID(strings.ToLower(strings.TrimSpace(string(id))))
	if _, ok := r.templates[candidate]; ok {
		return candidate
	}
	return r.cfg.Default
}

// Resolve returns the template for id after normalization.
func (r *Registry) Resolve(id cv.TemplateID) (Template, error) {
	id = r.Normalize(id)
	r.mu.RLock()
	tmpl, ok := r.templates[id]
	r.mu.RUnlock()
	if !ok {
		return Template{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("template %q not registered", id), nil)
	}
	return tmpl, nil
}

// Select normalizes id and persists the choice. Persistence errors are logged, the
// selection itself never fails.
func (r *Registry) Select(ctx context.Context, id cv.TemplateID) cv.TemplateID {
	active := r.Normalize(id)
	if active != id {
		r.cfg.Logger.Infof("cv template %q unknown, using %q", id, active)
	}
	if r.cfg.Preferences != nil {
		if err := r.cfg.Preferences.SaveTemplate(ctx, active); err != nil {
			r.cfg.Logger.Warnf("cv template preference not saved: %v", err)
		}
	}
	return active
}

// Stylesheet returns the stylesheet bound to id.
func (r *Registry) Stylesheet(id cv.TemplateID) Stylesheet {
	tmpl, err := r.Resolve(id)
	if err != nil {
		return Stylesheet{}
	}
	return Stylesheet{Ref: tmpl.StylesheetRef, CSS: tmpl.Stylesheet}
}

// Templates lists registered templates in registration order.
func (r *Registry) Templates() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		tmpl := r.templates[id]
		out = append(out, Info{ID: id, Name: tmpl.Name, StylesheetRef: tmpl.StylesheetRef})
	}
	return out
}

// Arrange builds the document for record and places it with the record's template.
func (r *Registry) Arrange(record cv.Record) (layout.Arrangement, error) {
	tmpl, err := r.Resolve(record.Template)
	if err != nil {
		return layout.Arrangement{}, err
	}
	doc := document.Build(record, document.Options{Seed: r.cfg.Seed, Logger: r.cfg.Logger})
	return tmpl.Layout.Arrange(doc), nil
}

// Render renders record with its template.
func (r *Registry) Render(ctx context.Context, record cv.Record) (Markup, error) {
	tmpl, err := r.Resolve(record.Template)
	if err != nil {
		return Markup{}, err
	}
	doc := document.Build(record, document.Options{Seed: r.cfg.Seed, Logger: r.cfg.Logger})
	result, err := tmpl.Renderer.Render(ctx, tmpl.Layout.Arrange(doc))
	if err != nil {
		return Markup{}, err
	}
	return Markup{
		Template:   tmpl.ID,
		HTML:       result.HTML,
		Stylesheet: Stylesheet{Ref: tmpl.StylesheetRef, CSS: tmpl.Stylesheet},
		Failures:   result.Failures,
	}, nil
}

// RenderAll renders record once per registered template, concurrently.
func (r *Registry) RenderAll(ctx context.Context, record cv.Record) ([]Markup, error) {
	infos := r.Templates()
	results := make([]Markup, len(infos))
	errs := make([]error, len(infos))

	workers := r.cfg.MaxParallel
	if workers <= 0 {
		workers = len(infos)
	}
	if workers <= 0 {
		return nil, nil
	}
	p := pool.New().WithMaxGoroutines(workers)
	for idx, info := range infos {
		idx, info := idx, info
		p.Go(func() {
			variant := cv.Clone(record)
			variant.Template = info.ID
			results[idx], errs[idx] = r.Render(ctx, variant)
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
