// Package preview models the live preview element: the rendered markup currently on
// screen plus its inline style. The renderer is the only writer of the content; the
// rasterizer borrows the element and overrides its style for the duration of a
// capture.
package preview

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
)

// ElementID is the DOM id of the preview container.
const ElementID = "cv-preview"

// Styles is an inline style declaration keyed by CSS property.
type Styles map[string]string

// String renders the declaration with properties in a stable order.
func (s Styles) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s[k])
	}
	return strings.Join(parts, "; ")
}

func (s Styles) clone() Styles {
	out := make(Styles, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Snapshot is a consistent copy of the element state.
type Snapshot struct {
	Template   cv.TemplateID
	Markup     string
	Stylesheet cvtemplate.Stylesheet
	Styles     Styles
	Version    uint64
}

// Empty reports whether nothing has been rendered yet.
func (s Snapshot) Empty() bool {
	return strings.TrimSpace(s.Markup) == ""
}

// Document returns a standalone HTML page showing the element.
func (s Snapshot) Document(title string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	b.WriteString("<link rel=\"stylesheet\" href=\"https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css\">")
	fmt.Fprintf(&b, "<style data-ref=\"%s\">%s</style>", html.EscapeString(s.Stylesheet.Ref), s.Stylesheet.CSS)
	b.WriteString("<style>body{margin:0;background:#fff;}</style></head><body>")
	fmt.Fprintf(&b, "<div id=\"%s\" class=\"cv-preview\" style=\"%s\">", ElementID, html.EscapeString(s.Styles.String()))
	b.WriteString(s.Markup)
	b.WriteString("</div></body></html>")
	return b.String()
}

// Element is the shared preview container.
type Element struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// DefaultStyles is the on-screen look of the preview card.
func DefaultStyles() Styles {
	return Styles{
		"box-shadow": "0 10px 40px rgba(0, 0, 0, 0.1)",
		"margin":     "0 auto",
		"transform":  "scale(1)",
		"width":      "210mm",
	}
}

// NewElement returns an empty element with the default card styles.
func NewElement() *Element {
	return &Element{snapshot: Snapshot{Styles: DefaultStyles()}}
}

// Show replaces the element content with markup. The last call wins.
func (e *Element) Show(markup cvtemplate.Markup) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot.Template = markup.Template
	e.snapshot.Markup = markup.HTML
	e.snapshot.Stylesheet = markup.Stylesheet
	e.snapshot.Version++
}

// Snapshot returns a copy of the current state.
func (e *Element) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := e.snapshot
	out.Styles = e.snapshot.Styles.clone()
	return out
}

// Override merges styles into the element's inline style and returns the function
// that puts the previous declaration back. Restore is idempotent.
func (e *Element) Override(styles Styles) (restore func()) {
	e.mu.Lock()
	previous := e.snapshot.Styles.clone()
	for k, v := range styles {
		e.snapshot.Styles[k] = v
	}
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			e.snapshot.Styles = previous
			e.mu.Unlock()
		})
	}
}

// WithStyles runs fn against a snapshot taken under a temporary style override. The
// previous style is restored when fn returns, errors or panics.
func WithStyles(e *Element, styles Styles, fn func(Snapshot) error) error {
	if e == nil {
		return cv.NewError(cv.KindNotFound, "preview element not found", nil)
	}
	restore := e.Override(styles)
	defer restore()
	return fn(e.Snapshot())
}

// CaptureStyles flattens the preview card into a plain A4 sheet for capture.
func CaptureStyles() Styles {
	return Styles{
		"transform":  "none",
		"box-shadow": "none",
		"margin":     "0",
		"position":   "relative",
		"background": "#ffffff",
		"width":      "210mm",
		"min-height": "297mm",
		"max-width":  "210mm",
		"overflow":   "hidden",
	}
}
