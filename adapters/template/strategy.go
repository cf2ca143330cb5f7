package cvtemplate

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-cvbuilder/cv"
)

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// PongoExecutor executes pongo2 templates compiled from a file system.
type PongoExecutor struct {
	templates map[string]*pongo2.Template
}

var _ TemplateExecutor = (*PongoExecutor)(nil)

// NewPongoExecutor compiles every .html file found in fsys. Templates are addressed by
// their slash separated path, for example "layouts/modern.html".
func NewPongoExecutor(fsys fs.FS) (*PongoExecutor, error) {
	exec := &PongoExecutor{templates: make(map[string]*pongo2.Template)}
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".html" {
			return nil
		}
		source, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		tpl, err := pongo2.FromString(string(source))
		if err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
		exec.templates[name] = tpl
		return nil
	})
	if err != nil {
		return nil, cv.NewError(cv.KindInternal, "load templates", err)
	}
	return exec, nil
}

// Has reports whether a template named name was compiled.
func (e *PongoExecutor) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.templates[name]
	return ok
}

// ExecuteTemplate renders a named template. data must be a pongo2.Context or a map.
func (e *PongoExecutor) ExecuteTemplate(w io.Writer, name string, data any) error {
	if e == nil {
		return cv.NewError(cv.KindInternal, "template executor is nil", nil)
	}
	tpl, ok := e.templates[name]
	if !ok {
		return cv.NewError(cv.KindNotFound, fmt.Sprintf("template %q not found", name), nil)
	}

	var ctx pongo2.Context
	switch v := data.(type) {
	case pongo2.Context:
		ctx = v
	case map[string]any:
		ctx = pongo2.Context(v)
	case nil:
		ctx = pongo2.Context{}
	default:
		return cv.NewError(cv.KindValidation, "template data must be a map", nil)
	}

	return tpl.ExecuteWriter(ctx, w)
}

// ExecuteString renders a named template into a string.
func ExecuteString(exec TemplateExecutor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := exec.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.count += int64(n)
	return n, err
}
