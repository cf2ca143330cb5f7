package cvtemplate

import (
	"context"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
	"github.com/goliatone/go-cvbuilder/layout"
)

// Renderer turns an arrangement into markup.
type Renderer interface {
	Render(ctx context.Context, arr layout.Arrangement) (RenderResult, error)
}

// RenderResult is the markup produced for one arrangement.
type RenderResult struct {
	HTML     string
	Bytes    int64
	Failures []document.Failure
}

// HTMLRenderer renders arrangements through a TemplateExecutor. The layout template
// is "layouts/<LayoutName>.html"; blocks use "sections/<kind>.html" and fall back to
// "sections/<style>.html".
type HTMLRenderer struct {
	Templates  TemplateExecutor
	LayoutName string
	Logger     cv.Logger
}

func (r HTMLRenderer) Render(ctx context.Context, arr layout.Arrangement) (RenderResult, error) {
	if r.Templates == nil {
		return RenderResult{}, cv.NewError(cv.KindValidation, "html renderer requires templates", nil)
	}
	logger := cv.LoggerOr(r.Logger)
	result := RenderResult{Failures: append([]document.Failure{}, arr.Failures...)}

	renderGroup := func(blocks []layout.Block) []string {
		out := make([]string, 0, len(blocks))
		for _, block := range blocks {
			html, err := r.renderBlock(block)
			if err != nil {
				logger.Warnf("cv template %s: section %s rendered empty: %v", arr.Template, block.Section.Kind, err)
				result.Failures = append(result.Failures, document.Failure{Section: block.Section.Kind, Err: err})
				continue
			}
			if html != "" {
				out = append(out, html)
			}
		}
		return out
	}

	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}
	main := renderGroup(arr.Main)
	sidebar := renderGroup(arr.Sidebar)

	footerHTML, err := ExecuteString(r.Templates, "layouts/footer.html", pongo2.Context{"footer": arr.Footer})
	if err != nil {
		logger.Warnf("cv template %s: footer rendered empty: %v", arr.Template, err)
		footerHTML = ""
	}

	name := r.LayoutName
	if name == "" {
		name = string(arr.Template)
	}

	var sb strings.Builder
	cw := &countingWriter{w: &sb}
	err = r.Templates.ExecuteTemplate(cw, "layouts/"+name+".html", pongo2.Context{
		"template":    string(arr.Template),
		"header":      arr.Header,
		"main":        main,
		"sidebar":     sidebar,
		"footer":      arr.Footer,
		"footer_html": footerHTML,
	})
	if err != nil {
		return RenderResult{}, cv.NewError(cv.KindInternal, fmt.Sprintf("render layout %s", name), err)
	}
	result.HTML = sb.String()
	result.Bytes = cw.count
	return result, nil
}

func (r HTMLRenderer) renderBlock(block layout.Block) (html string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			html = ""
			err = fmt.Errorf("section panicked: %v", rec)
		}
	}()

	name := "sections/" + string(block.Section.Kind) + ".html"
	if lookup, ok := r.Templates.(interface{ Has(string) bool }); ok && !lookup.Has(name) {
		name = "sections/" + string(block.Style) + ".html"
	}
	return ExecuteString(r.Templates, name, pongo2.Context{
		"section": block.Section,
		"kind":    string(block.Section.Kind),
		"style":   string(block.Style),
		"region":  string(block.Region),
	})
}
