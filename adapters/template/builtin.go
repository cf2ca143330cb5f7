package cvtemplate

import (
	"io/fs"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/layout"
)

// DefaultRegistry returns a registry holding the builtin templates rendered from the
// embedded assets.
func DefaultRegistry(cfg Config) (*Registry, error) {
	return NewRegistryFromFS(cfg, Assets(), layout.Builtins()...)
}

// NewRegistryFromFS registers one template per strategy, reading markup and
// stylesheets from fsys.
func NewRegistryFromFS(cfg Config, fsys fs.FS, strategies ...layout.Strategy) (*Registry, error) {
	exec, err := NewPongoExecutor(fsys)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(cfg)
	for _, strategy := range strategies {
		id := strategy.ID()
		css, err := readStylesheet(fsys, string(id))
		if err != nil {
			return nil, cv.NewError(cv.KindInternal, "read stylesheet for "+string(id), err)
		}
		err = reg.Register(id, Template{
			Name:          strategy.Name(),
			StylesheetRef: StylesheetRef(string(id)),
			Stylesheet:    css,
			Layout:        strategy,
			Renderer:      HTMLRenderer{Templates: exec, Logger: cfg.Logger},
		})
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}
