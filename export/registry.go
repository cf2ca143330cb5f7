package export

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-cvbuilder/cv"
)

// StrategyRegistry stores PDF strategies by name.
type StrategyRegistry struct {
	mu         sync.RWMutex
	strategies map[StrategyName]PDFStrategy
}

// NewStrategyRegistry creates an empty registry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{strategies: make(map[StrategyName]PDFStrategy)}
}

// Register adds a strategy under its name.
func (r *StrategyRegistry) Register(strategy PDFStrategy) error {
	if strategy == nil {
		return cv.NewError(cv.KindValidation, "strategy is required", nil)
	}
	name := strategy.Name()
	if name == "" {
		return cv.NewError(cv.KindValidation, "strategy name is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[name]; exists {
		return cv.NewError(cv.KindValidation, fmt.Sprintf("strategy %q already registered", name), nil)
	}
	r.strategies[name] = strategy
	return nil
}

// Resolve returns the strategy registered under name.
func (r *StrategyRegistry) Resolve(name StrategyName) (PDFStrategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	strategy, ok := r.strategies[name]
	return strategy, ok
}

// RendererRegistry stores non PDF renderers by format.
type RendererRegistry struct {
	mu        sync.RWMutex
	renderers map[Format]Renderer
}

// NewRendererRegistry creates an empty registry.
func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{renderers: make(map[Format]Renderer)}
}

// Register adds a renderer for format.
func (r *RendererRegistry) Register(format Format, renderer Renderer) error {
	if format == "" || format == FormatPDF {
		return cv.NewError(cv.KindValidation, fmt.Sprintf("format %q cannot take a renderer", format), nil)
	}
	if renderer == nil {
		return cv.NewError(cv.KindValidation, "renderer is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[format]; exists {
		return cv.NewError(cv.KindValidation, fmt.Sprintf("renderer for %q already registered", format), nil)
	}
	r.renderers[format] = renderer
	return nil
}

// Resolve returns the renderer for format.
func (r *RendererRegistry) Resolve(format Format) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[format]
	return renderer, ok
}
