package exportpdf

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-cvbuilder/cv"
)

// CSS pixels per millimeter.
const cssPxPerMM = 96.0 / 25.4

var pageSizesMM = map[string]struct {
	width  float64
	height float64
}{
	"A4":     {width: 210, height: 297},
	"LETTER": {width: 215.9, height: 279.4},
}

// CaptureRequest describes one element screenshot.
type CaptureRequest struct {
	HTML     []byte
	Selector string
	Scale    float64
	PageSize string
}

// Capturer turns an HTML page into a PNG of one of its elements.
type Capturer interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// CapturerFunc adapts a function to a Capturer.
type CapturerFunc func(ctx context.Context, req CaptureRequest) ([]byte, error)

func (f CapturerFunc) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("capturer func is nil")
	}
	return f(ctx, req)
}

// ChromiumCapturer screenshots elements with a shared headless Chromium instance.
type ChromiumCapturer struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string
	// BlockExternal refuses network requests (web fonts, icon sheets).
	BlockExternal bool

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Capture loads req.HTML in a fresh tab sized to the page and screenshots
// req.Selector at req.Scale.
func (e *ChromiumCapturer) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	if e == nil {
		return nil, cv.NewError(cv.KindNotImpl, "chromium capturer is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.ensureBrowser(); err != nil {
		return nil, cv.NewError(cv.KindNotImpl, "chromium capturer init failed", err)
	}

	width, height, err := viewportFor(req.PageSize)
	if err != nil {
		return nil, err
	}
	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	selector := strings.TrimSpace(req.Selector)
	if selector == "" {
		selector = "body"
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()
	if e.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, e.Timeout)
		defer cancelTimeout()
	}

	var shot []byte
	actions := []chromedp.Action{}
	if e.BlockExternal {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs().WithURLPatterns(externalBlockPatterns()),
		)
	}
	actions = append(actions,
		chromedp.EmulateViewport(width, height, chromedp.EmulateScale(scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(req.HTML)).Do(ctx)
		}),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, exp, err := runtime.Evaluate(`document.fonts ? document.fonts.ready.then(() => true) : true`).
				WithAwaitPromise(true).
				Do(ctx)
			if err != nil {
				return err
			}
			if exp != nil {
				return exp
			}
			return nil
		}),
		chromedp.Screenshot(selector, &shot, chromedp.ByQuery),
	)

	if err := chromedp.Run(execCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cv.NewError(cv.KindFromError(ctxErr), "chromium capture interrupted", err)
		}
		return nil, cv.NewError(cv.KindInternal, "chromium capture failed", err)
	}
	if len(shot) == 0 {
		return nil, cv.NewError(cv.KindInternal, "chromium capture returned no image", nil)
	}
	return shot, nil
}

// Close releases Chromium resources if they have been initialized.
func (e *ChromiumCapturer) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *ChromiumCapturer) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

// viewportFor returns the CSS pixel size of a page, 794x1123 for A4.
// externalBlockPatterns blocks every http and https request so captures only use
// inlined assets.
func externalBlockPatterns() []*network.BlockPattern {
	return []*network.BlockPattern{
		{URLPattern: "http://*:*/*", Block: true},
		{URLPattern: "https://*:*/*", Block: true},
	}
}

func viewportFor(size string) (int64, int64, error) {
	if size == "" {
		size = "A4"
	}
	dims, ok := pageSizesMM[strings.ToUpper(size)]
	if !ok {
		return 0, 0, cv.NewError(cv.KindValidation, "unsupported page size: "+size, nil)
	}
	return int64(math.Round(dims.width * cssPxPerMM)), int64(math.Round(dims.height * cssPxPerMM)), nil
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
