package exportpdf

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_BIN")
	if chromePath == "" {
		paths := []string{"google-chrome", "chromium", "chromium-browser"}
		for _, candidate := range paths {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_BIN to run this test")
	}

	return chromePath
}

func TestViewportFor(t *testing.T) {
	w, h, err := viewportFor("a4")
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	if w != 794 || h != 1123 {
		t.Fatalf("expected 794x1123, got %dx%d", w, h)
	}
	if _, _, err := viewportFor("B7"); err == nil {
		t.Fatalf("expected unsupported page size error")
	}
}

func TestAllocatorOptionsFromArgs(t *testing.T) {
	opts := allocatorOptionsFromArgs([]string{"--no-sandbox", "", "--window-size=800,600", "--"})
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
}

func TestExternalBlockPatterns(t *testing.T) {
	patterns := externalBlockPatterns()
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	for _, p := range patterns {
		if !p.Block || !strings.HasSuffix(p.URLPattern, "://*:*/*") {
			t.Fatalf("unexpected pattern %+v", *p)
		}
	}
}

func TestChromiumCapturer_Capture_Smoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium smoke test in short mode")
	}

	capturer := &ChromiumCapturer{
		BrowserPath: chromeBinaryPath(t),
		Headless:    true,
		Timeout:     10 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() { _ = capturer.Close() })

	shot, err := capturer.Capture(context.Background(), CaptureRequest{
		HTML:     []byte(`<html><body><div id="cv-preview" style="width:210mm;height:100px">Hello</div></body></html>`),
		Selector: "#cv-preview",
		Scale:    2,
	})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() < 1500 {
		t.Fatalf("expected a 2x capture, got width %d", img.Bounds().Dx())
	}
}

func TestChromiumCapturer_BlocksExternalAssets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium external asset test in short mode")
	}

	chromePath := chromeBinaryPath(t)
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	capturer := &ChromiumCapturer{
		BrowserPath:   chromePath,
		Headless:      true,
		Timeout:       10 * time.Second,
		Args:          []string{"--no-sandbox", "--disable-dev-shm-usage"},
		BlockExternal: true,
	}
	t.Cleanup(func() { _ = capturer.Close() })

	html := []byte(`<html><body><div id="cv-preview"><img src="` + server.URL + `/asset.png">x</div></body></html>`)
	if _, err := capturer.Capture(context.Background(), CaptureRequest{HTML: html, Selector: "#cv-preview"}); err != nil {
		t.Fatalf("capture: %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected external assets to be blocked, got %d request(s)", hits)
	}
}
