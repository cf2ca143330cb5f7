// Package exportpdf provides the PDF strategies of the export service.
//
// VectorStrategy draws the arranged document with gofpdf primitives, one layout
// routine per template. RasterStrategy captures the live preview element through a
// Capturer (ChromiumCapturer drives headless Chromium via chromedp), strips the
// application branding and embeds the bitmap page by page.
package exportpdf
