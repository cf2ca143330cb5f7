package exportpdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/goliatone/go-cvbuilder/export"
)

// A4 geometry in millimeters.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 20.0
)

// Space a block needs before it is pushed to the next page.
const (
	keepHeading   = 20.0
	keepParagraph = 8.0
	keepEntry     = 20.0
)

const ptToMM = 0.3528

// RGB is a fill, stroke or text color.
type RGB struct{ R, G, B int }

var (
	colorText     = RGB{51, 51, 51}
	colorMuted    = RGB{100, 116, 139}
	colorWhite    = RGB{255, 255, 255}
	colorTrack    = RGB{226, 232, 240}
	colorSoftText = RGB{226, 232, 240}
)

// Canvas wraps a gofpdf document with the cursor and pagination rules shared by the
// layouts. Content never goes past Bottom: blocks ask for space first and continue on
// the next page when it is missing.
type Canvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	Top    float64
	Bottom float64

	// decorate paints page chrome (sidebar panels) on every new page.
	decorate func(c *Canvas, page int)

	photos   map[string]string
	overflow int
	lowest   float64
}

func newCanvas(meta export.Metadata) *Canvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)
	applyMetadata(pdf, meta)
	return &Canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		Top:    Margin,
		Bottom: PageHeight - Margin,
		photos: map[string]string{},
	}
}

func applyMetadata(pdf *gofpdf.Fpdf, meta export.Metadata) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreator(meta.Creator, true)
}

// Pages returns the number of pages created so far.
func (c *Canvas) Pages() int { return c.pdf.PageCount() }

// AddPage appends a page and paints its chrome.
func (c *Canvas) AddPage() {
	if n := c.pdf.PageCount(); n > 0 {
		c.pdf.SetPage(n)
	}
	c.pdf.AddPage()
	if c.decorate != nil {
		c.decorate(c, c.pdf.PageNo())
	}
}

// Err returns the first error recorded by the underlying document.
func (c *Canvas) Err() error { return c.pdf.Error() }

func (c *Canvas) font(family, style string, size float64, color RGB) {
	c.pdf.SetFont(family, style, size)
	c.pdf.SetTextColor(color.R, color.G, color.B)
}

func (c *Canvas) fill(color RGB) { c.pdf.SetFillColor(color.R, color.G, color.B) }

func (c *Canvas) stroke(color RGB, width float64) {
	c.pdf.SetDrawColor(color.R, color.G, color.B)
	c.pdf.SetLineWidth(width)
}

// Measure returns the width of s in the current font.
func (c *Canvas) Measure(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

// track records the lowest point drawn and counts anything placed past Bottom.
func (c *Canvas) track(y float64) {
	if y > c.lowest {
		c.lowest = y
	}
	if y > c.Bottom+0.01 {
		c.overflow++
	}
}

// Rect fills a rectangle. Page chrome may cover the margins and is not tracked.
func (c *Canvas) Rect(x, y, w, h float64, color RGB) {
	c.fill(color)
	c.pdf.Rect(x, y, w, h, "F")
}

// Photo registers a data URI image and returns its name. ok is false for anything
// that is not a base64 png or jpeg.
func (c *Canvas) Photo(dataURI string) (string, bool) {
	if name, ok := c.photos[dataURI]; ok {
		return name, true
	}
	header, payload, found := strings.Cut(dataURI, ",")
	if !found || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return "", false
	}
	kind := strings.TrimSuffix(strings.TrimPrefix(header, "data:image/"), ";base64")
	switch kind {
	case "png":
		kind = "PNG"
	case "jpeg", "jpg":
		kind = "JPG"
	default:
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	name := fmt.Sprintf("photo-%d", len(c.photos))
	c.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(raw))
	if c.pdf.Err() {
		c.pdf.ClearError()
		return "", false
	}
	c.photos[dataURI] = name
	return name, true
}

// Image draws a registered image.
func (c *Canvas) Image(name string, x, y, w, h float64) {
	c.pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{}, 0, "")
}

// Column is a vertical flow of content with its own cursor. Several columns can
// share a canvas; each resumes on the page where it left off.
type Column struct {
	c     *Canvas
	Left  float64
	Width float64
	page  int
	y     float64
}

// Column opens a column starting at y on the current page.
func (c *Canvas) Column(left, width, y float64) *Column {
	return &Column{c: c, Left: left, Width: width, page: c.pdf.PageNo(), y: y}
}

// Y returns the cursor position.
func (col *Column) Y() float64 { return col.y }

// Gap advances the cursor.
func (col *Column) Gap(h float64) { col.y += h }

func (col *Column) activate() {
	if col.c.pdf.PageNo() != col.page {
		col.c.pdf.SetPage(col.page)
	}
}

// Ensure moves the column to the next page when fewer than h millimeters remain.
func (col *Column) Ensure(h float64) {
	col.activate()
	if col.y+h <= col.c.Bottom {
		return
	}
	if col.page < col.c.Pages() {
		col.page++
		col.c.pdf.SetPage(col.page)
	} else {
		col.c.AddPage()
		col.page = col.c.pdf.PageNo()
	}
	col.y = col.c.Top
}

func lineHeight(size float64) float64 {
	return size * ptToMM * 1.4
}

// Line draws a single line of text at the cursor and advances.
func (col *Column) Line(text string, family, style string, size float64, color RGB) {
	col.c.font(family, style, size, color)
	h := lineHeight(size)
	col.Ensure(h)
	col.y += h
	col.c.pdf.Text(col.Left, col.y-h*0.3, col.c.tr(text))
	col.c.track(col.y)
}

// Paragraph wraps text to the column width, breaking pages between lines.
func (col *Column) Paragraph(text string, family, style string, size float64, color RGB, indent float64) {
	col.c.font(family, style, size, color)
	h := lineHeight(size)
	for _, line := range Wrap(text, col.Width-indent, col.c.Measure) {
		col.Ensure(h)
		col.y += h
		col.c.pdf.Text(col.Left+indent, col.y-h*0.3, col.c.tr(line))
		col.c.track(col.y)
	}
}

// Bullets prints each line as a hanging bullet.
func (col *Column) Bullets(lines []string, size float64, color RGB) {
	col.c.font("Helvetica", "", size, color)
	bullet := "- "
	indent := col.c.Measure(bullet) + 1
	h := lineHeight(size)
	for _, line := range lines {
		for i, part := range Wrap(line, col.Width-indent, col.c.Measure) {
			col.Ensure(h)
			col.y += h
			if i == 0 {
				col.c.pdf.Text(col.Left, col.y-h*0.3, bullet)
			}
			col.c.pdf.Text(col.Left+indent, col.y-h*0.3, col.c.tr(part))
			col.c.track(col.y)
		}
	}
}

// Rule draws a horizontal line across the column.
func (col *Column) Rule(color RGB, width float64) {
	col.Ensure(width + 1)
	col.c.stroke(color, width)
	col.c.pdf.Line(col.Left, col.y, col.Left+col.Width, col.y)
	col.y += width + 1
	col.c.track(col.y)
}

// Heading prints a section title kept together with the start of its content. A zero
// underline color skips the rule.
func (col *Column) Heading(title string, family string, size float64, color RGB, underline RGB) {
	col.Ensure(keepHeading)
	col.Line(title, family, "B", size, color)
	if underline != (RGB{}) {
		col.Gap(0.5)
		col.Rule(underline, 0.5)
	}
	col.Gap(2)
}

// Tags flows labels as filled boxes, wrapping to a new row when the column is full.
func (col *Column) Tags(labels []string, size float64, fg, bg RGB) {
	col.c.font("Helvetica", "", size, fg)
	h := lineHeight(size) + 2
	pad := 2.5
	x := col.Left
	col.Ensure(h)
	for _, label := range labels {
		text := truncate(label, col.Width-2*pad, col.c.Measure)
		w := col.c.Measure(text) + 2*pad
		if x > col.Left && x+w > col.Left+col.Width {
			x = col.Left
			col.y += h + 1.5
			col.Ensure(h)
		}
		col.c.Rect(x, col.y, w, h, bg)
		col.c.font("Helvetica", "", size, fg)
		col.c.pdf.Text(x+pad, col.y+h*0.68, col.c.tr(text))
		col.c.track(col.y + h)
		x += w + 2
	}
	col.y += h + 2
}

// Bar prints a label with a proportional bar underneath.
func (col *Column) Bar(label, caption string, percent int, size float64, fg, track, fill RGB) {
	col.Ensure(lineHeight(size) + 4)
	col.c.font("Helvetica", "", size, fg)
	if caption != "" {
		cw := col.c.Measure(caption)
		label = truncate(label, col.Width-cw-2, col.c.Measure)
		col.c.pdf.Text(col.Left+col.Width-cw, col.y+lineHeight(size)*0.7, col.c.tr(caption))
	} else {
		label = truncate(label, col.Width, col.c.Measure)
	}
	col.c.pdf.Text(col.Left, col.y+lineHeight(size)*0.7, col.c.tr(label))
	col.y += lineHeight(size) + 0.5
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	col.c.Rect(col.Left, col.y, col.Width, 1.8, track)
	col.c.Rect(col.Left, col.y, col.Width*float64(percent)/100, 1.8, fill)
	col.y += 3.5
	col.c.track(col.y)
}

// Dots prints a label followed by filled and hollow circles.
func (col *Column) Dots(label string, dots []bool, size float64, fg, on, off RGB) {
	h := lineHeight(size)
	col.Ensure(h + 1)
	col.c.font("Helvetica", "", size, fg)
	r := 1.2
	dotsWidth := float64(len(dots)) * (2*r + 1.2)
	label = truncate(label, col.Width-dotsWidth-2, col.c.Measure)
	col.c.pdf.Text(col.Left, col.y+h*0.7, col.c.tr(label))
	x := col.Left + col.Width - dotsWidth + r
	for _, filled := range dots {
		if filled {
			col.c.fill(on)
		} else {
			col.c.fill(off)
		}
		col.c.pdf.Circle(x, col.y+h*0.45, r, "F")
		x += 2*r + 1.2
	}
	col.y += h + 1
	col.c.track(col.y)
}

// Wrap breaks text into lines no wider than width as reported by measure. Words
// longer than a line are split between characters. Blank lines are dropped.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		words := strings.Fields(raw)
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				out = append(out, current)
				current = ""
			}
			for measure(word) > width {
				head := splitAt(word, width, measure)
				out = append(out, head)
				word = word[len(head):]
			}
			current = word
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}

// splitAt returns the longest prefix of word that fits width, at least one rune.
func splitAt(word string, width float64, measure func(string) float64) string {
	end := 0
	for i, r := range word {
		next := i + utf8.RuneLen(r)
		if end > 0 && measure(word[:next]) > width {
			break
		}
		end = next
	}
	return word[:end]
}

func truncate(text string, width float64, measure func(string) float64) string {
	if measure(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if measure(candidate) <= width {
			return candidate
		}
	}
	return string(runes)
}
