package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	texttemplate "text/template"
	"time"
)

// DefaultFilenamePattern is the text/template used for export filenames.
const DefaultFilenamePattern = "CV_{{.Name}}_{{.Date}}"

const maxFilenameName = 50

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWord       = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

type filenameData struct {
	Name      string
	Date      string
	Timestamp string
	Template  string
	Format    string
}

// SanitizeName turns a person's name into a filename fragment: whitespace becomes
// underscores, anything outside [A-Za-z0-9_] is dropped and the result is capped at
// 50 characters. An empty result yields "CV".
func SanitizeName(name string) string {
	out := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	out = nonWord.ReplaceAllString(out, "")
	if len(out) > maxFilenameName {
		out = out[:maxFilenameName]
	}
	if out == "" {
		return "CV"
	}
	return out
}

// Filename renders the download name for a record's export.
func Filename(pattern, fullName, template string, format Format, now time.Time) (string, error) {
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}

	data := filenameData{
		Name:      SanitizeName(fullName),
		Date:      now.Format("2006-01-02"),
		Timestamp: now.UTC().Format("20060102T150405Z"),
		Template:  template,
		Format:    string(format),
	}

	tmpl, err := texttemplate.New("filename").Parse(pattern)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	result := strings.TrimSpace(buf.String())
	if result == "" {
		return "", fmt.Errorf("empty filename")
	}

	ext := extensionFor(format)
	if !strings.HasSuffix(strings.ToLower(result), "."+ext) {
		result = result + "." + ext
	}
	return result, nil
}

func extensionFor(format Format) string {
	if format == "" {
		return string(FormatPDF)
	}
	return string(format)
}

func contentTypeForFormat(format Format) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatSQLite:
		return "application/vnd.sqlite3"
	default:
		return "application/octet-stream"
	}
}

// ContentType returns the MIME type for format.
func ContentType(format Format) string {
	return contentTypeForFormat(format)
}
