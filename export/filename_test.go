package export

import (
	"strings"
	"testing"
	"time"
)

func TestFilenameUsesNameAndDate(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	name, err := Filename("", "Jane Doe", "modern", FormatPDF, now)
	if err != nil {
		t.Fatalf("filename: %v", err)
	}
	if name != "CV_Jane_Doe_2024-03-09.pdf" {
		t.Fatalf("unexpected filename %q", name)
	}
}

func TestFilenameEmptyName(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	name, err := Filename("", "   ", "modern", FormatPDF, now)
	if err != nil {
		t.Fatalf("filename: %v", err)
	}
	if name != "CV_CV_2024-03-09.pdf" {
		t.Fatalf("unexpected filename %q", name)
	}
}

func TestFilenameExtensionFollowsFormat(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for format, ext := range map[Format]string{FormatPDF: ".pdf", FormatHTML: ".html", FormatXLSX: ".xlsx"} {
		name, err := Filename("", "Jane", "modern", format, now)
		if err != nil {
			t.Fatalf("filename: %v", err)
		}
		if !strings.HasSuffix(name, ext) {
			t.Fatalf("expected %s extension, got %q", ext, name)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":              "Jane_Doe",
		"  Marie   Dubois ":     "Marie_Dubois",
		"Zoë O'Neil/../x":       "Zo_ONeilx",
		"":                      "CV",
		"***":                   "CV",
		strings.Repeat("a", 80): strings.Repeat("a", 50),
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilenameCustomPattern(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	name, err := Filename("{{.Name}}-{{.Template}}", "Jane", "executive", FormatPDF, now)
	if err != nil {
		t.Fatalf("filename: %v", err)
	}
	if name != "Jane-executive.pdf" {
		t.Fatalf("unexpected filename %q", name)
	}
}
