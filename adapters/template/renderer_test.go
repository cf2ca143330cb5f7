package cvtemplate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
)

var listSections = []document.SectionKind{
	document.SectionExperience,
	document.SectionEducation,
	document.SectionSkills,
	document.SectionLanguages,
	document.SectionInterests,
}

func TestRenderNameOnlyHasNoSections(t *testing.T) {
	reg := newTestRegistry(t, nil)
	record := cv.NewRecord()
	record.Personal.FullName = "Jane Doe"

	for _, id := range cv.BuiltinTemplates {
		record.Template = id
		markup, err := reg.Render(context.Background(), record)
		if err != nil {
			t.Fatalf("%s: render: %v", id, err)
		}
		doc := parse(t, markup.HTML)
		if !strings.Contains(doc.Find(".cv-name").Text(), "Jane Doe") {
			t.Fatalf("%s: expected name in markup", id)
		}
		for _, kind := range append(listSections, document.SectionProfile, document.SectionSocial) {
			if n := doc.Find(`[data-section="` + string(kind) + `"]`).Length(); n != 0 {
				t.Fatalf("%s: unexpected %s section", id, kind)
			}
		}
	}
}

func TestRenderEmptySectionsNeverAppear(t *testing.T) {
	reg := newTestRegistry(t, nil)
	for _, id := range cv.BuiltinTemplates {
		for _, kind := range listSections {
			record := cv.SampleRecord()
			record.Template = id
			switch kind {
			case document.SectionExperience:
				record.Experiences = nil
			case document.SectionEducation:
				record.Educations = nil
			case document.SectionSkills:
				record.Skills = []string{}
			case document.SectionLanguages:
				record.Languages = nil
			case document.SectionInterests:
				record.Interests = []string{}
			}
			markup, err := reg.Render(context.Background(), record)
			if err != nil {
				t.Fatalf("%s/%s: render: %v", id, kind, err)
			}
			doc := parse(t, markup.HTML)
			if doc.Find(`[data-section="`+string(kind)+`"]`).Length() != 0 {
				t.Fatalf("%s: empty %s section rendered", id, kind)
			}
			if doc.Find(`[data-section="profile"]`).Length() != 1 {
				t.Fatalf("%s: profile section missing while %s is empty", id, kind)
			}
		}
	}
}

func TestRenderExperienceWithoutDescription(t *testing.T) {
	reg := newTestRegistry(t, nil)
	record := cv.NewRecord()
	record.Experiences = []cv.Experience{{ID: 1, Title: "Engineer", Company: "Acme", Period: "2020-2022"}}

	for _, id := range cv.BuiltinTemplates {
		record.Template = id
		markup, err := reg.Render(context.Background(), record)
		if err != nil {
			t.Fatalf("%s: render: %v", id, err)
		}
		section := parse(t, markup.HTML).Find(`[data-section="experience"]`)
		text := section.Text()
		for _, want := range []string{"Engineer", "Acme", "2020-2022"} {
			if !strings.Contains(text, want) {
				t.Fatalf("%s: expected %q in experience section", id, want)
			}
		}
		if section.Find("li").Length() != 0 {
			t.Fatalf("%s: expected no description bullet", id)
		}
	}
}

func TestRenderLanguageLevels(t *testing.T) {
	reg := newTestRegistry(t, nil)
	record := cv.NewRecord()
	record.Languages = []cv.Language{{ID: 1, Name: "English", Level: 5}, {ID: 2, Name: "French"}}

	for _, id := range cv.BuiltinTemplates {
		record.Template = id
		markup, err := reg.Render(context.Background(), record)
		if err != nil {
			t.Fatalf("%s: render: %v", id, err)
		}
		items := parse(t, markup.HTML).Find(".language-item")
		if items.Length() != 2 {
			t.Fatalf("%s: expected 2 languages, got %d", id, items.Length())
		}
		if got := strings.TrimSpace(items.Eq(0).Find(".language-level").Text()); got != "Native" {
			t.Fatalf("%s: expected Native, got %q", id, got)
		}
		if got := strings.TrimSpace(items.Eq(1).Find(".language-level").Text()); got != "Good" {
			t.Fatalf("%s: expected Good, got %q", id, got)
		}
		if dots := items.Eq(0).Find(".dot"); dots.Length() > 0 && dots.Filter(".filled").Length() != 5 {
			t.Fatalf("%s: expected a full dot scale for native", id)
		}
		if bar, ok := items.Eq(0).Find(".language-progress").Attr("style"); ok && !strings.Contains(bar, "100%") {
			t.Fatalf("%s: expected a full bar for native, got %q", id, bar)
		}
	}
}

func TestRenderEscapesUserText(t *testing.T) {
	reg := newTestRegistry(t, nil)
	record := cv.NewRecord()
	record.Personal.FullName = `<script>alert("x")</script>`
	markup, err := reg.Render(context.Background(), record)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(markup.HTML, "<script>") {
		t.Fatalf("expected user text to be escaped")
	}
}

type failingSections struct {
	*PongoExecutor
	fail string
}

func (f failingSections) ExecuteTemplate(w io.Writer, name string, data any) error {
	if name == f.fail {
		return errors.New("broken fragment")
	}
	return f.PongoExecutor.ExecuteTemplate(w, name, data)
}

func TestRenderIsolatesBrokenSection(t *testing.T) {
	exec, err := NewPongoExecutor(Assets())
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	reg := newTestRegistry(t, nil)
	arr, err := reg.Arrange(cv.SampleRecord())
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}

	renderer := HTMLRenderer{Templates: failingSections{PongoExecutor: exec, fail: "sections/languages.html"}}
	result, err := renderer.Render(context.Background(), arr)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, result.HTML)
	if doc.Find(`[data-section="languages"]`).Length() != 0 {
		t.Fatalf("expected broken languages section to be empty")
	}
	if doc.Find(`[data-section="experience"]`).Length() != 1 {
		t.Fatalf("expected other sections to render")
	}
	if len(result.Failures) != 1 || result.Failures[0].Section != document.SectionLanguages {
		t.Fatalf("expected languages failure, got %+v", result.Failures)
	}
}
