package layout

import (
	"testing"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
)

func TestProfessionalLimitsSidebar(t *testing.T) {
	r := cv.SampleRecord()
	r.Interests = append(r.Interests, "Art", "Musique", "Science")

	arr := Professional().Arrange(document.Build(r, document.Options{}))
	skills, ok := arr.Block(document.SectionSkills)
	if !ok || skills.Region != RegionSidebar {
		t.Fatalf("expected skills in sidebar, got %+v", skills)
	}
	if len(skills.Section.Items) != 6 {
		t.Fatalf("expected 6 skills, got %d", len(skills.Section.Items))
	}
	interests, _ := arr.Block(document.SectionInterests)
	if len(interests.Section.Items) != 6 {
		t.Fatalf("expected 6 interests, got %d", len(interests.Section.Items))
	}
	if !arr.HasSidebar() {
		t.Fatalf("expected a sidebar")
	}
}

func TestExecutiveFooterSignature(t *testing.T) {
	arr := Executive().Arrange(document.Build(cv.SampleRecord(), document.Options{}))
	if arr.Footer.Signature != "Marie" {
		t.Fatalf("expected first name signature, got %q", arr.Footer.Signature)
	}
	if len(arr.Footer.Links) != 3 || arr.Footer.Portfolio != "https://mariedubois.dev" {
		t.Fatalf("unexpected footer: %+v", arr.Footer)
	}
}

func TestArrangeSkipsMissingSections(t *testing.T) {
	r := cv.NewRecord()
	r.Personal.FullName = "Jane Doe"
	for _, strategy := range Builtins() {
		arr := strategy.Arrange(document.Build(r, document.Options{}))
		if len(arr.Main) != 0 || len(arr.Sidebar) != 0 || len(arr.Footer.Links) != 0 {
			t.Fatalf("%s: expected no blocks, got %+v", strategy.ID(), arr)
		}
	}
}

func TestForFallsBackToModern(t *testing.T) {
	if For("nope").ID() != cv.TemplateModern {
		t.Fatalf("expected modern fallback")
	}
	if For(cv.TemplateCreative).Name() != "Créatif" {
		t.Fatalf("unexpected creative name")
	}
}
