package formgen

import (
	"encoding/json"
	"strings"
	"testing"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
)

func TestEditorUI_DefaultsBasePath(t *testing.T) {
	ui := EditorUI("", nil)
	if ui.Personal.Action != "/api/cv/personal" || ui.Personal.Method != "PATCH" {
		t.Fatalf("unexpected personal form %+v", ui.Personal)
	}
	if ui.History.DataURL != "/api/exports" {
		t.Fatalf("unexpected history url %q", ui.History.DataURL)
	}
	if got := ui.Snapshots.Actions[0].URLTemplate; got != "/api/snapshots/{id}/load" {
		t.Fatalf("unexpected snapshot action %q", got)
	}
}

func TestEditorUI_TrimsBasePathAndListsTemplates(t *testing.T) {
	ui := EditorUI("/v1/", []cvtemplate.Info{{ID: cv.TemplateModern}, {ID: cv.TemplateExecutive}})
	if ui.Experience.Action != "/v1/cv/experiences" {
		t.Fatalf("unexpected action %q", ui.Experience.Action)
	}
	var templateField Field
	for _, field := range ui.Export.Fields {
		if field.Name == "template" {
			templateField = field
		}
	}
	if strings.Join(templateField.Options, ",") != "modern,executive" {
		t.Fatalf("unexpected template options %v", templateField.Options)
	}
}

func TestLanguageForm_CoversLevelScale(t *testing.T) {
	form := LanguageForm("/api")
	level := form.Fields[1]
	if len(level.Options) != cv.MaxLevel || level.Options[0] != "1" {
		t.Fatalf("unexpected level options %v", level.Options)
	}
	if level.Hint != cv.LevelLabel(cv.DefaultLevel) {
		t.Fatalf("unexpected hint %q", level.Hint)
	}
}

func TestEditorUI_JSONKeys(t *testing.T) {
	data, err := json.Marshal(EditorUI("/api", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"personal"`, `"export"`, `"submit_label"`, `"url_template"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("missing %s in %s", key, data)
		}
	}
}
