// Package formgen describes the editor forms as JSON widgets so a client can
// build the sidebar without hardcoding field lists.
package formgen

import (
	"fmt"
	"strconv"
	"strings"

	cvtemplate "github.com/goliatone/go-cvbuilder/adapters/template"
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
	"github.com/goliatone/go-cvbuilder/session"
)

// Field defines a form field.
type Field struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Type      string   `json:"type"`
	Required  bool     `json:"required,omitempty"`
	Options   []string `json:"options,omitempty"`
	Hint      string   `json:"hint,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
}

// Form binds fields to an endpoint.
type Form struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Action      string  `json:"action"`
	Method      string  `json:"method"`
	SubmitLabel string  `json:"submit_label"`
	Fields      []Field `json:"fields"`
}

// TableColumn defines a column in a list widget.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TableAction maps a row action to an HTTP endpoint. {id} is replaced per row.
type TableAction struct {
	Label       string `json:"label"`
	Method      string `json:"method"`
	URLTemplate string `json:"url_template"`
}

// Table defines a list widget backed by DataURL.
type Table struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	DataURL string        `json:"data_url"`
	Columns []TableColumn `json:"columns"`
	Actions []TableAction `json:"actions,omitempty"`
}

// Theme carries color tokens for the editor chrome.
type Theme struct {
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens"`
}

// UI bundles every editor widget.
type UI struct {
	Personal   Form  `json:"personal"`
	Experience Form  `json:"experience"`
	Education  Form  `json:"education"`
	Language   Form  `json:"language"`
	Export     Form  `json:"export"`
	History    Table `json:"history"`
	Snapshots  Table `json:"snapshots"`
	Theme      Theme `json:"theme"`
}

// EditorUI returns the widget contract rooted at basePath (default "/api").
func EditorUI(basePath string, templates []cvtemplate.Info) UI {
	basePath = strings.TrimRight(basePath, "/")
	if basePath == "" {
		basePath = "/api"
	}
	return UI{
		Personal:   PersonalForm(basePath),
		Experience: ExperienceForm(basePath),
		Education:  EducationForm(basePath),
		Language:   LanguageForm(basePath),
		Export:     ExportForm(basePath, templates),
		History:    ExportHistoryTable(basePath),
		Snapshots:  SnapshotTable(basePath),
		Theme:      DefaultTheme(),
	}
}

// PersonalForm edits the identity block.
func PersonalForm(basePath string) Form {
	return Form{
		ID:          "personal",
		Title:       "Informations personnelles",
		Action:      basePath + "/cv/personal",
		Method:      "PATCH",
		SubmitLabel: "Enregistrer",
		Fields: []Field{
			{Name: "fullName", Label: "Nom complet", Type: "text", Required: true},
			{Name: "profession", Label: "Profession", Type: "text"},
			{Name: "email", Label: "Email", Type: "email"},
			{Name: "phone", Label: "Téléphone", Type: "tel"},
			{Name: "location", Label: "Localisation", Type: "text"},
			{Name: "summary", Label: "Résumé", Type: "textarea"},
			{Name: "linkedin", Label: "LinkedIn", Type: "url"},
			{Name: "github", Label: "GitHub", Type: "url"},
			{Name: "portfolio", Label: "Portfolio", Type: "url"},
			{Name: "photo", Label: "Photo", Type: "file", Hint: fmt.Sprintf("PUT %s/cv/photo, %d Mo max", basePath, session.DefaultMaxPhotoBytes/(1024*1024))},
		},
	}
}

// ExperienceForm adds a work history entry.
func ExperienceForm(basePath string) Form {
	return Form{
		ID:          "experience",
		Title:       "Expérience",
		Action:      basePath + "/cv/experiences",
		Method:      "POST",
		SubmitLabel: "Ajouter",
		Fields: []Field{
			{Name: "title", Label: "Poste", Type: "text"},
			{Name: "company", Label: "Entreprise", Type: "text"},
			{Name: "period", Label: "Période", Type: "text", Hint: "2020 - Présent"},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
	}
}

// EducationForm adds an education entry.
func EducationForm(basePath string) Form {
	return Form{
		ID:          "education",
		Title:       "Formation",
		Action:      basePath + "/cv/educations",
		Method:      "POST",
		SubmitLabel: "Ajouter",
		Fields: []Field{
			{Name: "degree", Label: "Diplôme", Type: "text"},
			{Name: "school", Label: "École", Type: "text"},
			{Name: "year", Label: "Année", Type: "text"},
		},
	}
}

// LanguageForm adds a language with its level.
func LanguageForm(basePath string) Form {
	levels := make([]string, 0, cv.MaxLevel)
	for level := 1; level <= cv.MaxLevel; level++ {
		levels = append(levels, strconv.Itoa(level))
	}
	return Form{
		ID:          "language",
		Title:       "Langue",
		Action:      basePath + "/cv/languages",
		Method:      "POST",
		SubmitLabel: "Ajouter",
		Fields: []Field{
			{Name: "name", Label: "Langue", Type: "text"},
			{Name: "level", Label: "Niveau", Type: "select", Options: levels, Hint: cv.LevelLabel(cv.DefaultLevel)},
		},
	}
}

// ExportForm requests a download. The format is part of the action path.
func ExportForm(basePath string, templates []cvtemplate.Info) Form {
	ids := make([]string, 0, len(templates))
	for _, info := range templates {
		ids = append(ids, string(info.ID))
	}
	return Form{
		ID:          "export",
		Title:       "Exporter",
		Action:      basePath + "/export/{format}",
		Method:      "GET",
		SubmitLabel: "Télécharger",
		Fields: []Field{
			{Name: "format", Label: "Format", Type: "select", Required: true, Options: []string{
				string(export.FormatPDF), string(export.FormatHTML), string(export.FormatJSON),
				string(export.FormatXLSX), string(export.FormatSQLite),
			}},
			{Name: "strategy", Label: "Méthode PDF", Type: "select", Options: []string{
				string(export.StrategyRaster), string(export.StrategyVector),
			}},
			{Name: "quality", Label: "Qualité", Type: "select", Options: []string{
				string(export.QualityHigh), string(export.QualityMedium), string(export.QualityLow),
			}},
			{Name: "template", Label: "Modèle", Type: "select", Options: ids, Hint: "POST " + basePath + "/templates/{id}"},
		},
	}
}

// ExportHistoryTable lists recorded exports.
func ExportHistoryTable(basePath string) Table {
	return Table{
		ID:      "export-history",
		Title:   "Historique des exports",
		DataURL: basePath + "/exports",
		Columns: []TableColumn{
			{Key: "ID", Label: "ID"},
			{Key: "Format", Label: "Format"},
			{Key: "Strategy", Label: "Méthode"},
			{Key: "State", Label: "Statut"},
			{Key: "Filename", Label: "Fichier"},
			{Key: "CreatedAt", Label: "Créé"},
		},
	}
}

// SnapshotTable lists saved CVs.
func SnapshotTable(basePath string) Table {
	return Table{
		ID:      "snapshots",
		Title:   "CV sauvegardés",
		DataURL: basePath + "/snapshots",
		Columns: []TableColumn{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Nom"},
			{Key: "template", Label: "Modèle"},
			{Key: "updated_at", Label: "Modifié"},
		},
		Actions: []TableAction{
			{Label: "Charger", Method: "POST", URLTemplate: basePath + "/snapshots/{id}/load"},
			{Label: "Supprimer", Method: "DELETE", URLTemplate: basePath + "/snapshots/{id}"},
		},
	}
}

// DefaultTheme mirrors the editor palette.
func DefaultTheme() Theme {
	return Theme{
		Name: "cvbuilder",
		Tokens: map[string]string{
			"primary": "#2563eb",
			"surface": "#ffffff",
			"text":    "#1f2937",
			"muted":   "#6b7280",
			"danger":  "#b91c1c",
			"success": "#15803d",
			"border":  "#e5e7eb",
		},
	}
}
