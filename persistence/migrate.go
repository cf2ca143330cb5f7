package persistence

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goliatone/go-cvbuilder/cv"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func importSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks data against the import schema: an envelope whose data holds a
// personal object, or a bare record with a personal object.
func Validate(data []byte) error {
	s, err := importSchema()
	if err != nil {
		return cv.NewError(cv.KindInternal, "import schema unavailable", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return cv.NewError(cv.KindInvalidFormat, "invalid format", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return cv.NewError(cv.KindInvalidFormat, "invalid format: "+strings.Join(msgs, "; "), nil)
}

// flexInt accepts a JSON number or numeric string. Anything else decodes to zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = flexInt(int64(v))
		return nil
	}
	*f = 0
	return nil
}

// flexString accepts any scalar and keeps strings only.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(s)
	return nil
}

type storedPersonal struct {
	FullName   flexString `json:"fullName"`
	Profession flexString `json:"profession"`
	Email      flexString `json:"email"`
	Phone      flexString `json:"phone"`
	Location   flexString `json:"location"`
	Summary    flexString `json:"summary"`
	Photo      flexString `json:"photo"`
	LinkedIn   flexString `json:"linkedin"`
	GitHub     flexString `json:"github"`
	Portfolio  flexString `json:"portfolio"`
}

type storedEntry struct {
	ID          flexInt    `json:"id"`
	Title       flexString `json:"title"`
	Company     flexString `json:"company"`
	Period      flexString `json:"period"`
	Degree      flexString `json:"degree"`
	School      flexString `json:"school"`
	Year        flexString `json:"year"`
	Description flexString `json:"description"`
}

type storedLanguage struct {
	ID    flexInt    `json:"id"`
	Name  flexString `json:"name"`
	Level flexInt    `json:"level"`
}

type storedRecord struct {
	Personal    storedPersonal    `json:"personal"`
	Experiences []storedEntry     `json:"experiences"`
	Educations  []storedEntry     `json:"educations"`
	Skills      []flexString      `json:"skills"`
	Languages   []json.RawMessage `json:"languages"`
	Interests   []flexString      `json:"interests"`
	Template    flexString        `json:"template"`
}

// Migrate decodes a stored record of any known shape into the current one: missing
// lists become empty, missing fields become "", bare language names get the default
// level, and ids are repaired. The result is normalized.
func Migrate(data []byte) (cv.Record, error) {
	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return cv.Record{}, cv.NewError(cv.KindInvalidFormat, "invalid format", err)
	}

	out := cv.NewRecord()
	p := stored.Personal
	out.Personal = cv.Personal{
		FullName:   string(p.FullName),
		Profession: string(p.Profession),
		Email:      string(p.Email),
		Phone:      string(p.Phone),
		Location:   string(p.Location),
		Summary:    string(p.Summary),
		Photo:      string(p.Photo),
		LinkedIn:   string(p.LinkedIn),
		GitHub:     string(p.GitHub),
		Portfolio:  string(p.Portfolio),
	}
	for _, e := range stored.Experiences {
		out.Experiences = append(out.Experiences, cv.Experience{
			ID:          int64(e.ID),
			Title:       string(e.Title),
			Company:     string(e.Company),
			Period:      string(e.Period),
			Description: string(e.Description),
		})
	}
	for _, e := range stored.Educations {
		out.Educations = append(out.Educations, cv.Education{
			ID:          int64(e.ID),
			Degree:      string(e.Degree),
			School:      string(e.School),
			Year:        string(e.Year),
			Description: string(e.Description),
		})
	}
	out.Skills = keepStrings(stored.Skills)
	out.Interests = keepStrings(stored.Interests)
	for _, raw := range stored.Languages {
		lang, ok := migrateLanguage(raw)
		if ok {
			out.Languages = append(out.Languages, lang)
		}
	}
	out.Template = cv.TemplateID(stored.Template)
	return cv.Normalize(out), nil
}

func migrateLanguage(raw json.RawMessage) (cv.Language, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if strings.TrimSpace(name) == "" {
			return cv.Language{}, false
		}
		return cv.Language{Name: name, Level: cv.DefaultLevel}, true
	}
	var stored storedLanguage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return cv.Language{}, false
	}
	return cv.Language{ID: int64(stored.ID), Name: string(stored.Name), Level: int(stored.Level)}, true
}

func keepStrings(values []flexString) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := string(v); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
