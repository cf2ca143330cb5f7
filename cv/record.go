package cv

// TemplateID identifies a visual template.
type TemplateID string

const (
	TemplateModern       TemplateID = "modern"
	TemplateProfessional TemplateID = "professional"
	TemplateCreative     TemplateID = "creative"
	TemplateExecutive    TemplateID = "executive"
)

// DefaultTemplate is used whenever a template id is missing or unknown.
const DefaultTemplate = TemplateModern

// BuiltinTemplates lists the template ids shipped with the module, in gallery order.
var BuiltinTemplates = []TemplateID{
	TemplateModern,
	TemplateProfessional,
	TemplateCreative,
	TemplateExecutive,
}

// Personal holds the identity and contact block. Photo is a data URI.
type Personal struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Summary    string `json:"summary"`
	Photo      string `json:"photo"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	Portfolio  string `json:"portfolio"`
}

// Experience is one work history entry.
type Experience struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Education is one education entry.
type Education struct {
	ID          int64  `json:"id"`
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// Language is a spoken language with a 1-5 proficiency level.
type Language struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Record is the résumé.
type Record struct {
	Personal    Personal     `json:"personal"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
	Skills      []string     `json:"skills"`
	Languages   []Language   `json:"languages"`
	Interests   []string     `json:"interests"`
	Template    TemplateID   `json:"template"`
}

// NewRecord returns an empty record with every list present.
func NewRecord() Record {
	return Record{
		Experiences: []Experience{},
		Educations:  []Education{},
		Skills:      []string{},
		Languages:   []Language{},
		Interests:   []string{},
		Template:    DefaultTemplate,
	}
}

// Clone returns a deep copy of r.
func Clone(r Record) Record {
	out := r
	out.Experiences = append([]Experience{}, r.Experiences...)
	out.Educations = append([]Education{}, r.Educations...)
	out.Skills = append([]string{}, r.Skills...)
	out.Languages = append([]Language{}, r.Languages...)
	out.Interests = append([]string{}, r.Interests...)
	return out
}

// IsKnownTemplate reports whether id is one of the builtin templates.
func IsKnownTemplate(id TemplateID) bool {
	for _, known := range BuiltinTemplates {
		if known == id {
			return true
		}
	}
	return false
}
