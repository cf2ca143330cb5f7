package export

import (
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
)

// DefaultApplication is written as the document creator.
const DefaultApplication = "CV Builder"

// BuildMetadata derives the PDF document properties from a record.
func BuildMetadata(r cv.Record, application string) Metadata {
	if application == "" {
		application = DefaultApplication
	}
	name := strings.TrimSpace(r.Personal.FullName)

	title := "CV"
	if name != "" {
		title = "CV - " + name
	}

	keywords := []string{"cv", "curriculum vitae"}
	if profession := strings.TrimSpace(r.Personal.Profession); profession != "" {
		keywords = append(keywords, profession)
	}
	for _, skill := range r.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			keywords = append(keywords, skill)
		}
	}

	return Metadata{
		Title:    title,
		Subject:  "Curriculum Vitae",
		Author:   name,
		Keywords: strings.Join(keywords, ", "),
		Creator:  application,
	}
}
