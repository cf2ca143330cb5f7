package document

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
)

// DefaultBuilders returns the canonical section order.
func DefaultBuilders() []SectionBuilder {
	return []SectionBuilder{
		{Kind: SectionProfile, Build: buildProfile},
		{Kind: SectionExperience, Build: buildExperience},
		{Kind: SectionEducation, Build: buildEducation},
		{Kind: SectionSkills, Build: buildSkills},
		{Kind: SectionLanguages, Build: buildLanguages},
		{Kind: SectionInterests, Build: buildInterests},
		{Kind: SectionSocial, Build: buildSocial},
	}
}

func buildProfile(r cv.Record, _ Options) (Section, error) {
	return Section{Kind: SectionProfile, Title: "Profile", Text: strings.TrimSpace(r.Personal.Summary)}, nil
}

func buildExperience(r cv.Record, _ Options) (Section, error) {
	section := Section{Kind: SectionExperience, Title: "Experience"}
	for _, exp := range r.Experiences {
		section.Entries = append(section.Entries, Entry{
			ID:          exp.ID,
			Title:       exp.Title,
			Subtitle:    exp.Company,
			Period:      exp.Period,
			Description: exp.Description,
			Lines:       DescriptionLines(exp.Description),
		})
	}
	return section, nil
}

func buildEducation(r cv.Record, _ Options) (Section, error) {
	section := Section{Kind: SectionEducation, Title: "Education"}
	for _, edu := range r.Educations {
		section.Entries = append(section.Entries, Entry{
			ID:          edu.ID,
			Title:       edu.Degree,
			Subtitle:    edu.School,
			Period:      edu.Year,
			Description: edu.Description,
			Lines:       DescriptionLines(edu.Description),
		})
	}
	return section, nil
}

func buildSkills(r cv.Record, opts Options) (Section, error) {
	section := Section{Kind: SectionSkills, Title: "Skills"}
	for _, skill := range r.Skills {
		label := strings.TrimSpace(skill)
		if label == "" {
			continue
		}
		index := len(section.Items)
		section.Items = append(section.Items, Item{
			Index:   index,
			Label:   label,
			Percent: cv.DecorativePercent(opts.Seed, label, index),
		})
	}
	return section, nil
}

func buildLanguages(r cv.Record, _ Options) (Section, error) {
	section := Section{Kind: SectionLanguages, Title: "Languages"}
	for _, lang := range r.Languages {
		name := strings.TrimSpace(lang.Name)
		if name == "" {
			continue
		}
		level := cv.NormalizeLevel(lang.Level)
		section.Items = append(section.Items, Item{
			Index:      len(section.Items),
			Label:      name,
			Level:      level,
			LevelLabel: cv.LevelLabel(level),
			Percent:    cv.LevelPercent(level),
			Dots:       dots(level),
		})
	}
	return section, nil
}

func buildInterests(r cv.Record, _ Options) (Section, error) {
	section := Section{Kind: SectionInterests, Title: "Interests"}
	for _, interest := range r.Interests {
		label := strings.TrimSpace(interest)
		if label == "" {
			continue
		}
		section.Items = append(section.Items, Item{
			Index: len(section.Items),
			Label: label,
			Icon:  cv.InterestIcon(label),
		})
	}
	return section, nil
}

func buildSocial(r cv.Record, _ Options) (Section, error) {
	section := Section{Kind: SectionSocial, Title: "Links"}
	add := func(label, icon, raw string) {
		href, ok := linkHref(raw)
		if !ok {
			return
		}
		section.Items = append(section.Items, Item{Index: len(section.Items), Label: label, Icon: icon, Href: href})
	}
	add("Portfolio", "globe", r.Personal.Portfolio)
	add("LinkedIn", "linkedin", r.Personal.LinkedIn)
	add("GitHub", "github", r.Personal.GitHub)
	return section, nil
}

// linkHref returns raw as a link target when it is an http, https or mailto URL.
// Values without a scheme are taken as https. Anything else is rejected.
func linkHref(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "http", "https", "mailto":
		return raw, true
	case "":
		if strings.HasPrefix(raw, "/") {
			return "", false
		}
		return "https://" + raw, true
	default:
		return "", false
	}
}

// DescriptionLines splits free text into its non-blank lines.
func DescriptionLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func dots(level int) []bool {
	out := make([]bool, cv.MaxLevel)
	for i := range out {
		out[i] = i < level
	}
	return out
}
