package layout

import (
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
)

// Modern is the single column layout with tag skills and bar languages.
func Modern() Strategy {
	return Strategy{
		TemplateID:  cv.TemplateModern,
		DisplayName: "Moderne",
		Branding:    true,
		Placements: []Placement{
			{Kind: document.SectionProfile, Region: RegionMain, Style: StylePlain},
			{Kind: document.SectionExperience, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionEducation, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionSkills, Region: RegionMain, Style: StyleTags},
			{Kind: document.SectionLanguages, Region: RegionMain, Style: StyleBars},
			{Kind: document.SectionInterests, Region: RegionMain, Style: StyleIcons},
			{Kind: document.SectionSocial, Region: RegionFooter, Style: StyleLinks},
		},
	}
}

// Professional puts contact, skills and languages in a dark sidebar.
func Professional() Strategy {
	return Strategy{
		TemplateID:  cv.TemplateProfessional,
		DisplayName: "Professionnel",
		Branding:    true,
		Placements: []Placement{
			{Kind: document.SectionSkills, Region: RegionSidebar, Style: StyleBars, Limit: 6},
			{Kind: document.SectionLanguages, Region: RegionSidebar, Style: StyleDots},
			{Kind: document.SectionSocial, Region: RegionSidebar, Style: StyleLinks},
			{Kind: document.SectionProfile, Region: RegionMain, Style: StylePlain},
			{Kind: document.SectionExperience, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionEducation, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionInterests, Region: RegionMain, Style: StyleIcons, Limit: 6},
		},
	}
}

// Creative uses a colored header, a timeline and skill bubbles.
func Creative() Strategy {
	return Strategy{
		TemplateID:  cv.TemplateCreative,
		DisplayName: "Créatif",
		Branding:    true,
		Placements: []Placement{
			{Kind: document.SectionProfile, Region: RegionMain, Style: StylePlain, Title: "About me"},
			{Kind: document.SectionExperience, Region: RegionMain, Style: StyleTimeline, Title: "Journey"},
			{Kind: document.SectionEducation, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionSkills, Region: RegionMain, Style: StyleBubbles},
			{Kind: document.SectionLanguages, Region: RegionMain, Style: StyleLabels},
			{Kind: document.SectionInterests, Region: RegionMain, Style: StyleIcons},
			{Kind: document.SectionSocial, Region: RegionFooter, Style: StyleLinks},
		},
	}
}

// Executive is a two column layout with a signature footer.
func Executive() Strategy {
	return Strategy{
		TemplateID:  cv.TemplateExecutive,
		DisplayName: "Executive",
		Signature:   true,
		Branding:    true,
		Placements: []Placement{
			{Kind: document.SectionProfile, Region: RegionMain, Style: StylePlain, Title: "Executive summary"},
			{Kind: document.SectionExperience, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionEducation, Region: RegionMain, Style: StyleTimeline},
			{Kind: document.SectionSkills, Region: RegionSidebar, Style: StyleBars, Title: "Expertise"},
			{Kind: document.SectionLanguages, Region: RegionSidebar, Style: StyleDots},
			{Kind: document.SectionInterests, Region: RegionSidebar, Style: StyleIcons, Limit: 8},
			{Kind: document.SectionSocial, Region: RegionFooter, Style: StyleLinks},
		},
	}
}

// Builtins returns the four shipped layouts in gallery order.
func Builtins() []Strategy {
	return []Strategy{Modern(), Professional(), Creative(), Executive()}
}

// For returns the builtin layout for id, falling back to Modern.
func For(id cv.TemplateID) Strategy {
	id = cv.NormalizeTemplate(id)
	for _, strategy := range Builtins() {
		if strategy.TemplateID == id {
			return strategy
		}
	}
	return Modern()
}
