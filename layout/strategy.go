package layout

import (
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
)

// Strategy is a placement driven Layout.
type Strategy struct {
	TemplateID  cv.TemplateID
	DisplayName string
	Placements  []Placement
	// Signature prints the first name in the footer.
	Signature bool
	Branding  bool
}

func (s Strategy) ID() cv.TemplateID { return s.TemplateID }

func (s Strategy) Name() string { return s.DisplayName }

// Arrange places the document sections following s.Placements. Sections without a
// placement are dropped; placements without a section are skipped.
func (s Strategy) Arrange(doc document.Document) Arrangement {
	out := Arrangement{
		Template: s.TemplateID,
		Header:   doc.Header,
		Failures: doc.Failures,
	}
	if s.Signature {
		out.Footer.Signature = doc.Header.FirstName
	}
	if s.Branding {
		out.Footer.Branding = Branding
	}

	for _, placement := range s.Placements {
		section, ok := doc.Section(placement.Kind)
		if !ok {
			continue
		}
		section = limit(section, placement.Limit)
		if placement.Title != "" {
			section.Title = placement.Title
		}

		block := Block{Section: section, Region: placement.Region, Style: placement.Style}
		switch placement.Region {
		case RegionSidebar:
			out.Sidebar = append(out.Sidebar, block)
		case RegionFooter:
			for _, item := range section.Items {
				if item.Label == "Portfolio" {
					out.Footer.Portfolio = item.Href
				}
			}
			out.Footer.Links = append(out.Footer.Links, section.Items...)
		default:
			out.Main = append(out.Main, block)
		}
	}
	return out
}

func limit(section document.Section, n int) document.Section {
	if n <= 0 {
		return section
	}
	if len(section.Items) > n {
		section.Items = section.Items[:n]
	}
	if len(section.Entries) > n {
		section.Entries = section.Entries[:n]
	}
	return section
}
