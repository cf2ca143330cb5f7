// Package layout arranges the shared document model for a given template.
//
// The HTML templates and the vector PDF routines both consume an Arrangement, so the
// choice of what goes in the sidebar, how many skills are shown and which indicator a
// language gets is made once per template.
package layout

import (
	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/document"
)

// Region is where a block is placed.
type Region string

const (
	RegionMain    Region = "main"
	RegionSidebar Region = "sidebar"
	RegionFooter  Region = "footer"
)

// Style selects how a list section is drawn.
type Style string

const (
	StylePlain    Style = "plain"
	StyleTimeline Style = "timeline"
	StyleTags     Style = "tags"
	StyleBars     Style = "bars"
	StyleBubbles  Style = "bubbles"
	StyleDots     Style = "dots"
	StyleLabels   Style = "labels"
	StyleIcons    Style = "icons"
	StyleLinks    Style = "links"
)

// Branding is the attribution line printed in preview footers.
const Branding = "Généré avec CV Builder"

// Placement describes one section slot of a layout.
type Placement struct {
	Kind   document.SectionKind
	Region Region
	Style  Style
	Title  string
	// Limit caps the number of items or entries, zero means no cap.
	Limit int
}

// Block is a placed section.
type Block struct {
	Section document.Section
	Region  Region
	Style   Style
}

// Footer holds what a layout prints at the bottom.
type Footer struct {
	Links     []document.Item
	Portfolio string
	Signature string
	Branding  string
}

// Arrangement is a document placed for one template.
type Arrangement struct {
	Template cv.TemplateID
	Header   document.Header
	Main     []Block
	Sidebar  []Block
	Footer   Footer
	Failures []document.Failure
}

// HasSidebar reports whether anything landed in the sidebar.
func (a Arrangement) HasSidebar() bool {
	return len(a.Sidebar) > 0
}

// Block returns the placed block for kind.
func (a Arrangement) Block(kind document.SectionKind) (Block, bool) {
	for _, group := range [][]Block{a.Main, a.Sidebar} {
		for _, block := range group {
			if block.Section.Kind == kind {
				return block, true
			}
		}
	}
	return Block{}, false
}

// Layout arranges a document for one template.
type Layout interface {
	ID() cv.TemplateID
	Name() string
	Arrange(doc document.Document) Arrangement
}
