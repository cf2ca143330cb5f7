// Package document projects a cv.Record into the section model shared by every
// template and by the PDF layouts.
package document

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-cvbuilder/cv"
)

// SectionKind names an independently includable block.
type SectionKind string

const (
	SectionProfile    SectionKind = "profile"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionLanguages  SectionKind = "languages"
	SectionInterests  SectionKind = "interests"
	SectionSocial     SectionKind = "social"
)

// Contact is one entry of the header contact line.
type Contact struct {
	Kind  string
	Value string
	Icon  string
	Href  string
}

// Header is the identity block.
type Header struct {
	FullName   string
	FirstName  string
	Profession string
	Photo      string
	Contacts   []Contact
}

// Entry is one dated item of a timeline section.
type Entry struct {
	ID          int64
	Title       string
	Subtitle    string
	Period      string
	Description string
	Lines       []string
}

// Item is one element of a list section.
type Item struct {
	Index      int
	Label      string
	Level      int
	LevelLabel string
	Percent    int
	Dots       []bool
	Icon       string
	Href       string
}

// Section is a titled block. Exactly one of Text, Entries or Items is populated.
type Section struct {
	Kind    SectionKind
	Title   string
	Text    string
	Entries []Entry
	Items   []Item
}

// Empty reports whether the section has nothing to show.
func (s Section) Empty() bool {
	return strings.TrimSpace(s.Text) == "" && len(s.Entries) == 0 && len(s.Items) == 0
}

// Failure records a section that could not be built.
type Failure struct {
	Section SectionKind
	Err     error
}

// Document is the template independent projection of a record.
type Document struct {
	Header   Header
	Sections []Section
	Failures []Failure
}

// Section returns the section of the given kind, if present.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, section := range d.Sections {
		if section.Kind == kind {
			return section, true
		}
	}
	return Section{}, false
}

// Has reports whether the document contains a section of kind.
func (d Document) Has(kind SectionKind) bool {
	_, ok := d.Section(kind)
	return ok
}

// Options tunes document construction.
type Options struct {
	// Seed drives the decorative skill percentages.
	Seed     int64
	Builders []SectionBuilder
	Logger   cv.Logger
}

// SectionBuilder produces one section from a record.
type SectionBuilder struct {
	Kind  SectionKind
	Build func(r cv.Record, opts Options) (Section, error)
}

// Build projects r into a Document. Each section is built in isolation: a builder that
// errors or panics is recorded in Failures and its section is left out.
func Build(r cv.Record, opts Options) Document {
	logger := cv.LoggerOr(opts.Logger)
	builders := opts.Builders
	if len(builders) == 0 {
		builders = DefaultBuilders()
	}

	doc := Document{Header: buildHeader(r.Personal)}
	for _, builder := range builders {
		section, err := isolate(builder, r, opts)
		if err != nil {
			logger.Warnf("cv section %s skipped: %v", builder.Kind, err)
			doc.Failures = append(doc.Failures, Failure{Section: builder.Kind, Err: err})
			continue
		}
		if section.Empty() {
			continue
		}
		if section.Kind == "" {
			section.Kind = builder.Kind
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func isolate(builder SectionBuilder, r cv.Record, opts Options) (section Section, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			section = Section{}
			err = cv.NewError(cv.KindInternal, "section render panicked", fmt.Errorf("%v", rec))
		}
	}()
	if builder.Build == nil {
		return Section{}, nil
	}
	return builder.Build(r, opts)
}

func buildHeader(p cv.Personal) Header {
	header := Header{
		FullName:   p.FullName,
		FirstName:  firstName(p.FullName),
		Profession: p.Profession,
		Photo:      p.Photo,
	}
	if p.Email != "" {
		header.Contacts = append(header.Contacts, Contact{Kind: "email", Value: p.Email, Icon: "envelope", Href: "mailto:" + p.Email})
	}
	if p.Phone != "" {
		header.Contacts = append(header.Contacts, Contact{Kind: "phone", Value: p.Phone, Icon: "phone", Href: "tel:" + p.Phone})
	}
	if p.Location != "" {
		header.Contacts = append(header.Contacts, Contact{Kind: "location", Value: p.Location, Icon: "map-marker-alt"})
	}
	return header
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
