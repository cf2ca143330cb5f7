package exportpdf

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-cvbuilder/cv"
)

var (
	brandingMarkers = []string{"CVBuilder", "CV Builder", "Généré avec", "www.cvbuilder"}
	footerMarkers   = []string{"Builder", "©", "Créez votre CV"}
)

const (
	brandingSelectors = ".logo-icon, .logo-text, .footer-branding"
	footerSelectors   = ".cv-footer, .footer, .executive-badge, .quality-badge, .logo-subtitle"
)

// StripBranding removes application attribution from a captured page: logo nodes,
// leaf elements mentioning the product, then footers that still carry a marker. It
// returns the cleaned page and how many nodes were removed.
func StripBranding(page string) (string, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", 0, cv.NewError(cv.KindInternal, "parse captured page", err)
	}

	removed := 0
	remove := func(_ int, s *goquery.Selection) {
		s.Remove()
		removed++
	}

	doc.Find(brandingSelectors).Each(remove)
	doc.Find("body *").Each(func(i int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		if containsAny(s.Text(), brandingMarkers) {
			remove(i, s)
		}
	})
	doc.Find(footerSelectors).Each(func(i int, s *goquery.Selection) {
		if containsAny(s.Text(), footerMarkers) {
			remove(i, s)
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", removed, cv.NewError(cv.KindInternal, "serialize captured page", err)
	}
	return out, removed, nil
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
