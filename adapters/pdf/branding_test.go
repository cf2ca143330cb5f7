package exportpdf

import (
	"strings"
	"testing"
)

func TestStripBranding(t *testing.T) {
	page := `<html><body><div id="cv-preview">
<h1 class="cv-name">Marie Dubois</h1>
<span class="logo-icon">*</span><span class="logo-text">CVBuilder</span>
<footer class="cv-footer">
  <p class="footer-info">Portfolio: https://marie.dev</p>
  <p class="footer-branding">Généré avec CV Builder</p>
</footer>
<div class="quality-badge">© CV Builder Pro</div>
<p>Visit www.cvbuilder.example</p>
</div></body></html>`

	out, removed, err := StripBranding(page)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if removed == 0 {
		t.Fatalf("expected nodes to be removed")
	}
	for _, marker := range []string{"CVBuilder", "CV Builder", "Généré avec", "www.cvbuilder", "logo-icon"} {
		if strings.Contains(out, marker) {
			t.Fatalf("expected %q to be stripped:\n%s", marker, out)
		}
	}
	if !strings.Contains(out, "Marie Dubois") || !strings.Contains(out, "https://marie.dev") {
		t.Fatalf("expected CV content to survive:\n%s", out)
	}
}

func TestStripBrandingLeavesCleanPagesAlone(t *testing.T) {
	out, removed, err := StripBranding(`<html><body><div id="cv-preview"><p>Hello</p></div></body></html>`)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if removed != 0 || !strings.Contains(out, "<p>Hello</p>") {
		t.Fatalf("unexpected result %d %s", removed, out)
	}
}
