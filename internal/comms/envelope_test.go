package comms

import (
	"strings"
	"testing"

	"stridewms/internal"
)

func testBrand() internal.BrandProfile {
	return internal.BrandProfile{
		TenantName:   "Acme Warehousing",
		CompanyName:  "Acme Warehousing LLC",
		AccentColor:  "#aa3366",
		PortalURL:    "https://portal.example.com",
		SupportEmail: "support@example.com",
	}
}

func TestBuildEmailHTML(t *testing.T) {
	html := BuildEmailHTML(testBrand(), "Welcome", "<p>body text</p>", &CTA{Label: "Open portal", Link: "https://portal.example.com"})

	for _, want := range []string{"#aa3366", "Welcome", "body text", "Open portal", "Acme Warehousing LLC", "support@example.com"} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in output", want)
		}
	}
}

func TestBuildEmailHTMLNoCTAWhenLabelEmpty(t *testing.T) {
	// An empty label suppresses the button even when a CTA is supplied.
	html := BuildEmailHTML(testBrand(), "Welcome", "body", &CTA{Label: "", Link: "https://portal.example.com"})
	if strings.Contains(html, "border-radius:6px") {
		t.Fatalf("button markup present without label")
	}

	html = BuildEmailHTML(testBrand(), "Welcome", "body", &CTA{Label: "Go", Link: "  "})
	if strings.Contains(html, "border-radius:6px") {
		t.Fatalf("button markup present without link")
	}

	html = BuildEmailHTML(testBrand(), "Welcome", "body", nil)
	if strings.Contains(html, "border-radius:6px") {
		t.Fatalf("button markup present without cta")
	}
}

func TestBuildEmailHTMLLogoFallback(t *testing.T) {
	brand := testBrand()
	html := BuildEmailHTML(brand, "", "body", nil)
	if strings.Contains(html, "<img") {
		t.Fatalf("img rendered without logo url")
	}
	if !strings.Contains(html, "Acme Warehousing") {
		t.Fatalf("tenant name fallback missing")
	}

	brand.LogoURL = "https://cdn.example.com/logo.png"
	html = BuildEmailHTML(brand, "", "body", nil)
	if !strings.Contains(html, `src="https://cdn.example.com/logo.png"`) {
		t.Fatalf("logo img missing")
	}
}

func TestBuildEmailHTMLDefaultAccent(t *testing.T) {
	brand := testBrand()
	brand.AccentColor = ""
	html := BuildEmailHTML(brand, "", "body", nil)
	if !strings.Contains(html, defaultAccent) {
		t.Fatalf("default accent not applied")
	}
}
