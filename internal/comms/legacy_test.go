package comms

import (
	"strings"
	"testing"
)

func TestIsLegacyHTML(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"full document", `<!DOCTYPE html><html><body><table><tr><td>hi</td></tr></table></body></html>`, true},
		{"html and body only", `<html><body>Hello {{recipient_name}}</body></html>`, true},
		{"plain text", "Hello {{recipient_name}},\n\nYour order shipped.", false},
		{"text with inline markup", "Your order **shipped**. [Track it](https://x.example)", false},
		{"stray style attr", `Reply soon <span style="color:red">please</span>`, false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		if got := IsLegacyHTML(tc.body); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

const legacyDoc = `<!DOCTYPE html>
<html>
<head><style>body { font-family: Arial; }</style></head>
<body>
  <table width="600"><tr><td>
    <h2>Your shipment is on the way</h2>
    <p>Hi {{recipient_name}}, order {{order_number}} left the warehouse.</p>
    <a href="mailto:help@example.com">help@example.com</a>
    <a href="https://portal.example.com/track">Track shipment</a>
  </td></tr></table>
  <script>window.track()</script>
</body>
</html>`

func TestMigrateLegacy(t *testing.T) {
	ex := MigrateLegacy(legacyDoc)

	if ex.Heading != "Your shipment is on the way" {
		t.Fatalf("heading = %q", ex.Heading)
	}
	if ex.CTALabel != "Track shipment" || ex.CTALink != "https://portal.example.com/track" {
		t.Fatalf("cta = %q %q", ex.CTALabel, ex.CTALink)
	}
	if !strings.Contains(ex.Body, "order {{order_number}} left the warehouse") {
		t.Fatalf("body lost token text: %q", ex.Body)
	}
	if strings.Contains(ex.Body, "window.track") {
		t.Fatalf("script text leaked into body: %q", ex.Body)
	}
	if strings.Contains(ex.Body, "font-family") {
		t.Fatalf("style text leaked into body: %q", ex.Body)
	}
	if strings.Contains(ex.Body, "Your shipment is on the way") {
		t.Fatalf("heading duplicated in body: %q", ex.Body)
	}
}

func TestMigrateLegacyNoHeadingNoCTA(t *testing.T) {
	ex := MigrateLegacy(`<html><body><p>Just a paragraph.</p></body></html>`)
	if ex.Heading != "" || ex.CTALabel != "" || ex.CTALink != "" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
	if ex.Body != "Just a paragraph." {
		t.Fatalf("body = %q", ex.Body)
	}
}
