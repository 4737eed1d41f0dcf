package comms

import (
	"fmt"
	"html"
	"strings"

	"stridewms/internal"
)

type CTA struct {
	Label string
	Link  string
}

const defaultAccent = "#1f6feb"

// BuildEmailHTML wraps an already-rendered heading and body in the branded
// envelope: accent header bar with logo (tenant name as text fallback),
// body section, optional centered CTA button, divider and footer. Accent
// color and logo come from the tenant's brand profile.
func BuildEmailHTML(brand internal.BrandProfile, heading, bodyHTML string, cta *CTA) string {
	accent := strings.TrimSpace(brand.AccentColor)
	if accent == "" {
		accent = defaultAccent
	}

	header := fmt.Sprintf(`<span style="color:#ffffff;font-size:20px;font-weight:bold;">%s</span>`, html.EscapeString(brand.TenantName))
	if strings.TrimSpace(brand.LogoURL) != "" {
		header = fmt.Sprintf(`<img src="%s" alt="%s" style="max-height:48px;">`, brand.LogoURL, html.EscapeString(brand.TenantName))
	}

	button := ""
	if cta != nil && strings.TrimSpace(cta.Label) != "" && strings.TrimSpace(cta.Link) != "" {
		button = fmt.Sprintf(`
        <div style="text-align:center;margin:28px 0;">
          <a href="%s" style="background-color:%s;color:#ffffff;padding:12px 28px;border-radius:6px;text-decoration:none;font-weight:bold;display:inline-block;">%s</a>
        </div>`, cta.Link, accent, html.EscapeString(cta.Label))
	}

	headingBlock := ""
	if strings.TrimSpace(heading) != "" {
		headingBlock = fmt.Sprintf(`<h1 style="font-size:22px;margin:0 0 16px;color:#1a1a1a;">%s</h1>`, html.EscapeString(heading))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;color:#333;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background-color:%s;padding:20px;text-align:center;">%s</div>
    <div style="padding:28px;">
      %s
      <div style="font-size:15px;line-height:1.6;">%s</div>
      %s
    </div>
    <hr style="border:none;border-top:1px solid #e2e4e8;margin:0 28px;">
    <div style="padding:20px 28px;font-size:12px;color:#8a8f98;text-align:center;">
      %s &middot; <a href="%s" style="color:#8a8f98;">%s</a><br>
      Questions? <a href="mailto:%s" style="color:#8a8f98;">%s</a>
    </div>
  </div>
</body>
</html>`,
		accent, header,
		headingBlock, bodyHTML, button,
		html.EscapeString(brand.CompanyName), brand.PortalURL, html.EscapeString(brand.PortalURL),
		brand.SupportEmail, html.EscapeString(brand.SupportEmail))
}
