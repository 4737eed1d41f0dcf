package comms

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stridewms/internal/util"
)

// IsLegacyHTML classifies a stored template body as the old standalone
// HTML-document format rather than the newer plain-text-with-tokens one.
// Marker-based scoring; a heuristic, not a parser.
func IsLegacyHTML(body string) bool {
	lower := strings.ToLower(body)

	score := 0.0
	if strings.Contains(lower, "<!doctype") {
		score += 0.5
	}
	if strings.Contains(lower, "<html") {
		score += 0.4
	}
	if strings.Contains(lower, "<body") {
		score += 0.4
	}
	if strings.Contains(lower, "<table") {
		score += 0.2
	}
	if strings.Contains(lower, "style=") {
		score += 0.1
	}

	return score >= 0.5
}

type LegacyExtract struct {
	Heading  string
	CTALabel string
	CTALink  string
	Body     string
}

// MigrateLegacy pulls a best-effort heading, CTA label and CTA link out of
// a legacy HTML document and flattens the rest to plain text. Lossy by
// contract; callers must keep the raw original retrievable.
func MigrateLegacy(raw string) LegacyExtract {
	out := LegacyExtract{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		out.Body = util.CollapseSpaces(raw)
		return out
	}

	heading := doc.Find("h1, h2, h3").First()
	out.Heading = util.CollapseSpaces(heading.Text())

	// First link with an href passes for the CTA; legacy templates carried
	// at most one button.
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		label := util.CollapseSpaces(a.Text())
		if strings.HasPrefix(strings.ToLower(href), "mailto:") || label == "" {
			return true
		}
		out.CTALabel = label
		out.CTALink = href
		return false
	})

	doc.Find("script, style").Remove()
	heading.Remove()
	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}
	if out.CTALabel != "" {
		text = strings.ReplaceAll(text, out.CTALabel, " ")
	}
	out.Body = util.CollapseSpaces(text)

	return out
}
