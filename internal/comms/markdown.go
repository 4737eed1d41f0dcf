package comms

import (
	"html"
	"regexp"
	"strings"
)

var (
	// Bold must rewrite before italic: the single-asterisk pattern is a
	// substring of the double-asterisk one.
	reBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic = regexp.MustCompile(`\*([^*]+)\*`)
	reLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// RenderMarkdownLite escapes HTML-special characters, then rewrites
// **bold**, *italic* and [text](url), in that fixed order. Used only when
// building HTML previews and email bodies; SMS bodies stay plain.
func RenderMarkdownLite(s string) string {
	out := html.EscapeString(s)
	out = reBold.ReplaceAllString(out, "<strong>$1</strong>")
	out = reItalic.ReplaceAllString(out, "<em>$1</em>")
	out = reLink.ReplaceAllString(out, `<a href="$2">$1</a>`)
	out = strings.ReplaceAll(out, "\n", "<br>\n")
	return out
}
