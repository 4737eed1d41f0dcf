package comms

import (
	"regexp"
	"strings"
)

// Render replaces every {{key}} and [[key]] occurrence with its mapped
// value. The two bracket styles are aliases for the same namespace. Keys
// are case-sensitive; tokens with no mapping pass through verbatim. Pure
// and reentrant, safe to call on every keystroke of a live preview.
func Render(s string, ctx map[string]string) string {
	for key, value := range ctx {
		s = strings.ReplaceAll(s, "{{"+key+"}}", value)
		s = strings.ReplaceAll(s, "[["+key+"]]", value)
	}
	return s
}

var tokenPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}|\[\[([A-Za-z0-9_]+)\]\]`)

// TokensIn lists the distinct token names referenced by a template body, in
// first-appearance order.
func TokensIn(s string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// UnknownTokens reports referenced tokens missing from the catalog.
func UnknownTokens(s string, catalog map[string]string) []string {
	out := []string{}
	for _, name := range TokensIn(s) {
		if _, ok := catalog[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
