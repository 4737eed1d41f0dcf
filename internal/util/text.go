package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reNonCode  = regexp.MustCompile(`[^A-Z0-9]+`)
	reCurrency = regexp.MustCompile(`[$€£\s]`)
)

// CollapseSpaces trims and squeezes runs of whitespace to single spaces.
func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CanonicalHeader lowercases and space-collapses a raw column header for
// alias-table lookup. Underscores and dashes are treated as spaces so that
// "Billing Unit", "billing_unit" and "billing-unit" all canonicalize the same.
func CanonicalHeader(input string) string {
	s := strings.ToLower(input)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return CollapseSpaces(s)
}

// NormalizeServiceCode converts free-form service codes to UPPER_SNAKE_CASE.
func NormalizeServiceCode(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = reNonCode.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ParseBool accepts "true"/"yes"/"1" (case-insensitive) as true, anything
// else as false.
func ParseBool(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// ParseRate parses a money-ish cell: currency symbols stripped, comma
// accepted as decimal separator, thousand groupings removed.
func ParseRate(input string) (float64, bool) {
	compact := reCurrency.ReplaceAllString(strings.ReplaceAll(input, " ", " "), "")
	if compact == "" {
		return 0, false
	}
	compact = normalizeNumericToken(compact)
	parsed, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func normalizeNumericToken(token string) string {
	if regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`).MatchString(token) {
		return strings.ReplaceAll(token, ".", "")
	}
	if regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`).MatchString(token) {
		return strings.ReplaceAll(token, ",", "")
	}
	if strings.Contains(token, ",") && !strings.Contains(token, ".") {
		return strings.ReplaceAll(token, ",", ".")
	}
	return strings.ReplaceAll(token, ",", "")
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
