package reference

import (
	"regexp"
	"strconv"
	"strings"
)

var tokenPattern = regexp.MustCompile("[a-z0-9]+")

// FormatCode normalizes an HS code into its canonical dotted form.
// All non-digit characters are stripped, the remainder is truncated to 10
// digits and grouped as 4.2.2.2. Inputs with no digits have no canonical
// form and yield an empty string.
func FormatCode(input string) string {
	digits := digitsOf(input)
	if digits == "" {
		return ""
	}

	if len(digits) > 10 {
		digits = digits[:10]
	}

	switch {
	case len(digits) > 8:
		return digits[:4] + "." + digits[4:6] + "." + digits[6:8] + "." + digits[8:]
	case len(digits) > 6:
		return digits[:4] + "." + digits[4:6] + "." + digits[6:]
	case len(digits) > 4:
		return digits[:4] + "." + digits[4:]
	default:
		return digits
	}
}

// digitsOf strips everything except ASCII digits.
func digitsOf(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeHeader reduces a header cell to letters and digits, lowercased,
// so that "HS Code", "hs_code" and "HSCode" all compare equal.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tokenize splits a query into deduplicated lowercase alphanumeric runs of
// length >= 2.
func tokenize(input string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(input), -1)
	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		tokens = append(tokens, m)
	}
	return tokens
}

// isZeroLike reports whether a cell value is numerically zero once thousands
// separators and percent signs are removed.
func isZeroLike(value string) bool {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	if cleaned == "" {
		return true
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	return err == nil && parsed == 0
}

// filterColumns drops blank and zero-like cells from a row's column map.
func filterColumns(columns map[string]string) map[string]string {
	out := make(map[string]string, len(columns))
	for key, value := range columns {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || isZeroLike(trimmed) {
			continue
		}
		out[key] = trimmed
	}
	return out
}
