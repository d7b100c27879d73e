package classify

import "strings"

// NormalizeText builds the text rules are matched against:
// the lowercased body, a space, then the lowercased subject.
func NormalizeText(subject, body string) string {
	return strings.ToLower(body) + " " + strings.ToLower(subject)
}
