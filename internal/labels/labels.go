// Package labels turns property names into display labels.
package labels

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// FromName converts a property name into a human-friendly label. It splits on
// underscores, dashes, dots, and camelCase boundaries, keeping acronyms such
// as "ID" or "URL" intact.
func FromName(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) []string {
	runes := []rune(input)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes, i) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

func isBoundary(runes []rune, index int) bool {
	prev, cur := runes[index-1], runes[index]
	switch {
	case isLower(prev) && isUpper(cur):
		return true
	case isLetter(prev) && isDigit(cur), isDigit(prev) && isLetter(cur):
		return true
	case isUpper(prev) && isUpper(cur) && index+1 < len(runes) && isLower(runes[index+1]):
		// "HTTPServer" splits before the last capital.
		return true
	}
	return false
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	if isAcronym(word) {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !isUpper(r) && !isDigit(r) {
			return false
		}
	}
	return true
}
