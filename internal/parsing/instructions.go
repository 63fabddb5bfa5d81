package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	instructionHeadingRe = regexp.MustCompile(`(?i)^\s*(?:preparation|directions|instructions|method|steps)\b\s*:?\s*`)
	paragraphBreakRe     = regexp.MustCompile(`\n\s*\n+`)
)

// RemoveInstructionHeading drops a leading "Preparation:", "Directions" and
// similar heading from value.
func RemoveInstructionHeading(value string) string {
	return instructionHeadingRe.ReplaceAllString(value, "")
}

// SplitInstructions splits a block of instructions into steps. Paragraphs
// separate steps; a single paragraph is split on sentence ends instead.
func SplitInstructions(value string) []string {
	if value == "" {
		return []string{}
	}
	cleaned := strings.TrimSpace(RemoveInstructionHeading(value))

	steps := splitPattern(cleaned, paragraphBreakRe)
	if len(steps) == 1 {
		steps = keepNonEmpty(splitSentences(cleaned))
	}
	return steps
}

// splitSentences cuts after a "." that is followed by whitespace and an
// upper-case letter.
func splitSentences(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		parts = append(parts, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	return append(parts, string(runes[start:]))
}
