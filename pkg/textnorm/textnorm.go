// Package textnorm turns raw comment text into the normalized form used for
// tokenization, classification and language detection.
package textnorm

import (
	"strings"
	"unicode"
)

// specialCharacters are replaced by a space during normalization.
const specialCharacters = "-$%^&*()_+|~=`{}[]\";'<>/"

// Normalize applies the normalization steps in their fixed order:
// abbreviation removal, newline flattening, call splitting, camel-case
// splitting, digit stripping, special-character removal and whitespace
// collapsing. It is pure and total.
func Normalize(text string, abbreviations []string) string {
	out := RemoveAbbreviations(text, abbreviations)
	out = strings.ReplaceAll(out, "\n", " ")
	out = SplitFunctionCalls(out)
	out = SplitCamelCase(out)
	out = RemoveDigits(out)
	out = RemoveSpecialCharacters(out)

	return CollapseSpaces(out)
}

// RemoveAbbreviations drops whitespace-delimited tokens that equal one of
// the given abbreviations. Text without abbreviations is returned unchanged.
func RemoveAbbreviations(text string, abbreviations []string) string {
	if len(abbreviations) == 0 {
		return text
	}

	drop := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		drop[a] = struct{}{}
	}

	fields := strings.Fields(text)
	kept := fields[:0]

	for _, f := range fields {
		if _, ok := drop[f]; !ok {
			kept = append(kept, f)
		}
	}

	return strings.Join(kept, " ")
}

// SplitFunctionCalls replaces a dot that sits between two word characters
// with a space, so "comment.evaluate" becomes "comment evaluate".
func SplitFunctionCalls(text string) string {
	runes := []rune(text)

	var b strings.Builder

	b.Grow(len(text))

	for i, r := range runes {
		if r == '.' && i > 0 && i+1 < len(runes) && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
			b.WriteRune(' ')

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// SplitCamelCase inserts a space before an uppercase ASCII letter that
// follows a lowercase one, or before an uppercase letter (not at the start)
// that is followed by a lowercase one: "XMLParserFactory" -> "XML Parser Factory".
func SplitCamelCase(text string) string {
	runes := []rune(text)

	var b strings.Builder

	b.Grow(len(text) + len(runes)/4)

	for i, r := range runes {
		if isUpper(r) && i > 0 {
			afterLower := isLower(runes[i-1])
			beforeLower := i+1 < len(runes) && isLower(runes[i+1])

			if afterLower || beforeLower {
				b.WriteRune(' ')
			}
		}

		b.WriteRune(r)
	}

	return b.String()
}

// RemoveDigits strips every decimal digit.
func RemoveDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}

		return r
	}, text)
}

// RemoveSpecialCharacters replaces code punctuation with spaces.
func RemoveSpecialCharacters(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(specialCharacters, r) {
			return ' '
		}

		return r
	}, text)
}

// CollapseSpaces reduces every whitespace run to one space and trims the ends.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}
