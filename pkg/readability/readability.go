// Package readability tokenizes normalized comment text and derives the
// Flesch-Kincaid grade level, Flesch reading ease and Fog index scores.
package readability

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`[a-z][-'a-z]*`)
	validHyphen     = regexp.MustCompile(`[a-z]{2,}-[a-z]{2,}`)
	syllablePattern = regexp.MustCompile(`[bcdfghjklmnpqrstvwxz]*[aeiouy]+[bcdfghjklmnpqrstvwxz]*`)
)

// Score coefficients.
const (
	complexSyllables = 3

	fkglSyllableScale = 11.8
	fkglWordScale     = 0.39
	fkglOffset        = 15.59

	freBase          = 206.835
	freWordScale     = 1.015
	freSyllableScale = 84.6

	fogPercent = 100.0
	fogScale   = 0.41
)

// Stats is the tokenization and scoring result for one text.
type Stats struct {
	Words        []string
	ComplexWords []string
	Sentences    []string
	Syllables    []string

	FleschKincaidGradeLevel float64
	FleschReadingEase       float64
	FogIndex                float64
}

// Analyze tokenizes text into words, sentences and syllable groups and
// computes the three readability scores. A nil splitter uses the default.
func Analyze(text string, splitter SentenceSplitter) Stats {
	if splitter == nil {
		splitter = DefaultSplitter()
	}

	st := Stats{
		Words:        Words(text),
		Sentences:    splitter.Split(text),
		ComplexWords: []string{},
		Syllables:    []string{},
	}

	for _, w := range st.Words {
		groups := Syllables(w)
		st.Syllables = append(st.Syllables, groups...)

		if len(groups) >= complexSyllables {
			st.ComplexWords = append(st.ComplexWords, w)
		}
	}

	st.FleschKincaidGradeLevel, st.FleschReadingEase, st.FogIndex = Scores(
		len(st.Sentences), len(st.Words), len(st.Syllables), len(st.ComplexWords))

	return st
}

// Words extracts lowercase word tokens. Tokens without a vowel and tokens
// with a hyphen that does not join two runs of at least two letters are
// dropped.
func Words(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(strings.TrimSpace(text)), -1)
	words := make([]string, 0, len(raw))

	for _, tok := range raw {
		if !hasVowel(tok) {
			continue
		}

		if strings.Index(tok, "-") > 0 && !validHyphen.MatchString(tok) {
			continue
		}

		words = append(words, tok)
	}

	return words
}

// Letters that never sit next to a syllabic y in vowel-less English words.
const (
	strictVowels   = "aeiou"
	nonSyllabicAdj = "qxyz"
)

// hasVowel reports whether tok has a vowel. Besides a, e, i, o and u, a y
// counts when it is not word-initial, follows a consonant and neither
// neighbour is q, x, y or z: "rhythm", "sync" and "my" are words, "xyz"
// and "yy" are not.
func hasVowel(tok string) bool {
	for i := range len(tok) {
		c := tok[i]
		if strings.IndexByte(strictVowels, c) >= 0 {
			return true
		}

		if c == 'y' && syllabicY(tok, i) {
			return true
		}
	}

	return false
}

func syllabicY(tok string, i int) bool {
	if i == 0 {
		return false
	}

	prev := tok[i-1]
	if prev < 'a' || prev > 'z' || strings.IndexByte(nonSyllabicAdj, prev) >= 0 {
		return false
	}

	return i+1 == len(tok) || strings.IndexByte(nonSyllabicAdj, tok[i+1]) < 0
}

// Syllables splits a word into consonant-vowel-consonant groups. A trailing
// lone "e" group is merged into the group before it.
func Syllables(word string) []string {
	groups := syllablePattern.FindAllString(strings.ToLower(word), -1)

	if n := len(groups); n > 1 && groups[n-1] == "e" {
		groups[n-2] += "e"
		groups = groups[:n-1]
	}

	return groups
}

// Scores computes the grade level, reading ease and fog index from the
// sentence, word, syllable and complex-word counts. All three are zero when
// there are no sentences or no words.
func Scores(sentences, words, syllables, complexWords int) (fkgl, fre, fog float64) {
	if sentences == 0 || words == 0 {
		return 0, 0, 0
	}

	wordsPerSentence := float64(words) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(words)
	complexRatio := float64(complexWords) / float64(words)

	fkgl = fkglSyllableScale*syllablesPerWord + fkglWordScale*wordsPerSentence - fkglOffset
	fre = freBase - freWordScale*wordsPerSentence - freSyllableScale*syllablesPerWord
	fog = (wordsPerSentence + complexRatio*fogPercent) * fogScale

	return fkgl, fre, fog
}
