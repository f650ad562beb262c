// Package synonyms looks up synonym candidates for comment words and finds
// comments in the same file that use each other's synonyms.
package synonyms

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kljensen/snowball/english"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/coality/pkg/alg/lru"
)

// ErrMalformedLexicon is returned for a thesaurus line without a candidate.
var ErrMalformedLexicon = errors.New("malformed lexicon line")

//go:embed data/stopwords.txt
var stopwordsData string

// Lexicon returns raw synonym candidates for a word.
type Lexicon interface {
	Lookup(word string) []string
}

// MapLexicon is an in-memory word to candidates table.
type MapLexicon map[string][]string

// Lookup implements Lexicon.
func (m MapLexicon) Lookup(word string) []string {
	return m[word]
}

// LoadLexicon reads a thesaurus file. Files ending in .yaml or .yml hold a
// word to candidate-list mapping; any other file is read as TSV where each
// line is a word followed by tab-separated candidates.
func LoadLexicon(path string) (MapLexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAMLLexicon(f)
	default:
		return ReadTSVLexicon(f)
	}
}

// ReadYAMLLexicon decodes a YAML mapping of word to candidates.
func ReadYAMLLexicon(r io.Reader) (MapLexicon, error) {
	lex := MapLexicon{}

	err := yaml.NewDecoder(r).Decode(&lex)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	return lex, nil
}

// ReadTSVLexicon parses tab-separated lines. Blank lines and lines starting
// with # are skipped; repeated words accumulate candidates.
func ReadTSVLexicon(r io.Reader) (MapLexicon, error) {
	lex := MapLexicon{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedLexicon, lineNo, line)
		}

		word := strings.TrimSpace(fields[0])
		for _, cand := range fields[1:] {
			if cand = strings.TrimSpace(cand); cand != "" {
				lex[word] = append(lex[word], cand)
			}
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	return lex, nil
}

// Stem returns the Porter2 stem of an English word.
func Stem(word string) string {
	return english.Stem(word, false)
}

// Candidates returns the synonyms of word from lex, excluding the word
// itself, multi-word entries containing an underscore, duplicates and
// candidates sharing the word's stem.
func Candidates(lex Lexicon, word string) []string {
	stem := Stem(word)
	out := []string{}

	for _, cand := range lex.Lookup(word) {
		if cand == word || strings.Contains(cand, "_") || slices.Contains(out, cand) {
			continue
		}

		if Stem(cand) == stem {
			continue
		}

		out = append(out, cand)
	}

	return out
}

// CandidateCache memoizes Candidates for a lexicon. It is safe for
// concurrent use.
type CandidateCache struct {
	lex   Lexicon
	cache *lru.Cache[string, []string]
}

// NewCandidateCache wraps lex with an LRU of at most size filtered lists.
func NewCandidateCache(lex Lexicon, size int) *CandidateCache {
	return &CandidateCache{lex: lex, cache: lru.New[string, []string](size)}
}

// Lookup implements Lexicon with the raw, unfiltered candidates.
func (c *CandidateCache) Lookup(word string) []string {
	return c.lex.Lookup(word)
}

// Candidates returns the cached filtered candidates of word.
func (c *CandidateCache) Candidates(word string) []string {
	return c.cache.GetOrCompute(word, func(w string) []string {
		return Candidates(c.lex, w)
	})
}

// Stats reports cache hits and misses.
func (c *CandidateCache) Stats() lru.Stats {
	return c.cache.Stats()
}

// Stopwords is a set of words excluded from synonym analysis.
type Stopwords map[string]struct{}

// DefaultStopwords returns the built-in English stop-word list.
func DefaultStopwords() Stopwords {
	return ParseStopwords(stopwordsData)
}

// LoadStopwords reads a newline-separated stop-word file.
func LoadStopwords(path string) (Stopwords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}

	return ParseStopwords(string(data)), nil
}

// ParseStopwords builds a set from whitespace-separated words.
func ParseStopwords(text string) Stopwords {
	fields := strings.Fields(text)
	set := make(Stopwords, len(fields))

	for _, w := range fields {
		set[strings.ToLower(w)] = struct{}{}
	}

	return set
}

// Contains reports whether word is a stop word.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]

	return ok
}

// WordSet returns the sorted distinct words that are not stop words.
func WordSet(words []string, stopwords Stopwords) []string {
	out := make([]string, 0, len(words))

	for _, w := range words {
		if !stopwords.Contains(w) {
			out = append(out, w)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// Lookup builds the per-comment synonym table: every word of the word set
// mapped to its filtered candidates.
func Lookup(lex Lexicon, words []string, stopwords Stopwords) map[string][]string {
	set := WordSet(words, stopwords)
	table := make(map[string][]string, len(set))

	cached, isCached := lex.(*CandidateCache)

	for _, w := range set {
		if isCached {
			table[w] = slices.Clone(cached.Candidates(w))

			continue
		}

		table[w] = Candidates(lex, w)
	}

	return table
}
