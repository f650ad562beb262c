package synonyms

import (
	"context"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
)

// Entry is one found comment as seen by the synonym pass.
type Entry struct {
	Path     string
	Position comment.Position
	Ignored  bool
	// Synonyms maps each word of the comment's word set to its candidates.
	Synonyms map[string][]string
}

// Match records that Word, used in the comment at PosWord, is a synonym of
// Synonym, used in another comment of the same file at PosSynonym.
type Match struct {
	Word       string           `json:"word"`
	Synonym    string           `json:"synonym"`
	PosWord    comment.Position `json:"pos_word"`
	PosSynonym comment.Position `json:"pos_synonym"`
}

// Result is the synonym outcome of one entry.
type Result struct {
	Matches []Match
}

// Count is the number of matches.
func (r Result) Count() int {
	return len(r.Matches)
}

// Analyze compares every pair of non-ignored entries within each file and
// returns one Result per entry, index-aligned with entries. Files are
// processed concurrently on up to workers goroutines; a file's results are
// written only after all of its pairs are compared.
func Analyze(ctx context.Context, entries []Entry, workers int) ([]Result, error) {
	results := make([]Result, len(entries))
	byFile := make(map[string][]int)

	for i, e := range entries {
		byFile[e.Path] = append(byFile[e.Path], i)
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, path := range slices.Sorted(maps.Keys(byFile)) {
		members := byFile[path]

		g.Go(func() error {
			ctxErr := ctx.Err()
			if ctxErr != nil {
				return ctxErr
			}

			fileResults := analyzeFile(entries, members)

			for k, idx := range members {
				results[idx] = fileResults[k]
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

func analyzeFile(entries []Entry, members []int) []Result {
	out := make([]Result, len(members))

	for k, a := range members {
		ea := entries[a]
		if ea.Ignored {
			continue
		}

		for _, w := range sortedWords(ea.Synonyms) {
			for _, b := range members {
				eb := entries[b]
				if a == b || eb.Ignored {
					continue
				}

				for _, w2 := range sortedWords(eb.Synonyms) {
					if w2 != w && slices.Contains(eb.Synonyms[w2], w) {
						out[k].Matches = append(out[k].Matches, Match{
							Word:       w,
							Synonym:    w2,
							PosWord:    ea.Position,
							PosSynonym: eb.Position,
						})
					}
				}
			}
		}
	}

	return out
}

func sortedWords(table map[string][]string) []string {
	return slices.Sorted(maps.Keys(table))
}
