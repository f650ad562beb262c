package rater

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/langdetect"
	"github.com/Sumatoshi-tech/coality/pkg/readability"
	"github.com/Sumatoshi-tech/coality/pkg/synonyms"
)

var errPredict = errors.New("model exploded")

type stubPredictor struct {
	label string
	proba float64
	err   error
	calls atomic.Int32
	texts chan string
}

func (s *stubPredictor) Predict(_ context.Context, text string) (string, float64, error) {
	s.calls.Add(1)

	if s.texts != nil {
		s.texts <- text
	}

	return s.label, s.proba, s.err
}

func newTestRater(p *stubPredictor, lex synonyms.Lexicon) *Rater {
	return New(Options{
		Workers:   2,
		Splitter:  readability.RegexpSplitter{},
		Detector:  langdetect.Fixed{Code: "en", Confidence: 0.9},
		Predictor: p,
		Lexicon:   lex,
	})
}

func TestRateOne_FunctionComment(t *testing.T) {
	t.Parallel()

	p := &stubPredictor{label: "summary", proba: 0.8}
	r := newTestRater(p, nil)

	c := &comment.Comment{ID: 1, Type: comment.TypeFunction, Text: "Returns the user name.", Handle: "getUserName"}
	require.NoError(t, r.RateOne(context.Background(), c))

	assert.Equal(t, "Returns the user name.", c.ProcessedText)
	assert.Equal(t, []string{"returns", "the", "user", "name"}, c.Words)
	assert.Equal(t, []string{"Returns the user name."}, c.Sentences)
	assert.Equal(t, "summary", c.Label)
	assert.InDelta(t, 0.8, c.LabelProbability, 1e-9)
	assert.Equal(t, "en", c.Language)
	assert.InDelta(t, 0.9, c.LanguageProbability, 1e-9)
	require.NotNil(t, c.CoherenceCoefficient)
	assert.InDelta(t, 0.5, *c.CoherenceCoefficient, 1e-9)
	assert.InDelta(t, 3.67, c.FleschKincaidGradeLevel, 1e-9)
	assert.InDelta(t, 75.875, c.FleschReadingEaseLevel, 1e-9)
	assert.InDelta(t, 1.64, c.FogIndex, 1e-9)
	assert.Empty(t, c.Abbreviations)
	assert.Empty(t, c.Synonyms)
	assert.NotNil(t, c.Synonyms)
	assert.False(t, c.IsCode)
	assert.GreaterOrEqual(t, c.TimeMillis, 0.0)
}

func TestRateOne_AbbreviationsAndPunctuation(t *testing.T) {
	t.Parallel()

	r := newTestRater(&stubPredictor{}, nil)

	c := &comment.Comment{ID: 2, Type: comment.TypeInline, Text: "Parse the JSON body, e.g. from HTTP? Really?! Yes!"}
	require.NoError(t, r.RateOne(context.Background(), c))

	assert.Equal(t, []string{"JSON", "e.g."}, c.Abbreviations)
	assert.NotContains(t, c.ProcessedText, "JSON")
	assert.Equal(t, 2, c.QuestionMarks)
	assert.Equal(t, 2, c.ExclamationMarks)
	assert.Nil(t, c.CoherenceCoefficient)
}

func TestRateOne_CommentedCode(t *testing.T) {
	t.Parallel()

	r := newTestRater(&stubPredictor{}, nil)

	c := &comment.Comment{ID: 3, Type: comment.TypeInline, Text: "x = y; z = w;"}
	require.NoError(t, r.RateOne(context.Background(), c))

	assert.True(t, c.IsCode)
}

func TestRateOne_CodeSymbolThresholdHonored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold int
		isCode    bool
	}{
		{name: "default_threshold", threshold: 0, isCode: true},
		{name: "raised_threshold", threshold: 10, isCode: false},
		{name: "lowered_threshold", threshold: 1, isCode: true},
		{name: "at_threshold", threshold: 4, isCode: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New(Options{
				Splitter:            readability.RegexpSplitter{},
				Detector:            langdetect.Fixed{Code: "en", Confidence: 0.9},
				Predictor:           &stubPredictor{},
				CodeSymbolThreshold: tt.threshold,
			})

			c := &comment.Comment{ID: 7, Type: comment.TypeInline, Text: "a = b; c = d; e"}
			require.NoError(t, r.RateOne(context.Background(), c))

			assert.Equal(t, tt.isCode, c.IsCode)
		})
	}
}

func TestRateOne_SynonymLookup(t *testing.T) {
	t.Parallel()

	lex := synonyms.MapLexicon{"user": {"user", "users", "client", "end_user"}}
	r := newTestRater(&stubPredictor{}, lex)

	c := &comment.Comment{ID: 4, Type: comment.TypeFunction, Text: "Returns the user name.", Handle: "getUserName"}
	require.NoError(t, r.RateOne(context.Background(), c))

	assert.Equal(t, []string{"client"}, c.Synonyms["user"])
	assert.Contains(t, c.Synonyms, "name")
	assert.NotContains(t, c.Synonyms, "the")
}

func TestRateOne_PredictsOnProcessedText(t *testing.T) {
	t.Parallel()

	p := &stubPredictor{texts: make(chan string, 1)}
	r := newTestRater(p, nil)

	c := &comment.Comment{ID: 5, Type: comment.TypeInline, Text: "calls parseXMLFile(path) twice"}
	require.NoError(t, r.RateOne(context.Background(), c))

	assert.Equal(t, "calls parse XML File path twice", <-p.texts)
}

func TestRate_AllComments(t *testing.T) {
	t.Parallel()

	p := &stubPredictor{label: "usage", proba: 0.6}
	r := newTestRater(p, nil)

	comments := make([]*comment.Comment, 20)
	for i := range comments {
		comments[i] = &comment.Comment{ID: i, Type: comment.TypeInline, Text: strings.Repeat("word ", i+1)}
	}

	require.NoError(t, r.Rate(context.Background(), comments))

	assert.Equal(t, int32(len(comments)), p.calls.Load())

	for i, c := range comments {
		assert.Len(t, c.Words, i+1)
		assert.Equal(t, "usage", c.Label)
	}
}

func TestRate_CandidateCacheShared(t *testing.T) {
	t.Parallel()

	cache := synonyms.NewCandidateCache(synonyms.MapLexicon{"user": {"user", "client"}}, 16)
	r := newTestRater(&stubPredictor{}, cache)

	comments := []*comment.Comment{
		{ID: 1, Type: comment.TypeInline, Text: "user"},
		{ID: 2, Type: comment.TypeInline, Text: "user"},
	}
	require.NoError(t, r.Rate(context.Background(), comments))

	for _, c := range comments {
		assert.Equal(t, []string{"client"}, c.Synonyms["user"])
	}

	st := cache.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, int64(2), st.Hits+st.Misses)
}

func TestRate_PredictorError(t *testing.T) {
	t.Parallel()

	r := newTestRater(&stubPredictor{err: errPredict}, nil)

	err := r.Rate(context.Background(), []*comment.Comment{{ID: 9, Text: "some text here"}})
	require.ErrorIs(t, err, errPredict)
}

func TestRate_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRater(&stubPredictor{}, nil)

	err := r.Rate(ctx, []*comment.Comment{{ID: 1, Text: "a b c"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := New(Options{})

	assert.Positive(t, r.opts.Workers)
	assert.NotEmpty(t, r.opts.Abbreviations)
	assert.NotNil(t, r.opts.Detector)
	assert.NotNil(t, r.opts.Predictor)
	assert.NotNil(t, r.opts.Tracer)
}

func TestAbbreviations(t *testing.T) {
	t.Parallel()

	abbr, err := ReadAbbreviations(strings.NewReader("API,application programming interface\nURL,uniform resource locator\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"API", "URL"}, abbr.Match("the URL of the API and the API docs"))
	assert.Empty(t, abbr.Match("nothing here"))

	_, err = ReadAbbreviations(strings.NewReader("API\n"))
	require.ErrorIs(t, err, ErrMalformedAbbreviations)

	assert.Contains(t, DefaultAbbreviations(), "e.g.")
}
