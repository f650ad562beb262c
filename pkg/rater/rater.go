// Package rater runs the per-comment rating pipeline: abbreviation
// matching, normalization, labeling, readability, coherence, language
// detection, synonym lookup and the commented-code heuristic.
package rater

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/coality/pkg/coherence"
	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/ignore"
	"github.com/Sumatoshi-tech/coality/pkg/label"
	"github.com/Sumatoshi-tech/coality/pkg/langdetect"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
	"github.com/Sumatoshi-tech/coality/pkg/readability"
	"github.com/Sumatoshi-tech/coality/pkg/synonyms"
	"github.com/Sumatoshi-tech/coality/pkg/textnorm"
)

const tracerName = "coality/rater"

// Options configures a Rater. Zero values select the defaults.
type Options struct {
	// Workers bounds concurrent comments. Zero means GOMAXPROCS.
	Workers int

	Abbreviations Abbreviations
	Splitter      readability.SentenceSplitter
	Detector      langdetect.Detector
	Predictor     label.Predictor

	// Lexicon enables synonym lookup when set.
	Lexicon   synonyms.Lexicon
	Stopwords synonyms.Stopwords

	// CodeSymbols and CodeSymbolThreshold default independently.
	CodeSymbols         string
	CodeSymbolThreshold int

	Logger  *slog.Logger
	Metrics *observability.PipelineMetrics
	Tracer  trace.Tracer
}

// Rater enriches comments in place.
type Rater struct {
	opts Options
}

// New builds a Rater, filling unset options with defaults.
func New(opts Options) *Rater {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	if opts.Abbreviations == nil {
		opts.Abbreviations = DefaultAbbreviations()
	}

	if opts.Splitter == nil {
		opts.Splitter = readability.DefaultSplitter()
	}

	if opts.Detector == nil {
		opts.Detector = langdetect.NewTrigram()
	}

	if opts.Predictor == nil {
		opts.Predictor = label.Noop{}
	}

	if opts.Stopwords == nil {
		opts.Stopwords = synonyms.DefaultStopwords()
	}

	if opts.CodeSymbols == "" {
		opts.CodeSymbols = ignore.DefaultCodeSymbols
	}

	if opts.CodeSymbolThreshold <= 0 {
		opts.CodeSymbolThreshold = ignore.DefaultCodeSymbolThreshold
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	return &Rater{opts: opts}
}

// Rate rates every comment on a bounded worker pool. Each comment is
// touched by exactly one worker. The first error cancels the run.
func (r *Rater) Rate(ctx context.Context, comments []*comment.Comment) error {
	ctx, span := r.opts.Tracer.Start(ctx, "coality.rate",
		trace.WithAttributes(attribute.Int("comments", len(comments))),
	)
	defer span.End()

	defer r.opts.Metrics.TimeStage(ctx, observability.StageRate)()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for _, c := range comments {
		g.Go(func() error {
			return r.RateOne(gctx, c)
		})
	}

	err := g.Wait()
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("rate comments: %w", err)
	}

	r.opts.Metrics.CommentsRated(ctx, len(comments))
	r.opts.Logger.DebugContext(ctx, "comments rated", "count", len(comments))

	if cache, ok := r.opts.Lexicon.(*synonyms.CandidateCache); ok {
		st := cache.Stats()
		span.SetAttributes(attribute.Float64("synonym_cache_hit_rate", st.HitRate()))
		r.opts.Logger.DebugContext(ctx, "synonym candidate cache",
			"entries", st.Entries, "hits", st.Hits, "misses", st.Misses, "hit_rate", st.HitRate())
	}

	return nil
}

// RateOne fills the derived fields of c in their fixed order.
func (r *Rater) RateOne(ctx context.Context, c *comment.Comment) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	start := time.Now()

	c.Abbreviations = r.opts.Abbreviations.Match(c.Text)
	c.ProcessedText = textnorm.Normalize(c.Text, c.Abbreviations)

	lbl, proba, err := r.opts.Predictor.Predict(ctx, c.ProcessedText)
	if err != nil {
		return fmt.Errorf("label comment %d: %w", c.ID, err)
	}

	c.Label = lbl
	c.LabelProbability = proba

	c.QuestionMarks = strings.Count(c.Text, "?")
	c.ExclamationMarks = strings.Count(c.Text, "!")

	st := readability.Analyze(c.ProcessedText, r.opts.Splitter)
	c.Words = st.Words
	c.ComplexWords = st.ComplexWords
	c.Sentences = st.Sentences
	c.Syllables = st.Syllables
	c.FleschKincaidGradeLevel = st.FleschKincaidGradeLevel
	c.FleschReadingEaseLevel = st.FleschReadingEase
	c.FogIndex = st.FogIndex

	c.CoherenceCoefficient = coherence.Coefficient(c.Words, c.Handle)

	c.Language, c.LanguageProbability = r.opts.Detector.Detect(c.ProcessedText)

	c.Synonyms = map[string][]string{}
	if r.opts.Lexicon != nil {
		c.Synonyms = synonyms.Lookup(r.opts.Lexicon, c.Words, r.opts.Stopwords)
	}

	c.IsCode = ignore.IsCommentedCode(c.Text, r.opts.CodeSymbols, r.opts.CodeSymbolThreshold)

	c.TimeMillis = float64(time.Since(start).Microseconds()) / float64(time.Millisecond/time.Microsecond)

	return nil
}
