// Package commands implements the coality CLI command handlers.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/coality/pkg/config"
	"github.com/Sumatoshi-tech/coality/pkg/evaluate"
	"github.com/Sumatoshi-tech/coality/pkg/extract"
	"github.com/Sumatoshi-tech/coality/pkg/ignore"
	"github.com/Sumatoshi-tech/coality/pkg/label"
	"github.com/Sumatoshi-tech/coality/pkg/observability"
	"github.com/Sumatoshi-tech/coality/pkg/rater"
	"github.com/Sumatoshi-tech/coality/pkg/synonyms"
	"github.com/Sumatoshi-tech/coality/pkg/version"
)

// Globals holds the persistent root flags shared by every command.
type Globals struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// env is the per-invocation wiring: configuration, telemetry and the
// pipeline components built from them.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.PipelineMetrics
	shutdown func(context.Context) error
}

func newEnv(g *Globals, logOutput io.Writer) (*env, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.LogOutput = logOutput
	obsCfg.LogLevel = logLevel(cfg.Observability.LogLevel, g)

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:      cfg,
		logger:   providers.Logger,
		tracer:   providers.Tracer,
		metrics:  metrics,
		shutdown: providers.Shutdown,
	}, nil
}

func (e *env) close(ctx context.Context) {
	err := e.shutdown(ctx)
	if err != nil {
		e.logger.Warn("observability shutdown failed", "error", err)
	}
}

func logLevel(name string, g *Globals) slog.Level {
	switch {
	case g.Verbose:
		return slog.LevelDebug
	case g.Quiet:
		return slog.LevelError
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToUpper(name)))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

func (e *env) ignoreOptions() ignore.Options {
	opts := ignore.DefaultOptions()
	opts.TargetLanguage = e.cfg.Rating.TargetLanguage
	opts.MinLanguageConfidence = e.cfg.Rating.MinLanguageConfidence
	opts.MinWords = e.cfg.Evaluation.MinWords
	opts.MaxInlineWords = e.cfg.Evaluation.MaxInlineWords
	opts.CodeSymbolThreshold = e.cfg.Evaluation.CodeSymbolThreshold
	opts.TrivialThreshold = e.cfg.Evaluation.TrivialThreshold

	return opts
}

func (e *env) extractor() *extract.TreeSitter {
	return extract.NewTreeSitter(extract.Options{
		Extensions: e.cfg.Evaluation.AcceptedExtensions,
		Workers:    e.cfg.Rating.Workers,
		Logger:     e.logger,
		Metrics:    e.metrics,
		Tracer:     e.tracer,
	})
}

// predictor loads the label ensemble. An unset models directory disables labeling.
func (e *env) predictor() (label.Predictor, error) {
	if e.cfg.Label.ModelsDir == "" {
		return label.Noop{}, nil
	}

	ens, err := label.LoadEnsemble(e.cfg.Label.ModelsDir, e.cfg.Label.Backend)
	if err != nil {
		return nil, err
	}

	return ens, nil
}

func (e *env) rater() (*rater.Rater, error) {
	pred, err := e.predictor()
	if err != nil {
		return nil, err
	}

	opts := rater.Options{
		Workers:             e.cfg.Rating.Workers,
		Predictor:           pred,
		CodeSymbolThreshold: e.cfg.Evaluation.CodeSymbolThreshold,
		Logger:              e.logger,
		Metrics:             e.metrics,
		Tracer:              e.tracer,
	}

	if e.cfg.Rating.AbbreviationsFile != "" {
		opts.Abbreviations, err = rater.LoadAbbreviations(e.cfg.Rating.AbbreviationsFile)
		if err != nil {
			return nil, err
		}
	}

	if e.cfg.Rating.StopwordsFile != "" {
		opts.Stopwords, err = synonyms.LoadStopwords(e.cfg.Rating.StopwordsFile)
		if err != nil {
			return nil, err
		}
	}

	// The evaluation synonym pass reads the tables built here.
	if (e.cfg.Rating.Synonyms || e.cfg.Evaluation.Synonyms) && e.cfg.Lexicon.ThesaurusFile != "" {
		lex, lexErr := synonyms.LoadLexicon(e.cfg.Lexicon.ThesaurusFile)
		if lexErr != nil {
			return nil, lexErr
		}

		opts.Lexicon = lex
		if e.cfg.Lexicon.CacheSize > 0 {
			opts.Lexicon = synonyms.NewCandidateCache(lex, e.cfg.Lexicon.CacheSize)
		}
	}

	return rater.New(opts), nil
}

func (e *env) evaluateOptions() evaluate.Options {
	return evaluate.Options{
		AcceptedExtensions: e.cfg.Evaluation.AcceptedExtensions,
		Scope:              evaluate.Scope(e.cfg.Evaluation.Scope),
		Ignore:             e.ignoreOptions(),
		Synonyms:           e.cfg.Evaluation.Synonyms,
		Workers:            e.cfg.Evaluation.Workers,
		FilterLanguage:     e.cfg.Evaluation.FilterLanguage,
		FilterLabel:        e.cfg.Evaluation.FilterLabel,
		Logger:             e.logger,
		Metrics:            e.metrics,
		Tracer:             e.tracer,
	}
}

func progressf(quiet bool, w io.Writer, format string, args ...any) {
	if quiet {
		return
	}

	_, _ = fmt.Fprintf(w, "progress: "+format+"\n", args...)
}
