// Package config provides YAML-based configuration for coality.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Scope rules accepted by evaluation.scope.
const (
	ScopeSubstring = "substring"
	ScopePrefix    = "prefix"
)

// LogLevels lists the accepted observability.log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Sentinel validation errors.
var (
	ErrInvalidWorkers    = errors.New("workers must not be negative")
	ErrInvalidConfidence = errors.New("min language confidence must be within [0, 1]")
	ErrInvalidThreshold  = errors.New("threshold must not be negative")
	ErrInvalidScope      = errors.New("unknown evaluation scope")
	ErrInvalidExtension  = errors.New("accepted extension must start with a dot")
	ErrInvalidLanguage   = errors.New("target language must not be empty")
	ErrInvalidLogLevel   = errors.New("unknown log level")
	ErrInvalidBackend    = errors.New("label backend must not be empty")
	ErrInvalidCacheSize  = errors.New("lexicon cache size must not be negative")
)

// Config is the top-level configuration struct for coality.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Rating        RatingConfig        `mapstructure:"rating"`
	Evaluation    EvaluationConfig    `mapstructure:"evaluation"`
	Label         LabelConfig         `mapstructure:"label"`
	Lexicon       LexiconConfig       `mapstructure:"lexicon"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RatingConfig holds per-comment rating settings.
type RatingConfig struct {
	Workers               int     `mapstructure:"workers"`
	TargetLanguage        string  `mapstructure:"target_language"`
	MinLanguageConfidence float64 `mapstructure:"min_language_confidence"`
	AbbreviationsFile     string  `mapstructure:"abbreviations_file"`
	StopwordsFile         string  `mapstructure:"stopwords_file"`
	// Synonyms enables lexicon lookups while rating.
	Synonyms bool `mapstructure:"synonyms"`
}

// EvaluationConfig holds aggregation settings.
type EvaluationConfig struct {
	AcceptedExtensions  []string `mapstructure:"accepted_extensions"`
	Scope               string   `mapstructure:"scope"`
	MinWords            int      `mapstructure:"min_words"`
	MaxInlineWords      int      `mapstructure:"max_inline_words"`
	CodeSymbolThreshold int      `mapstructure:"code_symbol_threshold"`
	TrivialThreshold    float64  `mapstructure:"trivial_threshold"`
	// Synonyms enables the per-file synonym pass.
	Synonyms       bool   `mapstructure:"synonyms"`
	Workers        int    `mapstructure:"workers"`
	FilterLanguage string `mapstructure:"filter_language"`
	FilterLabel    string `mapstructure:"filter_label"`
}

// LabelConfig selects the classifier backend and its model directory.
type LabelConfig struct {
	Backend   string `mapstructure:"backend"`
	ModelsDir string `mapstructure:"models_dir"`
}

// LexiconConfig points at the thesaurus export.
type LexiconConfig struct {
	ThesaurusFile string `mapstructure:"thesaurus_file"`
	// CacheSize bounds the memoized candidate lists; 0 disables the cache.
	CacheSize int `mapstructure:"cache_size"`
}

// ObservabilityConfig holds logging and telemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	LogLevel     string `mapstructure:"log_level"`
	LogJSON      bool   `mapstructure:"log_json"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Rating.Workers < 0 {
		return fmt.Errorf("rating: %w: %d", ErrInvalidWorkers, c.Rating.Workers)
	}

	if c.Evaluation.Workers < 0 {
		return fmt.Errorf("evaluation: %w: %d", ErrInvalidWorkers, c.Evaluation.Workers)
	}

	if strings.TrimSpace(c.Rating.TargetLanguage) == "" {
		return ErrInvalidLanguage
	}

	if c.Rating.MinLanguageConfidence < 0 || c.Rating.MinLanguageConfidence > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidConfidence, c.Rating.MinLanguageConfidence)
	}

	if c.Evaluation.Scope != ScopeSubstring && c.Evaluation.Scope != ScopePrefix {
		return fmt.Errorf("%w: %q", ErrInvalidScope, c.Evaluation.Scope)
	}

	for _, ext := range c.Evaluation.AcceptedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	err := validateThresholds(&c.Evaluation)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.Label.Backend) == "" {
		return ErrInvalidBackend
	}

	if c.Lexicon.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.Lexicon.CacheSize)
	}

	if !slices.Contains(LogLevels, strings.ToLower(c.Observability.LogLevel)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Observability.LogLevel)
	}

	return nil
}

func validateThresholds(ev *EvaluationConfig) error {
	if ev.MinWords < 0 {
		return fmt.Errorf("min_words: %w: %d", ErrInvalidThreshold, ev.MinWords)
	}

	if ev.MaxInlineWords < 0 {
		return fmt.Errorf("max_inline_words: %w: %d", ErrInvalidThreshold, ev.MaxInlineWords)
	}

	if ev.CodeSymbolThreshold < 0 {
		return fmt.Errorf("code_symbol_threshold: %w: %d", ErrInvalidThreshold, ev.CodeSymbolThreshold)
	}

	if ev.TrivialThreshold < 0 {
		return fmt.Errorf("trivial_threshold: %w: %g", ErrInvalidThreshold, ev.TrivialThreshold)
	}

	return nil
}
