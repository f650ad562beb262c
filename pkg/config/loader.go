package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".coality"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for coality settings.
const envPrefix = "COALITY"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		Rating: RatingConfig{
			Workers:               DefaultRatingWorkers,
			TargetLanguage:        DefaultRatingTargetLanguage,
			MinLanguageConfidence: DefaultRatingMinLanguageConfidence,
			AbbreviationsFile:     DefaultRatingAbbreviationsFile,
			StopwordsFile:         DefaultRatingStopwordsFile,
			Synonyms:              DefaultRatingSynonyms,
		},
		Evaluation: EvaluationConfig{
			AcceptedExtensions:  append([]string(nil), DefaultEvaluationAcceptedExtensions...),
			Scope:               DefaultEvaluationScope,
			MinWords:            DefaultEvaluationMinWords,
			MaxInlineWords:      DefaultEvaluationMaxInlineWords,
			CodeSymbolThreshold: DefaultEvaluationCodeSymbolThreshold,
			TrivialThreshold:    DefaultEvaluationTrivialThreshold,
			Synonyms:            DefaultEvaluationSynonyms,
			Workers:             DefaultEvaluationWorkers,
			FilterLanguage:      DefaultEvaluationFilterLanguage,
			FilterLabel:         DefaultEvaluationFilterLabel,
		},
		Label: LabelConfig{
			Backend:   DefaultLabelBackend,
			ModelsDir: DefaultLabelModelsDir,
		},
		Lexicon: LexiconConfig{
			ThesaurusFile: DefaultLexiconThesaurusFile,
			CacheSize:     DefaultLexiconCacheSize,
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: DefaultObservabilityOTLPEndpoint,
			OTLPInsecure: DefaultObservabilityOTLPInsecure,
			LogLevel:     DefaultObservabilityLogLevel,
			LogJSON:      DefaultObservabilityLogJSON,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("rating.workers", DefaultRatingWorkers)
	viperCfg.SetDefault("rating.target_language", DefaultRatingTargetLanguage)
	viperCfg.SetDefault("rating.min_language_confidence", DefaultRatingMinLanguageConfidence)
	viperCfg.SetDefault("rating.abbreviations_file", DefaultRatingAbbreviationsFile)
	viperCfg.SetDefault("rating.stopwords_file", DefaultRatingStopwordsFile)
	viperCfg.SetDefault("rating.synonyms", DefaultRatingSynonyms)

	viperCfg.SetDefault("evaluation.accepted_extensions", DefaultEvaluationAcceptedExtensions)
	viperCfg.SetDefault("evaluation.scope", DefaultEvaluationScope)
	viperCfg.SetDefault("evaluation.min_words", DefaultEvaluationMinWords)
	viperCfg.SetDefault("evaluation.max_inline_words", DefaultEvaluationMaxInlineWords)
	viperCfg.SetDefault("evaluation.code_symbol_threshold", DefaultEvaluationCodeSymbolThreshold)
	viperCfg.SetDefault("evaluation.trivial_threshold", DefaultEvaluationTrivialThreshold)
	viperCfg.SetDefault("evaluation.synonyms", DefaultEvaluationSynonyms)
	viperCfg.SetDefault("evaluation.workers", DefaultEvaluationWorkers)
	viperCfg.SetDefault("evaluation.filter_language", DefaultEvaluationFilterLanguage)
	viperCfg.SetDefault("evaluation.filter_label", DefaultEvaluationFilterLabel)

	viperCfg.SetDefault("label.backend", DefaultLabelBackend)
	viperCfg.SetDefault("label.models_dir", DefaultLabelModelsDir)

	viperCfg.SetDefault("lexicon.thesaurus_file", DefaultLexiconThesaurusFile)
	viperCfg.SetDefault("lexicon.cache_size", DefaultLexiconCacheSize)

	viperCfg.SetDefault("observability.otlp_endpoint", DefaultObservabilityOTLPEndpoint)
	viperCfg.SetDefault("observability.otlp_insecure", DefaultObservabilityOTLPInsecure)
	viperCfg.SetDefault("observability.log_level", DefaultObservabilityLogLevel)
	viperCfg.SetDefault("observability.log_json", DefaultObservabilityLogJSON)
}
