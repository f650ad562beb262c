package config

// Rating defaults.
const (
	DefaultRatingWorkers               = 0
	DefaultRatingTargetLanguage        = "en"
	DefaultRatingMinLanguageConfidence = 0.75
	DefaultRatingAbbreviationsFile     = ""
	DefaultRatingStopwordsFile         = ""
	DefaultRatingSynonyms              = false
)

// Evaluation defaults.
const (
	DefaultEvaluationScope               = ScopeSubstring
	DefaultEvaluationMinWords            = 3
	DefaultEvaluationMaxInlineWords      = 30
	DefaultEvaluationCodeSymbolThreshold = 3
	DefaultEvaluationTrivialThreshold    = 0.5
	DefaultEvaluationSynonyms            = false
	DefaultEvaluationWorkers             = 0
	DefaultEvaluationFilterLanguage      = ""
	DefaultEvaluationFilterLabel         = ""
)

// DefaultEvaluationAcceptedExtensions lists the source extensions kept in the report tree.
var DefaultEvaluationAcceptedExtensions = []string{".java", ".cpp", ".c", ".cc", ".cs", ".h", ".hpp"}

// Label defaults.
const (
	DefaultLabelBackend   = "bayes"
	DefaultLabelModelsDir = ""
)

// Lexicon defaults.
const (
	DefaultLexiconThesaurusFile = ""
	DefaultLexiconCacheSize     = 4096
)

// Observability defaults.
const (
	DefaultObservabilityOTLPEndpoint = ""
	DefaultObservabilityOTLPInsecure = false
	DefaultObservabilityLogLevel     = "info"
	DefaultObservabilityLogJSON      = false
)
