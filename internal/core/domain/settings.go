package domain

import "time"

const unknownDescription = "Unknown"

// Policy selects how the decoder pipeline executes its decoders.
type Policy string

// Available pipeline policies.
const (
	// PolicySequential runs decoders one after another without diagnostics.
	PolicySequential Policy = "sequential"

	// PolicyDebug runs decoders sequentially and records a timeline.
	PolicyDebug Policy = "debug"

	// PolicySmart runs the quick tier in parallel and the slow tier only
	// when the quick tier found no definitive code.
	PolicySmart Policy = "smart"

	// PolicyParallel runs every decoder in parallel.
	PolicyParallel Policy = "parallel"
)

// IsValid returns true if the policy is recognised.
func (p Policy) IsValid() bool {
	switch p {
	case PolicySequential, PolicyDebug, PolicySmart, PolicyParallel:
		return true
	default:
		return false
	}
}

// HasTimeline returns true if the policy records a timeline.
func (p Policy) HasTimeline() bool {
	return p != PolicySequential
}

// String returns the string representation.
func (p Policy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p Policy) Description() string {
	switch p {
	case PolicySequential:
		return "Sequential"
	case PolicyDebug:
		return "Sequential with timeline"
	case PolicySmart:
		return "Tiered parallel (quick, then slow if needed)"
	case PolicyParallel:
		return "Full parallel"
	default:
		return unknownDescription
	}
}

// AllPolicies returns every policy in display order.
func AllPolicies() []Policy {
	return []Policy{PolicySmart, PolicyParallel, PolicyDebug, PolicySequential}
}

// CacheBackend selects the vision cache implementation.
type CacheBackend string

// Available cache backends.
const (
	CacheBackendFile   CacheBackend = "file"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendNone   CacheBackend = "none"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendMemory, CacheBackendNone:
		return true
	default:
		return false
	}
}

// VisionSettings configures the cloud OCR client.
type VisionSettings struct {
	// APIKey enables the REST transport.
	APIKey string

	// CredentialsFile points at a service-account JSON file for the SDK transport.
	// Empty means application default credentials.
	CredentialsFile string

	// RESTTimeout is the per-attempt timeout of the REST transport.
	RESTTimeout time.Duration

	// SDKTimeout is the per-attempt timeout of the SDK transport.
	SDKTimeout time.Duration

	// MaxAttempts is the number of attempts per transport.
	MaxAttempts int

	// BaseDelay is the first backoff delay; each retry doubles it.
	BaseDelay time.Duration

	// RequestsPerSecond bounds the request rate across decoders.
	RequestsPerSecond float64

	// LanguageHints are sent with every text detection request.
	LanguageHints []string
}

// CacheSettings configures the vision result cache.
type CacheSettings struct {
	Backend CacheBackend
	Dir     string
}

// DecoderSettings selects decoder variants. These are deployment choices,
// not pipeline behaviour.
type DecoderSettings struct {
	// ImprovedGG swaps the basic GG label decoder for the multi-variant one.
	ImprovedGG bool

	// LLMBarcode appends the vision-LLM barcode reader.
	LLMBarcode bool
}

// LLMProvider selects the vision LLM backend.
type LLMProvider string

// Available LLM providers.
const (
	LLMProviderOpenAI    LLMProvider = "openai"
	LLMProviderAnthropic LLMProvider = "anthropic"
	LLMProviderOllama    LLMProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p LLMProvider) IsValid() bool {
	switch p {
	case LLMProviderOpenAI, LLMProviderAnthropic, LLMProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true for hosted providers.
func (p LLMProvider) RequiresAPIKey() bool {
	return p != LLMProviderOllama
}

// LLMSettings configures the vision LLM used by the LLM barcode decoder.
type LLMSettings struct {
	Provider LLMProvider
	APIKey   string

	// BaseURL overrides the provider endpoint. Empty means the provider default.
	BaseURL string

	// Model must accept image input. Empty means the provider default.
	Model string
}

// IsConfigured returns true if the provider is known and has a key when it
// needs one.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	return !l.Provider.RequiresAPIKey() || l.APIKey != ""
}

// Settings holds all application settings.
type Settings struct {
	Vision   VisionSettings
	Cache    CacheSettings
	Decoders DecoderSettings
	LLM      LLMSettings

	// Policy is the default pipeline policy.
	Policy Policy
}

// DefaultSettings returns settings with sensible defaults.
// Cloud features stay disabled until a key or credentials are configured.
func DefaultSettings() Settings {
	return Settings{
		Vision: VisionSettings{
			RESTTimeout:       8 * time.Second,
			SDKTimeout:        15 * time.Second,
			MaxAttempts:       3,
			BaseDelay:         500 * time.Millisecond,
			RequestsPerSecond: 5,
			LanguageHints:     []string{"en"},
		},
		Cache: CacheSettings{
			Backend: CacheBackendFile,
			Dir:     ".vision_cache",
		},
		LLM: LLMSettings{
			Provider: LLMProviderOpenAI,
		},
		Policy: PolicySmart,
	}
}
