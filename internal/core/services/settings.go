package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyVisionAPIKey      = "vision.api_key"
	keyVisionCredentials = "vision.credentials_file"
	keyVisionRESTTimeout = "vision.rest_timeout_seconds"
	keyVisionSDKTimeout  = "vision.sdk_timeout_seconds"
	keyVisionAttempts    = "vision.max_attempts"
	keyVisionBaseDelay   = "vision.base_delay_ms"
	keyVisionRPS         = "vision.requests_per_second"
	keyVisionLanguages   = "vision.languages"
	keyCacheBackend      = "cache.backend"
	keyCacheDir          = "cache.dir"
	keyImprovedGG        = "decoders.improved_gg"
	keyLLMBarcode        = "decoders.llm_barcode"
	keyPolicy            = "pipeline.policy"
	keyLLMProvider       = "llm.provider"
	keyLLMKey            = "llm.api_key"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMModel          = "llm.model"
)

// Environment overrides. Deployments set these instead of editing the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	envVisionAPIKey   = "GOOGLE_VISION_API_KEY"
	envCredentials    = "GOOGLE_APPLICATION_CREDENTIALS"
	envVisionCacheDir = "VISION_CACHE_DIR"
	envOpenAIKey      = "OPENAI_API_KEY"
	envAnthropicKey   = "ANTHROPIC_API_KEY"
	envOllamaHost     = "OLLAMA_HOST"
	envImprovedGG     = "USE_IMPROVED_GG"
	envLLMBarcode     = "USE_LLM_BARCODE"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindPolicy
	kindBackend
	kindProvider
	kindList
)

var settingKinds = map[string]valueKind{
	keyVisionAPIKey:      kindString,
	keyVisionCredentials: kindString,
	keyVisionRESTTimeout: kindInt,
	keyVisionSDKTimeout:  kindInt,
	keyVisionAttempts:    kindInt,
	keyVisionBaseDelay:   kindInt,
	keyVisionRPS:         kindFloat,
	keyVisionLanguages:   kindList,
	keyCacheBackend:      kindBackend,
	keyCacheDir:          kindString,
	keyImprovedGG:        kindBool,
	keyLLMBarcode:        kindBool,
	keyPolicy:            kindPolicy,
	keyLLMProvider:       kindProvider,
	keyLLMKey:            kindString,
	keyLLMBaseURL:        kindString,
	keyLLMModel:          kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnvLookup(fn func(string) string) {
	s.getenv = fn
}

// Get retrieves current application settings.
// Environment variables take precedence over the config file.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Vision: domain.VisionSettings{
			APIKey:            s.getString(keyVisionAPIKey, ""),
			CredentialsFile:   s.getString(keyVisionCredentials, ""),
			RESTTimeout:       s.getSeconds(keyVisionRESTTimeout, defaults.Vision.RESTTimeout),
			SDKTimeout:        s.getSeconds(keyVisionSDKTimeout, defaults.Vision.SDKTimeout),
			MaxAttempts:       s.getInt(keyVisionAttempts, defaults.Vision.MaxAttempts),
			BaseDelay:         s.getMillis(keyVisionBaseDelay, defaults.Vision.BaseDelay),
			RequestsPerSecond: s.getFloat(keyVisionRPS, defaults.Vision.RequestsPerSecond),
			LanguageHints:     s.getList(keyVisionLanguages, defaults.Vision.LanguageHints),
		},
		Cache: domain.CacheSettings{
			Backend: s.getBackend(defaults.Cache.Backend),
			Dir:     s.getString(keyCacheDir, defaults.Cache.Dir),
		},
		Decoders: domain.DecoderSettings{
			ImprovedGG: s.getBool(keyImprovedGG, defaults.Decoders.ImprovedGG),
			LLMBarcode: s.getBool(keyLLMBarcode, defaults.Decoders.LLMBarcode),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(defaults.LLM.Provider),
			APIKey:   s.getString(keyLLMKey, ""),
			BaseURL:  s.getString(keyLLMBaseURL, ""),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
		},
		Policy: s.getPolicy(defaults.Policy),
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overlays environment overrides.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v := s.getenv(envVisionAPIKey); v != "" {
		settings.Vision.APIKey = v
	}
	if v := s.getenv(envCredentials); v != "" {
		settings.Vision.CredentialsFile = v
	}
	if v := s.getenv(envVisionCacheDir); v != "" {
		settings.Cache.Dir = v
	}
	switch settings.LLM.Provider {
	case domain.LLMProviderOpenAI:
		if v := s.getenv(envOpenAIKey); v != "" {
			settings.LLM.APIKey = v
		}
	case domain.LLMProviderAnthropic:
		if v := s.getenv(envAnthropicKey); v != "" {
			settings.LLM.APIKey = v
		}
	case domain.LLMProviderOllama:
		if v := s.getenv(envOllamaHost); v != "" {
			settings.LLM.BaseURL = v
		}
	}
	if v := s.getenv(envImprovedGG); v != "" {
		settings.Decoders.ImprovedGG = v == "1"
	}
	if v := s.getenv(envLLMBarcode); v != "" {
		settings.Decoders.LLMBarcode = v == "1"
	}
}

// Save persists application settings. Empty API keys are not written.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyVisionCredentials, settings.Vision.CredentialsFile},
		{keyVisionRESTTimeout, int64(settings.Vision.RESTTimeout / time.Second)},
		{keyVisionSDKTimeout, int64(settings.Vision.SDKTimeout / time.Second)},
		{keyVisionAttempts, int64(settings.Vision.MaxAttempts)},
		{keyVisionBaseDelay, settings.Vision.BaseDelay.Milliseconds()},
		{keyVisionRPS, settings.Vision.RequestsPerSecond},
		{keyVisionLanguages, settings.Vision.LanguageHints},
		{keyCacheBackend, string(settings.Cache.Backend)},
		{keyCacheDir, settings.Cache.Dir},
		{keyImprovedGG, settings.Decoders.ImprovedGG},
		{keyLLMBarcode, settings.Decoders.LLMBarcode},
		{keyPolicy, settings.Policy.String()},
		{keyLLMProvider, string(settings.LLM.Provider)},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMModel, settings.LLM.Model},
	}
	if settings.Vision.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyVisionAPIKey, settings.Vision.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyLLMKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindPolicy:
		if !domain.Policy(value).IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrUnknownPolicy, value)
		}
		typed = value
	case kindBackend:
		if !domain.CacheBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown cache backend %q", domain.ErrInvalidInput, value)
		}
		typed = value
	case kindList:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: %s needs at least one entry", domain.ErrInvalidInput, key)
		}
		typed = items
	case kindProvider:
		if !domain.LLMProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, value)
		}
		typed = value
	default:
		typed = value
	}

	return s.configStore.Set(key, typed)
}

// Keys returns the configuration keys that Set accepts, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getSeconds(key string, fallback time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * time.Second
	}
	return fallback
}

func (s *SettingsService) getMillis(key string, fallback time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * time.Millisecond
	}
	return fallback
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return fallback
	}
	// TOML numbers may come back as int64 or float64
	switch v := val.(type) {
	case float64:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return float64(v)
		}
	}
	return fallback
}

func (s *SettingsService) getList(key string, fallback []string) []string {
	if v := s.configStore.GetStringSlice(key); len(v) > 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPolicy(fallback domain.Policy) domain.Policy {
	if p := domain.Policy(s.configStore.GetString(keyPolicy)); p.IsValid() {
		return p
	}
	return fallback
}

func (s *SettingsService) getBackend(fallback domain.CacheBackend) domain.CacheBackend {
	if b := domain.CacheBackend(s.configStore.GetString(keyCacheBackend)); b.IsValid() {
		return b
	}
	return fallback
}

func (s *SettingsService) getProvider(fallback domain.LLMProvider) domain.LLMProvider {
	if p := domain.LLMProvider(s.configStore.GetString(keyLLMProvider)); p.IsValid() {
		return p
	}
	return fallback
}
