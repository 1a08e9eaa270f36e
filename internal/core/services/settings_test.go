package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func noEnv(string) string { return "" }

func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	service.SetEnvLookup(func(key string) string { return env[key] })
	return service, store
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults, *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettingsService(nil)
	_ = store.Set("vision.api_key", "abc")
	_ = store.Set("vision.rest_timeout_seconds", int64(4))
	_ = store.Set("vision.base_delay_ms", int64(100))
	_ = store.Set("vision.requests_per_second", 2.5)
	_ = store.Set("cache.backend", "sqlite")
	_ = store.Set("decoders.improved_gg", true)
	_ = store.Set("pipeline.policy", "parallel")
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("llm.model", "claude-3-5-sonnet-latest")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "abc", settings.Vision.APIKey)
	assert.Equal(t, 4*time.Second, settings.Vision.RESTTimeout)
	assert.Equal(t, 100*time.Millisecond, settings.Vision.BaseDelay)
	assert.InDelta(t, 2.5, settings.Vision.RequestsPerSecond, 0.0001)
	assert.Equal(t, domain.CacheBackendSQLite, settings.Cache.Backend)
	assert.True(t, settings.Decoders.ImprovedGG)
	assert.Equal(t, domain.PolicyParallel, settings.Policy)
	assert.Equal(t, domain.LLMProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	service, store := newTestSettingsService(nil)
	_ = store.Set("pipeline.policy", "bogus")
	_ = store.Set("cache.backend", "redis")
	_ = store.Set("vision.max_attempts", int64(-2))

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Policy, settings.Policy)
	assert.Equal(t, defaults.Cache.Backend, settings.Cache.Backend)
	assert.Equal(t, defaults.Vision.MaxAttempts, settings.Vision.MaxAttempts)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	service, store := newTestSettingsService(map[string]string{
		"GOOGLE_VISION_API_KEY":          "env-key",
		"GOOGLE_APPLICATION_CREDENTIALS": "/etc/creds.json",
		"VISION_CACHE_DIR":               "/tmp/vc",
		"OPENAI_API_KEY":                 "sk-env",
		"USE_IMPROVED_GG":                "1",
		"USE_LLM_BARCODE":                "0",
	})
	_ = store.Set("vision.api_key", "file-key")
	_ = store.Set("decoders.llm_barcode", true)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.Vision.APIKey)
	assert.Equal(t, "/etc/creds.json", settings.Vision.CredentialsFile)
	assert.Equal(t, "/tmp/vc", settings.Cache.Dir)
	assert.Equal(t, "sk-env", settings.LLM.APIKey)
	assert.True(t, settings.Decoders.ImprovedGG)
	assert.False(t, settings.Decoders.LLMBarcode)
}

func TestSettingsService_Get_ProviderEnvironment(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":    "sk-openai",
		"ANTHROPIC_API_KEY": "sk-ant",
		"OLLAMA_HOST":       "http://gpu-box:11434",
	}

	tests := []struct {
		provider    string
		wantKey     string
		wantBaseURL string
	}{
		{"openai", "sk-openai", ""},
		{"anthropic", "sk-ant", ""},
		{"ollama", "", "http://gpu-box:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			service, store := newTestSettingsService(env)
			_ = store.Set("llm.provider", tt.provider)

			settings, err := service.Get()

			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, settings.LLM.APIKey)
			assert.Equal(t, tt.wantBaseURL, settings.LLM.BaseURL)
		})
	}
}

func TestSettingsService_Save(t *testing.T) {
	service, store := newTestSettingsService(nil)

	settings := domain.DefaultSettings()
	settings.Policy = domain.PolicyDebug
	settings.Vision.APIKey = "saved-key"
	settings.Vision.SDKTimeout = 20 * time.Second

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "debug", store.GetString("pipeline.policy"))
	assert.Equal(t, "saved-key", store.GetString("vision.api_key"))
	assert.Equal(t, 20, store.GetInt("vision.sdk_timeout_seconds"))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok, "empty API keys are not persisted")

	roundTrip, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *roundTrip)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
		check   func(t *testing.T, s *domain.Settings)
	}{
		{
			name:  "policy",
			key:   "pipeline.policy",
			value: "sequential",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.PolicySequential, s.Policy)
			},
		},
		{
			name:  "bool",
			key:   "decoders.llm_barcode",
			value: "true",
			check: func(t *testing.T, s *domain.Settings) {
				assert.True(t, s.Decoders.LLMBarcode)
			},
		},
		{
			name:  "int",
			key:   "vision.max_attempts",
			value: " 5 ",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, 5, s.Vision.MaxAttempts)
			},
		},
		{
			name:  "float",
			key:   "vision.requests_per_second",
			value: "0.5",
			check: func(t *testing.T, s *domain.Settings) {
				assert.InDelta(t, 0.5, s.Vision.RequestsPerSecond, 0.0001)
			},
		},
		{
			name:  "provider",
			key:   "llm.provider",
			value: "ollama",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.LLMProviderOllama, s.LLM.Provider)
			},
		},
		{
			name:  "language list",
			key:   "vision.languages",
			value: "en, de,,fr",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, []string{"en", "de", "fr"}, s.Vision.LanguageHints)
			},
		},
		{name: "empty list", key: "vision.languages", value: " , ", wantErr: domain.ErrInvalidInput},
		{name: "bad provider", key: "llm.provider", value: "gemini", wantErr: domain.ErrInvalidInput},
		{name: "unknown key", key: "search.mode", value: "x", wantErr: domain.ErrInvalidInput},
		{name: "bad policy", key: "pipeline.policy", value: "fastest", wantErr: domain.ErrUnknownPolicy},
		{name: "bad backend", key: "cache.backend", value: "redis", wantErr: domain.ErrInvalidInput},
		{name: "bad int", key: "vision.max_attempts", value: "many", wantErr: domain.ErrInvalidInput},
		{name: "bad bool", key: "decoders.improved_gg", value: "maybe", wantErr: domain.ErrInvalidInput},
		{name: "bad float", key: "vision.requests_per_second", value: "0", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestSettingsService(nil)

			err := service.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service, _ := newTestSettingsService(nil)

	keys := service.Keys()

	assert.Contains(t, keys, "pipeline.policy")
	assert.Contains(t, keys, "vision.api_key")
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	service.SetEnvLookup(noEnv)

	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}
