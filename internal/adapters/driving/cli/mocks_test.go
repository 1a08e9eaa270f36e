package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

// mockScanService returns a fixed result and records every call.
type mockScanService struct {
	result *domain.ScanResult
	err    error
	calls  []driving.ScanOptions
	data   [][]byte
}

func (m *mockScanService) Scan(_ context.Context, data []byte, opts driving.ScanOptions) (*domain.ScanResult, error) {
	m.calls = append(m.calls, opts)
	m.data = append(m.data, data)
	if m.err != nil {
		return nil, m.err
	}
	res := *m.result
	return &res, nil
}

// mockHistoryService serves fixed history data.
type mockHistoryService struct {
	top       []domain.BarcodeInfo
	recent    []domain.ScanEvent
	info      *domain.BarcodeInfo
	stats     domain.ScanStats
	err       error
	annotated map[string]domain.ProductInfo
	lastLimit int
}

func (m *mockHistoryService) Top(_ context.Context, limit int) ([]domain.BarcodeInfo, error) {
	m.lastLimit = limit
	return m.top, m.err
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.ScanEvent, error) {
	m.lastLimit = limit
	return m.recent, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.BarcodeInfo, error) {
	return m.info, m.err
}

func (m *mockHistoryService) Annotate(_ context.Context, barcode string, info domain.ProductInfo) error {
	if m.err != nil {
		return m.err
	}
	m.annotated[barcode] = info
	return nil
}

func (m *mockHistoryService) Stats(_ context.Context) (domain.ScanStats, error) {
	return m.stats, m.err
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings *domain.Settings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Save(s *domain.Settings) error {
	m.settings = s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"cache.backend", "pipeline.policy"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockCache is an in-memory VisionCache stand-in.
type mockCache struct {
	stats   domain.CacheStats
	cleared int
}

func (m *mockCache) Get(_ []byte) ([]domain.Code, bool) { return nil, false }
func (m *mockCache) Put(_ []byte, _ []domain.Code)      {}
func (m *mockCache) Stats() domain.CacheStats           { return m.stats }
func (m *mockCache) Clear() (int, error)                { return m.cleared, nil }

// mockValidator returns a fixed error.
type mockValidator struct {
	err  error
	last domain.LLMSettings
}

func (m *mockValidator) ValidateLLM(_ context.Context, cfg domain.LLMSettings) error {
	m.last = cfg
	return m.err
}

// Test doubles installed by setupTestServices.
var (
	testScan     *mockScanService
	testHistory  *mockHistoryService
	testSettings *mockSettingsService
	testCache    *mockCache
	testLLM      *mockValidator
)

// setupTestServices installs fresh mocks and returns a cleanup function
// that restores the previous services and resets command flags.
func setupTestServices() func() {
	prevScan, prevHistory, prevSettings, prevCache := scanService, historyService, settingsService, visionCache
	prevValidator := llmValidator
	prevRead, prevTerm := readFile, isTerminal

	defaults := domain.DefaultSettings()
	testScan = &mockScanService{result: &domain.ScanResult{ID: "scan-1", Policy: domain.PolicySmart}}
	testHistory = &mockHistoryService{annotated: make(map[string]domain.ProductInfo)}
	testSettings = &mockSettingsService{settings: &defaults, set: make(map[string]string)}
	testCache = &mockCache{}
	testLLM = &mockValidator{}

	SetServices(Services{
		Scan:      testScan,
		History:   testHistory,
		Settings:  testSettings,
		Cache:     testCache,
		Validator: testLLM,
	})
	readFile = func(string) ([]byte, error) { return []byte("photo"), nil }
	isTerminal = func() bool { return false }

	return func() {
		scanService, historyService, settingsService, visionCache = prevScan, prevHistory, prevSettings, prevCache
		llmValidator = prevValidator
		readFile, isTerminal = prevRead, prevTerm
		resetFlags()
	}
}

func resetFlags() {
	decodePolicy, decodeBatch = "", ""
	decodeJSON, decodeHTML, decodeDebug, decodeSummary, decodeNoRecord = false, false, false, false, false
	historyLimit, historyJSON = 0, false
	annotateName, annotateBrand, annotateCategory, annotateNotes = "", "", "", ""
	for _, c := range []*cobra.Command{historyAnnotateCmd, decodeCmd, historyTopCmd, historyRecentCmd, historyShowCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}
