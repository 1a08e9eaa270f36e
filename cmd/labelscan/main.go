// Command labelscan decodes barcodes, QR codes and GG labels from product photos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/labelscan/internal/adapters/driven/ai"
	"github.com/custodia-labs/labelscan/internal/adapters/driven/cache/file"
	"github.com/custodia-labs/labelscan/internal/adapters/driven/cache/memory"
	configfile "github.com/custodia-labs/labelscan/internal/adapters/driven/config/file"
	"github.com/custodia-labs/labelscan/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/labelscan/internal/adapters/driving/cli"
	"github.com/custodia-labs/labelscan/internal/connectors/google/vision"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/services"
	"github.com/custodia-labs/labelscan/internal/decoders"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// version is set by the linker.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	home, err := configfile.HomeDir()
	if err != nil {
		return err
	}

	configStore, err := configfile.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	cache, err := openCache(settings.Cache, store)
	if err != nil {
		return err
	}

	deps := decoders.Deps{Cache: cache}
	if text := vision.NewClient(ctx, vision.ConfigFromSettings(settings.Vision)); text.Available() {
		deps.Text = text
	} else {
		logger.Info("Cloud Vision not configured; OCR decoders are disabled")
	}

	if settings.Decoders.LLMBarcode {
		llm, err := ai.CreateVisionLLM(settings.LLM)
		if err != nil {
			logger.Warn("LLM barcode decoder disabled: %v", err)
		} else {
			deps.LLM = llm
		}

		prompts, err := configfile.NewPromptStore(filepath.Join(home, "prompts"))
		if err != nil {
			return fmt.Errorf("opening prompts: %w", err)
		}
		deps.Prompts = prompts
	}

	decs, err := decoders.NewDefault(settings.Decoders, deps)
	if err != nil {
		return fmt.Errorf("building decoders: %w", err)
	}
	pipeline := services.NewPipeline(decs)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Scan:      services.NewScanService(pipeline, store.ScanStore(), settings.Policy),
		History:   services.NewHistoryService(store.ScanStore()),
		Settings:  settingsService,
		Cache:     cache,
		Validator: ai.NewConfigValidator(),
	})
	return cli.ExecuteContext(ctx)
}

// openCache returns the configured vision cache, or nil when caching is off.
func openCache(cfg domain.CacheSettings, store *sqlite.Store) (driven.VisionCache, error) {
	switch cfg.Backend {
	case domain.CacheBackendNone:
		return nil, nil
	case domain.CacheBackendMemory:
		return memory.New(), nil
	case domain.CacheBackendSQLite:
		return store.VisionCache(), nil
	default:
		c, err := file.New(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening vision cache: %w", err)
		}
		return c, nil
	}
}
