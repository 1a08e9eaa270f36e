package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure cloud OCR credentials, the vision cache, decoder
variants and the default pipeline policy.

Settings live in ~/.labelscan/config.toml. Environment variables such as
GOOGLE_VISION_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a single configuration value. Run 'labelscan settings keys' for the
list of keys.

Examples:
  labelscan settings set pipeline.policy parallel
  labelscan settings set cache.backend sqlite
  labelscan settings set decoders.improved_gg true`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured vision LLM is reachable",
	RunE:  runSettingsCheck,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Policy: %s (%s)\n", settings.Policy, settings.Policy.Description())
	cmd.Println()

	v := settings.Vision
	cmd.Println("[Vision]")
	cmd.Printf("  API Key: %s\n", describeKey(v.APIKey))
	if v.CredentialsFile != "" {
		cmd.Printf("  Credentials: %s\n", v.CredentialsFile)
	} else {
		cmd.Println("  Credentials: application default")
	}
	cmd.Printf("  Timeouts: REST %s, SDK %s\n", v.RESTTimeout, v.SDKTimeout)
	cmd.Printf("  Retries: %d attempts, base delay %s\n", v.MaxAttempts, v.BaseDelay)
	cmd.Printf("  Rate limit: %.1f req/s\n", v.RequestsPerSecond)
	cmd.Printf("  Languages: %s\n", strings.Join(v.LanguageHints, ", "))
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	if settings.Cache.Backend == domain.CacheBackendFile {
		cmd.Printf("  Directory: %s\n", settings.Cache.Dir)
	}
	cmd.Println()

	cmd.Println("[Decoders]")
	cmd.Printf("  Improved GG label decoder: %s\n", yesNo(settings.Decoders.ImprovedGG))
	cmd.Printf("  LLM barcode decoder: %s\n", yesNo(settings.Decoders.LLMBarcode))
	cmd.Println()

	llm := settings.LLM
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", llm.Provider)
	cmd.Printf("  Model: %s\n", orDefault(llm.Model))
	if llm.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", llm.BaseURL)
	}
	if llm.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(llm.APIKey))
	}
	if settings.Decoders.LLMBarcode && !llm.IsConfigured() {
		cmd.Println()
		cmd.Printf("Warning: the LLM barcode decoder is enabled but %s is not configured.\n", llm.Provider)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || llmValidator == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := llmValidator.ValidateLLM(cmd.Context(), settings.LLM); err != nil {
		return err
	}
	cmd.Printf("%s is reachable.\n", settings.LLM.Provider)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func describeKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(v string) string {
	if v == "" {
		return "(provider default)"
	}
	return v
}
