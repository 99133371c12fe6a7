package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driving"
)

func newSettingsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage application settings",
		Long: `View and configure AI providers and index options.

Use subcommands to configure specific settings or run the interactive wizard.`,
		RunE: app.runSettingsShow,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current settings",
			RunE:  app.runSettingsShow,
		},
		&cobra.Command{
			Use:   "wizard",
			Short: "Interactive setup wizard",
			Long:  `Run an interactive wizard to configure the embedding and LLM providers.`,
			RunE:  app.runSettingsWizard,
		},
		&cobra.Command{
			Use:   "embedding",
			Short: "Configure embedding provider",
			Long:  `Configure the embedding provider used to build and query indexes.`,
			RunE: func(cmd *cobra.Command, _ []string) error {
				settings, err := app.settings()
				if err != nil {
					return err
				}
				return configureEmbeddingProvider(cmd, settings, bufio.NewReader(cmd.InOrStdin()))
			},
		},
		&cobra.Command{
			Use:   "llm",
			Short: "Configure LLM provider",
			Long:  `Configure the LLM provider that answers questions from retrieved context.`,
			RunE: func(cmd *cobra.Command, _ []string) error {
				settings, err := app.settings()
				if err != nil {
					return err
				}
				return configureLLMProvider(cmd, settings, bufio.NewReader(cmd.InOrStdin()))
			},
		},
		&cobra.Command{
			Use:       "set-key <embedding|llm>",
			Short:     "Replace the API key of a provider",
			Long:      `Read a new API key without echo and store it for the configured provider.`,
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"embedding", "llm"},
			RunE:      app.runSettingsSetKey,
		},
	)
	return cmd
}

func (a *App) runSettingsShow(cmd *cobra.Command, _ []string) error {
	service, err := a.settings()
	if err != nil {
		return err
	}

	settings, err := service.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	printProviderAccess(cmd, settings.Embedding.Provider, settings.Embedding.BaseURL, settings.Embedding.APIKey)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	printProviderAccess(cmd, settings.LLM.Provider, settings.LLM.BaseURL, settings.LLM.APIKey)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Chunk size: %d\n", settings.Index.ChunkSize)
	cmd.Printf("  Embedding batch: %d every %s\n", settings.Index.BatchSize, settings.Index.BatchInterval)
	cmd.Printf("  Sales lookback: %d months\n", settings.Index.LookbackMonths)
	cmd.Printf("  Top K: %d (catalog %d)\n", settings.Index.TopK, settings.Index.CatalogTopK)
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Data: %s\n", orDefault(settings.Paths.DataDir))
	cmd.Printf("  Database: %s\n", orDefault(settings.Paths.Database))
	cmd.Printf("  Uploads: %s\n", orDefault(settings.Paths.UploadsDir))
	cmd.Println()

	cmd.Println("[Background]")
	if settings.Scheduler.Enabled {
		cmd.Printf("  Scheduler: every %s\n", settings.Scheduler.Interval)
	} else {
		cmd.Println("  Scheduler: disabled")
	}
	if settings.Watch.Enabled {
		cmd.Printf("  Upload watcher: rebuild %s after changes\n", settings.Watch.Delay)
	} else {
		cmd.Println("  Upload watcher: disabled")
	}
	cmd.Println()

	if err := service.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'loom settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProviderAccess(cmd *cobra.Command, provider domain.AIProvider, baseURL, apiKey string) {
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orDefault(path string) string {
	if path == "" {
		return "(default)"
	}
	return path
}

func (a *App) runSettingsWizard(cmd *cobra.Command, _ []string) error {
	service, err := a.settings()
	if err != nil {
		return err
	}

	cmd.Println("Loom Settings Wizard")
	cmd.Println("====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	cmd.Println("Indexes are built from embeddings, so a provider is required.")
	cmd.Println()
	if err := configureEmbeddingProvider(cmd, service, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	cmd.Print("Answer questions with an LLM? [Y/n]: ")
	if answer := strings.ToLower(readLine(reader)); answer == "n" || answer == "no" {
		cmd.Println("Skipped. 'loom ask' will print the retrieved context instead.")
		cmd.Println()
	} else if err := configureLLMProvider(cmd, service, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := service.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func (a *App) runSettingsSetKey(cmd *cobra.Command, args []string) error {
	service, err := a.settings()
	if err != nil {
		return err
	}
	settings, err := service.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	var provider domain.AIProvider
	switch args[0] {
	case "embedding":
		provider = settings.Embedding.Provider
	case "llm":
		provider = settings.LLM.Provider
	default:
		return fmt.Errorf("%w: unknown provider kind %q (want embedding or llm)", domain.ErrInvalidInput, args[0])
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%s provider %q does not use an API key", args[0], provider)
	}

	cmd.Printf("Enter API key for %s: ", provider.Description())
	apiKey := readPassword(cmd.InOrStdin(), bufio.NewReader(cmd.InOrStdin()))
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	if args[0] == "embedding" {
		settings.Embedding.APIKey = apiKey
	} else {
		settings.LLM.APIKey = apiKey
	}
	if err := service.Save(settings); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	cmd.Printf("API key for %s saved: %s\n", provider, maskAPIKey(apiKey))
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, service driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := service.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := service.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	cmd.Println("Existing indexes built with another model are rebuilt on their next refresh.")
	cmd.Println()
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, service driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := service.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := service.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal and falls back
// to a plain line otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
