package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/ai"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/config/file"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/storage/artifacts"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/storage/sqlite"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driven/vectorindex/flat"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/cli"
	"github.com/Akashog123/textile-saas-app-sub000/internal/adapters/driving/watch"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/services"
	"github.com/Akashog123/textile-saas-app-sub000/internal/exporters"
	"github.com/Akashog123/textile-saas-app-sub000/internal/exporters/catalog"
	"github.com/Akashog123/textile-saas-app-sub000/internal/exporters/sales"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
	"github.com/Akashog123/textile-saas-app-sub000/internal/postprocessors/chunker"
)

// paths are the resolved on-disk locations.
type paths struct {
	config   string
	data     string
	database string
	uploads  string
	prompts  string
}

func resolvePaths(opts cli.Options, settings *domain.AppSettings) (paths, error) {
	p := paths{config: opts.ConfigDir}
	if p.config == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return paths{}, fmt.Errorf("get home directory: %w", err)
		}
		p.config = filepath.Join(home, file.DefaultDirName)
	}

	p.data = firstNonEmpty(opts.DataDir, settings.Paths.DataDir, filepath.Join(p.config, "data"))
	p.database = firstNonEmpty(settings.Paths.Database, filepath.Join(p.config, "loom.db"))
	p.uploads = firstNonEmpty(settings.Paths.UploadsDir, filepath.Join(p.config, "uploads"))
	p.prompts = filepath.Join(p.config, "prompts")
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// openServices constructs every service from configuration. Missing AI
// providers do not fail: commands that need them report it themselves.
func openServices(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	p, err := resolvePaths(opts, settings)
	if err != nil {
		return nil, err
	}
	logger.Debug("config %s, data %s, database %s", configStore.Path(), p.data, p.database)

	store, err := sqlite.NewStore(p.database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	artifactStore, err := artifacts.NewStore(p.data)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open index data: %w", err), store.Close())
	}

	aiServices, err := ai.Init(settings)
	if err != nil {
		logger.Debug("ai: %v", err)
		aiServices = &ai.InitResult{}
	}
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	index := services.NewIndexService(services.IndexServiceConfig{
		Embedding:     aiServices.EmbeddingService,
		Builder:       flat.Builder{},
		Artifacts:     artifactStore,
		Chunker:       chunker.New(chunker.WithChunkSize(settings.Index.ChunkSize)),
		BatchSize:     settings.Index.BatchSize,
		BatchInterval: settings.Index.BatchInterval,
	})

	exporter := exporters.NewRouter(
		sales.New(store.SalesStore(), sales.WithLookbackMonths(settings.Index.LookbackMonths)),
		catalog.New(store.CatalogStore()),
	)
	refresher := services.NewRefresher(exporter, index, store.RunStore())

	assistant := services.NewAssistant(index, aiServices.LLMService, settings.Index.TopK, settings.Index.CatalogTopK)
	assistant.SetGenerateOptions(settings.LLM.MaxTokens, settings.LLM.Temperature)
	if prompts, err := file.NewPromptStore(p.prompts); err != nil {
		logger.Warn("prompts: %v, using built-in templates", err)
	} else {
		assistant.SetPromptStore(prompts)
	}

	result := &cli.Services{
		Index:     index,
		Refresh:   refresher,
		Assistant: assistant,
		Settings:  settingsService,
		Scheduler: services.NewScheduler(settings.Scheduler, artifactStore, refresher),
		Tenants:   artifactStore.List,
		Close: func() error {
			refresher.Stop()
			aiServices.Close()
			return store.Close()
		},
	}
	if settings.Watch.Enabled {
		uploads, delay := p.uploads, settings.Watch.Delay
		result.OpenWatcher = func() (cli.Watcher, error) {
			w, err := watch.NewUploadWatcher(uploads, refresher, delay)
			if err != nil {
				return nil, err
			}
			return w, nil
		}
	}
	return result, nil
}
