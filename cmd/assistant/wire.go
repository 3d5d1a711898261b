package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/ai"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/config/file"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/jsonfile"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/memory"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/cli"
	"github.com/Shaun-Gulati/internal-assistant/internal/connectors/filesystem"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/services"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
	"github.com/Shaun-Gulati/internal-assistant/internal/normalisers"
	"github.com/Shaun-Gulati/internal-assistant/internal/postprocessors"
)

// bootstrap wires the driven adapters into the core services.
func bootstrap(configDir string) (*cli.Services, error) {
	logger.Section("Bootstrap")

	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("ignoring .env: %v", err)
	}

	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir, file.WithOverrides(file.EnvOverrides(nil)))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	persister, closePersister, err := openPersister(settings.Storage)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	store := memory.NewVectorStore(persister, memory.WithAccessPolicy(settings.Access))
	if err := store.Load(ctx); err != nil {
		_ = closePersister()
		return nil, fmt.Errorf("load store: %w", err)
	}
	stats := store.Stats()
	logger.Debug("store: %s (%d documents)", store.Location(), stats.Documents)

	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		logger.Warn("%v", err)
		embedder = nil
	}
	if embedder == nil {
		logger.Debug("embedding service not configured; semantic features disabled")
	} else {
		logger.Debug("embedding: %s (%d dims)", embedder.ModelName(), embedder.Dimensions())
	}

	chunker, err := postprocessors.NewChunker(settings.Chunking)
	if err != nil {
		_ = closePersister()
		return nil, fmt.Errorf("build chunker: %w", err)
	}

	documentService := services.NewDocumentService(store, normalisers.NewDefaultRegistry(), chunker, embedder)
	searchService := services.NewSearchService(store, embedder, settings.Search.DefaultLimit)

	return &cli.Services{
		Document: documentService,
		Search:   searchService,
		Settings: settingsService,
		NewInbox: func(dir string, role domain.Role) driving.InboxService {
			return services.NewInboxService(documentService, filesystem.New(dir), role)
		},
		Close: func() error {
			var errs []error
			if embedder != nil {
				errs = append(errs, embedder.Close())
			}
			errs = append(errs, closePersister())
			return errors.Join(errs...)
		},
	}, nil
}

// openPersister returns the persister for the configured backend and a
// function releasing it.
func openPersister(storage domain.StorageSettings) (driven.Persister, func() error, error) {
	switch storage.Backend {
	case domain.StorageBackendSQLite:
		db, err := sqlite.NewStore(storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, db.Close, nil
	default:
		return jsonfile.New(storage.Path), func() error { return nil }, nil
	}
}
