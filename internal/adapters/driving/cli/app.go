package cli

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/auth"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/files"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/memcached"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ocesync/internal/connectors/oce"
	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/core/ports/driving"
	"github.com/custodia-labs/ocesync/internal/core/services"
	"github.com/custodia-labs/ocesync/internal/logger"
	"github.com/custodia-labs/ocesync/internal/normalisers"
)

// appOptions carries command line choices into the wiring.
type appOptions struct {
	ConfigPath string
	Overrides  map[string]any
	Prune      bool
}

// App holds the wired services for one command invocation.
type App struct {
	Settings     *domain.SyncSettings
	ConfigPath   string
	Orchestrator driving.SyncOrchestrator
	Registry     driven.NodeRegistry
	Cache        driven.MediaCache

	closers []func() error
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// appFactory builds the App for a command. Tests replace it.
var appFactory = openApp

// openApp loads configuration and wires every adapter.
func openApp(opts appOptions) (*App, error) {
	store, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for k, v := range opts.Overrides {
		if err := store.Set(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	settings, err := services.LoadSettings(store)
	if err != nil {
		return nil, err
	}
	if settings.Debug {
		logger.SetVerbose(true)
	}

	app := &App{Settings: settings, ConfigPath: store.Path()}
	if err := app.openStorage(); err != nil {
		_ = app.Close()
		return nil, err
	}

	httpClient, err := oce.NewHTTPClient(settings.ProxyURL, settings.RequestTimeout)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	tokens := auth.NewTokenProvider(settings, httpClient)
	client := oce.NewClient(oce.ConfigFromSettings(settings, "ocesync/"+version), httpClient, tokens)

	media := services.NewMediaSynchronizer(
		app.Cache,
		app.Registry,
		files.NewRemoteFetcher(settings.DataDir, httpClient, app.Registry, settings.ContentServer),
		client,
		files.NewStaticWriter(settings.StaticPublicDir, settings.StaticAssetRootDir),
		tokens,
		settings.MediaConcurrency,
	)
	orchestrator := services.NewSyncOrchestrator(
		settings,
		client,
		normalisers.Default(app.Registry, settings.ChannelToken),
		media,
		app.Registry,
		oce.NewDebugDir(settings.DebugDir),
	)
	orchestrator.SetPrune(opts.Prune)
	app.Orchestrator = orchestrator

	return app, nil
}

// openStorage opens the registry and media cache backends.
// Both sqlite roles share one database.
func (a *App) openStorage() error {
	s := a.Settings

	var db *sqlite.Store
	if s.RegistryBackend == domain.BackendSQLite || s.Cache.Backend == domain.BackendSQLite {
		var err error
		db, err = sqlite.NewStore(s.DataDir)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		logger.Debug("Using sqlite store at %s", db.Path())
	}

	switch s.RegistryBackend {
	case domain.BackendSQLite:
		a.Registry = db.NodeRegistry()
	case domain.BackendMemory:
		a.Registry = memory.NewNodeRegistry()
	default:
		return fmt.Errorf("registry %q: %w", s.RegistryBackend, domain.ErrUnsupportedBackend)
	}

	switch s.Cache.Backend {
	case domain.BackendSQLite:
		a.Cache = db.MediaCache()
	case domain.BackendMemory:
		a.Cache = memory.NewMediaCache()
	case domain.BackendRedis:
		c, err := redis.NewMediaCache(redis.Config{
			Addr:      s.Cache.RedisAddr,
			Password:  s.Cache.RedisPassword,
			DB:        s.Cache.RedisDB,
			KeyPrefix: s.Cache.KeyPrefix,
		})
		if err != nil {
			return fmt.Errorf("open redis cache: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		a.Cache = c
	case domain.BackendMemcached:
		c, err := memcached.NewMediaCache(s.Cache.KeyPrefix, s.Cache.MemcachedServer)
		if err != nil {
			return fmt.Errorf("open memcached cache: %w", err)
		}
		if err := c.Ping(); err != nil {
			return fmt.Errorf("memcached ping failed: %w", err)
		}
		a.Cache = c
	default:
		return fmt.Errorf("cache %q: %w", s.Cache.Backend, domain.ErrUnsupportedBackend)
	}
	return nil
}
