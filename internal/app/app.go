// Package app wires configuration into the selection and health services.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/config"
	"github.com/kailas-cloud/segmentd/internal/db"
	dbBleve "github.com/kailas-cloud/segmentd/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/segmentd/internal/db/redis"
	dbValkey "github.com/kailas-cloud/segmentd/internal/db/valkey"
	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
	pgdir "github.com/kailas-cloud/segmentd/internal/repository/directory/postgres"
	redisdir "github.com/kailas-cloud/segmentd/internal/repository/directory/redis"
	searchrepo "github.com/kailas-cloud/segmentd/internal/repository/search"
	healthuc "github.com/kailas-cloud/segmentd/internal/usecase/health"
	selectionuc "github.com/kailas-cloud/segmentd/internal/usecase/selection"
)

// App holds the wired services and the resources they own.
type App struct {
	Selection *selectionuc.Service
	Health    *healthuc.Service
	Search    db.Store
	Index     *db.IndexDefinition
	// DefaultContentType is used when a request names no content type.
	DefaultContentType string

	closers []func()
}

// New connects the configured backends and builds the services.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{DefaultContentType: cfg.Selection.ContentType}

	fields := cfg.Schema.Fields()
	def, err := db.SelectionIndex(cfg.Search.Index, cfg.Search.Prefixes, fields, cfg.Search.TagSeparator).Build()
	if err != nil {
		return nil, fmt.Errorf("build index definition: %w", err)
	}
	a.Index = def

	store, err := openSearch(cfg.Search, def)
	if err != nil {
		return nil, err
	}
	a.Search = store
	a.closers = append(a.closers, store.Close)

	readiness := time.Duration(cfg.Search.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		a.Close()
		return nil, fmt.Errorf("search backend not ready: %w", err)
	}
	logger.Info("Connected to search backend",
		zap.String("driver", cfg.Search.Driver),
		zap.Strings("addrs", cfg.Search.Addrs),
		zap.String("index", cfg.Search.Index),
	)

	dir, dirPinger, err := a.openDirectory(ctx, cfg, store)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("Connected to directory", zap.String("driver", cfg.Directory.Driver))

	exec := searchrepo.New(store, searchrepo.Config{
		Index:        cfg.Search.Index,
		PageSize:     cfg.Search.PageSize,
		TagSeparator: cfg.Search.TagSeparator,
	})

	a.Selection = selectionuc.New(
		selectionuc.NewInstrumentedExecutor(exec, logger),
		dir,
		query.NewBuilder(fields),
		selectionuc.WithLabel(cfg.Selection.Label),
	)
	a.Health = healthuc.New(store, dirPinger)
	return a, nil
}

// indexCreator is implemented by backends whose index is created out of band.
type indexCreator interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// EnsureIndex creates the search index when the backend supports it.
// It reports false for backends that derive the index from the definition on open.
func (a *App) EnsureIndex(ctx context.Context) (bool, error) {
	c, ok := a.Search.(indexCreator)
	if !ok {
		return false, nil
	}
	if err := c.CreateIndex(ctx, a.Index); err != nil {
		return true, fmt.Errorf("create index %s: %w", a.Index.Name, err)
	}
	return true, nil
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func openSearch(cfg config.SearchConfig, def *db.IndexDefinition) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case config.DriverValkey:
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case config.DriverBleve:
		store, err = dbBleve.NewStore(dbBleve.Config{Path: cfg.BlevePath, Definition: def})
	default:
		return nil, fmt.Errorf("unknown search driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s search backend: %w", cfg.Driver, err)
	}
	return store, nil
}

// openDirectory returns the directory and the pinger reported by health checks.
// The redis directory reuses the search connection when the search driver speaks RESP.
func (a *App) openDirectory(
	ctx context.Context, cfg config.Config, search db.Store,
) (selectionuc.Directory, healthuc.Pinger, error) {
	switch cfg.Directory.Driver {
	case config.DriverRedis:
		var rs *dbRedis.Store
		switch s := search.(type) {
		case *dbRedis.Store:
			rs = s
		case *dbValkey.Store:
			rs = s.Store
		default:
			var err error
			rs, err = dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Search.Addrs,
				Username: cfg.Search.Username,
				Password: cfg.Search.Password,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("open redis directory: %w", err)
			}
			a.closers = append(a.closers, rs.Close)
		}
		return redisdir.New(rs, cfg.Directory.KeyPrefix), rs, nil

	case config.DriverPostgres:
		pool, err := pgdir.Open(ctx, pgdir.Config{
			DSN:      cfg.Directory.DSN,
			MaxConns: cfg.Directory.MaxConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres directory: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		repo := pgdir.New(pool)
		return repo, repo, nil

	default:
		return nil, nil, fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
	}
}
