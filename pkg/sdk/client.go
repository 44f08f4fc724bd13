package segmentd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmentd/internal/app"
	"github.com/kailas-cloud/segmentd/internal/config"
	"github.com/kailas-cloud/segmentd/internal/domain/entry"
	domsel "github.com/kailas-cloud/segmentd/internal/domain/selection"
)

const defaultReadinessTimeout = 10 * time.Second

// selectionUseCase is the internal interface over the selection service.
type selectionUseCase interface {
	Select(ctx context.Context, req domsel.Request) (domsel.Selection, error)
	TopViewed(ctx context.Context, asc bool, start, end int) ([]entry.Entry, error)
	CountEntries(ctx context.Context, companyID int64) (int, error)
	Label() string
}

// Client is the segmentd SDK entry point.
type Client struct {
	selSvc      selectionUseCase
	healthSvc   healthUseCase
	contentType string
	close       func()
	obs         *observer
}

// New creates a Client and connects to the search backend and the directory.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readiness: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	appCfg, err := cfg.toConfig()
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, appCfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("segmentd: %w", err)
	}

	return &Client{
		selSvc:      a.Selection,
		healthSvc:   a.Health,
		contentType: appCfg.Selection.ContentType,
		close:       a.Close,
		obs:         obs,
	}, nil
}

// ceilSeconds converts d to whole seconds, rounding up so a sub-second
// timeout is not lost to the default.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// toConfig maps options onto the service configuration.
func (c *clientConfig) toConfig() (config.Config, error) {
	if c.searchDriver == "" {
		return config.Config{}, errors.New("segmentd: search backend required (use WithRedis, WithValkey or WithBleve)")
	}

	cfg := config.Config{
		// Port is unused by the SDK but keeps the config valid.
		HTTP: config.HTTPConfig{Port: 1},
		Search: config.SearchConfig{
			Driver:           c.searchDriver,
			Addrs:            c.addrs,
			Password:         c.password,
			Index:            c.index,
			Prefixes:         c.prefixes,
			BlevePath:        c.blevePath,
			PageSize:         c.pageSize,
			ReadinessTimeout: ceilSeconds(c.readiness),
		},
		Directory: config.DirectoryConfig{
			Driver:    c.directoryDriver,
			DSN:       c.dsn,
			KeyPrefix: c.keyPrefix,
		},
		Selection: config.SelectionConfig{
			ContentType: c.contentType,
			Label:       c.label,
		},
	}
	if c.fields != nil {
		cfg.Schema = config.SchemaConfig{
			Scope:       c.fields.Scope,
			ContentType: c.fields.ContentType,
			Category:    c.fields.Category,
			Modified:    c.fields.Modified,
			Tags:        c.fields.Tags,
			Reference:   c.fields.Reference,
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("segmentd: %w", err)
	}
	return cfg, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}
