package segmentd

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	searchDriver string // "redis", "valkey" or "bleve"
	addrs        []string
	password     string
	blevePath    string
	index        string
	prefixes     []string

	directoryDriver string // "redis" or "postgres"
	dsn             string
	keyPrefix       string

	fields      *Fields
	contentType string
	label       string
	pageSize    int
	readiness   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis searches a Redis instance with the search module (FT.SEARCH).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchDriver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey searches a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchDriver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBleve searches an embedded bleve index at path. Empty path keeps the index in memory.
// Bleve has no key-value store, so pair it with WithPostgresDirectory.
func WithBleve(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchDriver = "bleve"
		c.blevePath = path
	})
}

// WithIndex sets the search index name and key prefixes. Default: "assets".
func WithIndex(name string, prefixes ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
		c.prefixes = prefixes
	})
}

// WithPostgresDirectory reads entries and interest tags from PostgreSQL.
func WithPostgresDirectory(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.directoryDriver = "postgres"
		c.dsn = dsn
	})
}

// WithRedisDirectory reads entries and interest tags from the search instance
// under keyPrefix. This is the default directory.
func WithRedisDirectory(keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.directoryDriver = "redis"
		c.keyPrefix = keyPrefix
	})
}

// WithSchema overrides the indexed field names.
func WithSchema(f Fields) Option {
	return optionFunc(func(c *clientConfig) {
		c.fields = &f
	})
}

// WithContentType sets the default content type for Select.
// Default: "com.liferay.journal.model.JournalArticle".
func WithContentType(className string) Option {
	return optionFunc(func(c *clientConfig) {
		c.contentType = className
	})
}

// WithLabel sets the provider label. Default: "Principal Banner".
func WithLabel(label string) Option {
	return optionFunc(func(c *clientConfig) {
		c.label = label
	})
}

// WithPageSize sets how many hits are fetched per search round-trip. Default: 500.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithReadinessTimeout bounds the initial wait for the search backend. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
