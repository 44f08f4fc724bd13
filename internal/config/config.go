package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/segmentd/internal/domain/selection/query"
)

// Search drivers.
const (
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
	DriverBleve    = "bleve"
	DriverPostgres = "postgres"
)

// Config holds the segmentd configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Search    SearchConfig    `yaml:"search"`
	Directory DirectoryConfig `yaml:"directory"`
	Schema    SchemaConfig    `yaml:"schema"`
	Selection SelectionConfig `yaml:"selection"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds search backend settings.
type SearchConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, bleve (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"`
	Prefixes         []string `yaml:"prefixes"`
	BlevePath        string   `yaml:"bleve_path"` // empty: in-memory
	PageSize         int      `yaml:"page_size"`
	TagSeparator     string   `yaml:"tag_separator"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// DirectoryConfig holds entry and tag directory settings.
type DirectoryConfig struct {
	Driver    string `yaml:"driver"` // redis, postgres (default: redis)
	DSN       string `yaml:"dsn"`
	KeyPrefix string `yaml:"key_prefix"`
	MaxConns  int32  `yaml:"max_conns"`
}

// SchemaConfig names the indexed document fields.
type SchemaConfig struct {
	Scope       string `yaml:"scope"`
	ContentType string `yaml:"content_type"`
	Category    string `yaml:"category"`
	Modified    string `yaml:"modified"`
	Tags        string `yaml:"tags"`
	Reference   string `yaml:"reference"`
}

// SelectionConfig holds selection defaults.
type SelectionConfig struct {
	ContentType string `yaml:"content_type"`
	Label       string `yaml:"label"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Driver == "" {
		c.Search.Driver = DriverRedis
	}
	if c.Search.Index == "" {
		c.Search.Index = "assets"
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 500
	}
	if c.Search.TagSeparator == "" && c.Search.Driver != DriverBleve {
		c.Search.TagSeparator = ","
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 10
	}
	if c.Directory.Driver == "" {
		c.Directory.Driver = DriverRedis
	}
	if c.Directory.KeyPrefix == "" {
		c.Directory.KeyPrefix = "segmentd:"
	}

	def := query.DefaultFields()
	setDefault(&c.Schema.Scope, def.Scope)
	setDefault(&c.Schema.ContentType, def.ContentType)
	setDefault(&c.Schema.Category, def.Category)
	setDefault(&c.Schema.Modified, def.Modified)
	setDefault(&c.Schema.Tags, def.Tags)
	setDefault(&c.Schema.Reference, def.Reference)

	setDefault(&c.Selection.ContentType, "com.liferay.journal.model.JournalArticle")
	setDefault(&c.Selection.Label, "Principal Banner")
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Search.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Search.Addrs) == 0 {
			return fmt.Errorf("search.addrs is required for driver %q", c.Search.Driver)
		}
	case DriverBleve:
	default:
		return fmt.Errorf("search.driver must be \"redis\", \"valkey\" or \"bleve\", got %q", c.Search.Driver)
	}

	switch c.Directory.Driver {
	case DriverRedis:
		if len(c.Search.Addrs) == 0 {
			return fmt.Errorf("directory driver %q reads from search.addrs, which is empty", DriverRedis)
		}
	case DriverPostgres:
		if c.Directory.DSN == "" {
			return fmt.Errorf("directory.dsn is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("directory.driver must be \"redis\" or \"postgres\", got %q", c.Directory.Driver)
	}

	if err := c.Schema.Fields().Validate(); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Fields converts the schema section into query field names.
func (s SchemaConfig) Fields() query.Fields {
	return query.Fields{
		Scope:       s.Scope,
		ContentType: s.ContentType,
		Category:    s.Category,
		Modified:    s.Modified,
		Tags:        s.Tags,
		Reference:   s.Reference,
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
