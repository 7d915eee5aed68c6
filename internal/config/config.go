package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable (OBS_SERVER_PORT, ...)
const EnvPrefix = "OBS"

// ConfigFileEnv names the variable that points at an explicit YAML config file
const ConfigFileEnv = "OBS_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Features  FeaturesConfig  `yaml:"features" envconfig:"FEATURES"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DatasetConfig locates the source table and sets the load-time exclusion rules
type DatasetConfig struct {
	Dir           string `yaml:"dir" envconfig:"DIR"`
	PrimaryFile   string `yaml:"primary_file" envconfig:"PRIMARY_FILE"`
	FallbackFile  string `yaml:"fallback_file" envconfig:"FALLBACK_FILE"`
	MinDate       string `yaml:"min_date" envconfig:"MIN_DATE"`
	LoadOnStartup bool   `yaml:"load_on_startup" envconfig:"LOAD_ON_STARTUP"`
	ExportBOM     bool   `yaml:"export_bom" envconfig:"EXPORT_BOM"`
}

// CandidatePaths returns the primary and fallback dataset paths in lookup order
func (d DatasetConfig) CandidatePaths() []string {
	var paths []string
	for _, name := range []string{d.PrimaryFile, d.FallbackFile} {
		if name == "" {
			continue
		}
		if filepath.IsAbs(name) {
			paths = append(paths, name)
			continue
		}
		paths = append(paths, filepath.Join(d.Dir, name))
	}
	return paths
}

// MinDateTime returns the parsed exclusion cutoff
func (d DatasetConfig) MinDateTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", d.MinDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dataset min_date %q: %w", d.MinDate, err)
	}
	return t, nil
}

// FeaturesConfig switches the extended dashboard features.
// Turning all of them off yields the minimal dashboard.
type FeaturesConfig struct {
	QuickPresets  bool `yaml:"quick_presets" envconfig:"QUICK_PRESETS"`
	Search        bool `yaml:"search" envconfig:"SEARCH"`
	AdvancedStats bool `yaml:"advanced_stats" envconfig:"ADVANCED_STATS"`
}

// AnalyticsConfig tunes aggregate sizes and the approval classification
type AnalyticsConfig struct {
	TopAuthors         int `yaml:"top_authors" envconfig:"TOP_AUTHORS"`
	TopPairs           int `yaml:"top_pairs" envconfig:"TOP_PAIRS"`
	RankingSize        int `yaml:"ranking_size" envconfig:"RANKING_SIZE"`
	MinBillsForRanking int `yaml:"min_bills_for_ranking" envconfig:"MIN_BILLS_FOR_RANKING"`
	// StatusCatalog maps exact status labels to their approved flag.
	// Empty keeps the substring rule for every label.
	StatusCatalog map[string]bool `yaml:"status_catalog" envconfig:"STATUS_CATALOG"`
}

// TelemetryConfig configures OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
	WriteWait       time.Duration `yaml:"write_wait" envconfig:"WRITE_WAIT"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override file values; unset variables leave them alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on top of cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalizes a few fields
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if c.Dataset.PrimaryFile == "" && c.Dataset.FallbackFile == "" {
		return fmt.Errorf("at least one dataset file must be configured")
	}

	if _, err := c.Dataset.MinDateTime(); err != nil {
		return err
	}

	if c.Analytics.TopAuthors <= 0 || c.Analytics.TopPairs <= 0 || c.Analytics.RankingSize <= 0 {
		return fmt.Errorf("analytics sizes must be positive")
	}

	if c.Analytics.MinBillsForRanking < 1 {
		return fmt.Errorf("analytics min_bills_for_ranking must be at least 1")
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	// Logs are always JSON
	c.Logging.Format = "json"

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/observatorio.log"
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return fmt.Errorf("unsupported metric exporter: %s", c.Telemetry.MetricExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0,1]")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/observatorio.log",
		},
		Dataset: DatasetConfig{
			Dir:           ".",
			PrimaryFile:   "base_observatorio_teresopolis_COMPLETA.csv",
			FallbackFile:  "base_observatorio_teresopolis.csv",
			MinDate:       "2024-01-01",
			LoadOnStartup: true,
			ExportBOM:     false,
		},
		Features: FeaturesConfig{
			QuickPresets:  true,
			Search:        true,
			AdvancedStats: true,
		},
		Analytics: AnalyticsConfig{
			TopAuthors:         10,
			TopPairs:           10,
			RankingSize:        10,
			MinBillsForRanking: 3,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "observatorio-legislativo",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
			WriteWait:       10 * time.Second,
		},
	}
}
