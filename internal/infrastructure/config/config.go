package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Indexer  IndexerConfig  `mapstructure:"indexer"`
	Report   ReportConfig   `mapstructure:"report"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Neo4J    Neo4JConfig    `mapstructure:"neo4j"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPPort int    `mapstructure:"http_port"`
}

// IndexerConfig represents indexer client and fetch loop configuration
type IndexerConfig struct {
	URL        string        `mapstructure:"url"`
	Token      string        `mapstructure:"token"`
	FetchLimit uint64        `mapstructure:"fetch_limit"`
	PageDelay  time.Duration `mapstructure:"page_delay"`
	ErrorDelay time.Duration `mapstructure:"error_delay"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ReportConfig represents transparency report configuration
type ReportConfig struct {
	// AppID is the tracked on-chain application; the escrow (home) address
	// is derived from it unless HomeAddress overrides it.
	AppID            uint64            `mapstructure:"app_id"`
	HomeAddress      string            `mapstructure:"home_address"`
	CacheDir         string            `mapstructure:"cache_dir"`
	ProjectAddresses map[string]string `mapstructure:"project_addresses"`
}

// ExplorerConfig represents explorer link configuration
type ExplorerConfig struct {
	Backend string `mapstructure:"backend"`
	Network string `mapstructure:"network"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL               string        `mapstructure:"url"`
	StreamName        string        `mapstructure:"stream_name"`
	SubjectPrefix     string        `mapstructure:"subject_prefix"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	Enabled           bool          `mapstructure:"enabled"`
}

// Neo4JConfig represents Neo4J configuration
type Neo4JConfig struct {
	URI                          string        `mapstructure:"uri"`
	Username                     string        `mapstructure:"username"`
	Password                     string        `mapstructure:"password"`
	Database                     string        `mapstructure:"database"`
	ConnectTimeout               time.Duration `mapstructure:"connect_timeout"`
	MaxConnectionPoolSize        int           `mapstructure:"max_connection_pool_size"`
	ConnectionAcquisitionTimeout time.Duration `mapstructure:"connection_acquisition_timeout"`
	Enabled                      bool          `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/rewards-transparency-indexer")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("")

	// Map environment variables to nested config keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Default values
	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.http_port", 8080)

	// Indexer defaults
	viper.SetDefault("indexer.url", "https://testnet-idx.4160.nodely.dev")
	viper.SetDefault("indexer.token", "")
	viper.SetDefault("indexer.fetch_limit", 1000)
	viper.SetDefault("indexer.page_delay", "1s")
	viper.SetDefault("indexer.error_delay", "5s")
	viper.SetDefault("indexer.max_retries", 20)

	// Report defaults
	viper.SetDefault("report.app_id", 0)
	viper.SetDefault("report.home_address", "")
	viper.SetDefault("report.cache_dir", "fixtures")
	viper.SetDefault("report.project_addresses", map[string]string{})

	// Explorer defaults
	viper.SetDefault("explorer.backend", "allo")
	viper.SetDefault("explorer.network", "mainnet")

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.stream_name", "REPORTS")
	viper.SetDefault("nats.subject_prefix", "reports")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.enabled", false)

	// Neo4J defaults
	viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "password")
	viper.SetDefault("neo4j.database", "neo4j")
	viper.SetDefault("neo4j.connect_timeout", "10s")
	viper.SetDefault("neo4j.max_connection_pool_size", 50)
	viper.SetDefault("neo4j.connection_acquisition_timeout", "60s")
	viper.SetDefault("neo4j.enabled", false)

	// Bind env for service endpoints
	viper.BindEnv("indexer.url", "INDEXER_URL")
	viper.BindEnv("explorer.backend", "EXPLORER_BACKEND")
	viper.BindEnv("explorer.network", "EXPLORER_NETWORK")
	viper.BindEnv("nats.url", "NATS_URL")
}
