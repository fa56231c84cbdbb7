// Package config defines all configuration structures for dockprep.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RCSBConfig holds the RCSB endpoints and fetch behavior.
type RCSBConfig struct {
	// StructureURL is the structure-detail page, with %s replaced by the
	// upper-cased PDB ID.
	StructureURL string `mapstructure:"structure_url"`

	// DownloadURL is the raw-file download endpoint, with %s replaced by the
	// structure filename, e.g. "6LU7.pdb".
	DownloadURL string `mapstructure:"download_url"`

	// PageTimeout bounds the metadata page fetch.  The file download
	// deliberately carries no timeout; large entries can be slow.
	PageTimeout time.Duration `mapstructure:"page_timeout"`

	// UserAgent is sent on every outbound request.
	UserAgent string `mapstructure:"user_agent"`
}

// ToolsConfig holds the external tool invocation parameters.
type ToolsConfig struct {
	PDB2PQRBin      string  `mapstructure:"pdb2pqr_bin"`
	OpenBabelBin    string  `mapstructure:"obabel_bin"`
	ForceField      string  `mapstructure:"force_field"`
	TitrationMethod string  `mapstructure:"titration_method"`
	DefaultPH       float64 `mapstructure:"default_ph"`

	// WorkDir is where downloaded and generated files are placed when the
	// caller does not specify an output directory.
	WorkDir string `mapstructure:"work_dir"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection and cache parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	GroupID      string        `mapstructure:"group_id"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
// The artifact store is optional; when Enabled is false the worker keeps
// results on the local filesystem only.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// WorkerConfig holds background-worker execution parameters.
type WorkerConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	HealthPort     int           `mapstructure:"health_port"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration object for all dockprep processes.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	RCSB     RCSBConfig        `mapstructure:"rcsb"`
	Tools    ToolsConfig       `mapstructure:"tools"`
	Database DatabaseConfig    `mapstructure:"database"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	MinIO    MinIOConfig       `mapstructure:"minio"`
	Worker   WorkerConfig      `mapstructure:"worker"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
	Log      logging.LogConfig `mapstructure:"log"`
}

// Validate checks cross-field consistency.  It assumes ApplyDefaults has
// already run, so it only rejects values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Tools.DefaultPH < 0 || c.Tools.DefaultPH > 14 {
		return fmt.Errorf("tools.default_ph out of range: %v", c.Tools.DefaultPH)
	}
	if c.RCSB.PageTimeout <= 0 {
		return fmt.Errorf("rcsb.page_timeout must be positive, got %v", c.RCSB.PageTimeout)
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("minio.endpoint is required when minio.enabled is true")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("worker.concurrency must be at least 1, got %d", c.Worker.Concurrency)
	}
	return nil
}
