package config

import "time"

// Default value constants.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStructureURL = "https://www.rcsb.org/structure/%s"
	DefaultDownloadURL  = "https://files.rcsb.org/download/%s"
	DefaultPageTimeout  = 10 * time.Second
	DefaultUserAgent    = "dockprep/1.0"

	DefaultPDB2PQRBin      = "pdb2pqr"
	DefaultOpenBabelBin    = "obabel"
	DefaultForceField      = "AMBER"
	DefaultTitrationMethod = "propka"
	DefaultPH              = 7.4
	DefaultWorkDir         = "data"

	DefaultDBHost        = "localhost"
	DefaultDBPort        = 5432
	DefaultDBName        = "dockprep"
	DefaultDBUser        = "dockprep"
	DefaultDBSSLMode     = "disable"
	DefaultMigrationPath = "migrations"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisTTL       = 15 * time.Minute
	DefaultRedisKeyPrefix = "dockprep:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaTopic   = "structure.prepare"
	DefaultKafkaGroupID = "dockprep-workers"

	DefaultMinIOBucket = "dockprep-artifacts"

	DefaultWorkerConcurrency    = 2
	DefaultWorkerHandlerTimeout = 10 * time.Minute
	DefaultWorkerHealthPort     = 8081

	DefaultMetricsNamespace = "dockprep"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller are left unchanged so that
// explicit configuration always wins.  It must be called after unmarshalling
// and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// Server
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// RCSB
	if cfg.RCSB.StructureURL == "" {
		cfg.RCSB.StructureURL = DefaultStructureURL
	}
	if cfg.RCSB.DownloadURL == "" {
		cfg.RCSB.DownloadURL = DefaultDownloadURL
	}
	if cfg.RCSB.PageTimeout == 0 {
		cfg.RCSB.PageTimeout = DefaultPageTimeout
	}
	if cfg.RCSB.UserAgent == "" {
		cfg.RCSB.UserAgent = DefaultUserAgent
	}

	// Tools
	if cfg.Tools.PDB2PQRBin == "" {
		cfg.Tools.PDB2PQRBin = DefaultPDB2PQRBin
	}
	if cfg.Tools.OpenBabelBin == "" {
		cfg.Tools.OpenBabelBin = DefaultOpenBabelBin
	}
	if cfg.Tools.ForceField == "" {
		cfg.Tools.ForceField = DefaultForceField
	}
	if cfg.Tools.TitrationMethod == "" {
		cfg.Tools.TitrationMethod = DefaultTitrationMethod
	}
	if cfg.Tools.DefaultPH == 0 {
		cfg.Tools.DefaultPH = DefaultPH
	}
	if cfg.Tools.WorkDir == "" {
		cfg.Tools.WorkDir = DefaultWorkDir
	}

	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// Redis
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}

	// Kafka
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	// MinIO
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// Worker
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.HandlerTimeout == 0 {
		cfg.Worker.HandlerTimeout = DefaultWorkerHandlerTimeout
	}
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}

	// Metrics
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
// It is used by processes started without a config file.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
