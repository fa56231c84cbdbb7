package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad server port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad server mode", func(c *Config) { c.Server.Mode = "production" }},
		{"negative pH", func(c *Config) { c.Tools.DefaultPH = -1 }},
		{"pH above 14", func(c *Config) { c.Tools.DefaultPH = 15 }},
		{"zero page timeout", func(c *Config) { c.RCSB.PageTimeout = 0 }},
		{"no kafka brokers", func(c *Config) { c.Kafka.Brokers = nil }},
		{"minio enabled without endpoint", func(c *Config) { c.MinIO.Enabled = true }},
		{"zero worker concurrency", func(c *Config) { c.Worker.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_MinIOEnabledWithEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.MinIO.Enabled = true
	cfg.MinIO.Endpoint = "localhost:9000"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_PHBoundaries(t *testing.T) {
	cfg := validConfig()
	cfg.Tools.DefaultPH = 0 // fine: acidic extreme
	assert.NoError(t, cfg.Validate())
	cfg.Tools.DefaultPH = 14
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.RCSB.PageTimeout = 3 * time.Second
	cfg.Tools.ForceField = "CHARMM"
	cfg.Kafka.Brokers = []string{"broker-1:9092", "broker-2:9092"}

	ApplyDefaults(cfg)

	assert.Equal(t, 3*time.Second, cfg.RCSB.PageTimeout)
	assert.Equal(t, "CHARMM", cfg.Tools.ForceField)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestApplyDefaults_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
