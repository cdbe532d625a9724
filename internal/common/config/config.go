// internal/common/config/config.go
package config

import (
	"fmt"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Scoring  ScoringConfig           `mapstructure:"scoring"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Search   SearchConfig            `mapstructure:"search"`
	Registry RegistryConfig          `mapstructure:"registry"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Tracing  TracingConfig           `mapstructure:"tracing"`
	HTTP     HTTPConfig              `mapstructure:"http"`

	factorModel *scoring.FactorModel
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single-node shorthand for addresses
}

func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// ScoringConfig feeds the factor model and classification thresholds.
// Weights are keyed by factor code (A..F).
type ScoringConfig struct {
	Weights             map[string]float64 `mapstructure:"weights"`
	Labels              map[string]string  `mapstructure:"labels"`
	SignalThreshold     float64            `mapstructure:"signal_threshold"`
	ConfidenceThreshold float64            `mapstructure:"confidence_threshold"`
	ConfidenceHighMin   int                `mapstructure:"confidence_high_min"`
	ConfidenceMediumMin int                `mapstructure:"confidence_medium_min"`
}

func (s ScoringConfig) ConfidencePolicy() scoring.ConfidencePolicy {
	return scoring.ConfidencePolicy{
		Threshold: s.ConfidenceThreshold,
		HighMin:   s.ConfidenceHighMin,
		MediumMin: s.ConfidenceMediumMin,
	}
}

// BuildFactorModel validates the configured weights and labels.
func (s ScoringConfig) BuildFactorModel() (*scoring.FactorModel, error) {
	weights := make(map[models.FactorCode]float64, len(s.Weights))
	for code, w := range s.Weights {
		weights[normalizeCode(code)] = w
	}
	labels := make(map[models.FactorCode]string, len(s.Labels))
	for code, l := range s.Labels {
		labels[normalizeCode(code)] = l
	}
	return scoring.NewFactorModel(weights, labels)
}

type CacheConfig struct {
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

type SearchConfig struct {
	ProviderIndex string `mapstructure:"provider_index"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type HTTPConfig struct {
	Address string `mapstructure:"address"`
}

// FactorModel returns the model validated during Load.
func (c *Config) FactorModel() *scoring.FactorModel {
	return c.factorModel
}

// ScoringEngine wires the validated factor model and thresholds together.
func (c *Config) ScoringEngine() *scoring.Engine {
	return scoring.NewEngine(c.factorModel,
		scoring.WithSignalThreshold(c.Scoring.SignalThreshold),
		scoring.WithConfidencePolicy(c.Scoring.ConfidencePolicy()),
	)
}
