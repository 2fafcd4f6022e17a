package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "SOL2UML"

const (
	Debug   = "debug"
	Network = "network"

	ExplorerApiKey           = "explorer.api-key"
	ExplorerUrl              = "explorer.url"
	ExplorerTimeout          = "explorer.timeout"
	ExplorerRateLimitRetries = "explorer.rate-limit-retries"

	DataDogStatsdEnabled    = "datadog.statsd.enabled"
	DataDogStatsdUrl        = "datadog.statsd.url"
	DataDogStatsdSampleRate = "datadog.statsd.sample-rate"

	PrometheusEnabled = "prometheus.enabled"
	PrometheusPort    = "prometheus.port"

	RpcHttpPort           = "rpc.http-port"
	RpcCorsAllowedOrigins = "rpc.cors-allowed-origins"
)

const DefaultEtherscanUrl = "https://api.etherscan.io/v2/api?chainid=%d"

const DefaultExplorerTimeout = 30 * time.Second

var ErrMissingApiKey = errors.New("the explorer api key must be set when getting verified source code from an Etherscan like explorer")

type Config struct {
	Debug            bool
	Network          string
	ExplorerConfig   ExplorerConfig
	DataDogConfig    DataDogConfig
	PrometheusConfig PrometheusConfig
	RpcConfig        RpcConfig
}

type ExplorerConfig struct {
	ApiKey           string
	Url              string
	Timeout          time.Duration
	RateLimitRetries int
}

type StatsdConfig struct {
	Enabled    bool
	Url        string
	SampleRate float64
}

type DataDogConfig struct {
	StatsdConfig StatsdConfig
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type RpcConfig struct {
	HttpPort           int
	CorsAllowedOrigins []string
}

func normalizeFlagName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func KebabToSnakeCase(str string) string {
	return strings.ReplaceAll(str, "-", "_")
}

func StringWithDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func NewConfig() *Config {
	return &Config{
		Debug:   viper.GetBool(normalizeFlagName(Debug)),
		Network: StringWithDefault(viper.GetString(normalizeFlagName(Network)), "ethereum"),

		ExplorerConfig: ExplorerConfig{
			ApiKey:           viper.GetString(normalizeFlagName(ExplorerApiKey)),
			Url:              viper.GetString(normalizeFlagName(ExplorerUrl)),
			Timeout:          viper.GetDuration(normalizeFlagName(ExplorerTimeout)),
			RateLimitRetries: viper.GetInt(normalizeFlagName(ExplorerRateLimitRetries)),
		},

		DataDogConfig: DataDogConfig{
			StatsdConfig: StatsdConfig{
				Enabled:    viper.GetBool(normalizeFlagName(DataDogStatsdEnabled)),
				Url:        viper.GetString(normalizeFlagName(DataDogStatsdUrl)),
				SampleRate: viper.GetFloat64(normalizeFlagName(DataDogStatsdSampleRate)),
			},
		},

		PrometheusConfig: PrometheusConfig{
			Enabled: viper.GetBool(normalizeFlagName(PrometheusEnabled)),
			Port:    viper.GetInt(normalizeFlagName(PrometheusPort)),
		},

		RpcConfig: RpcConfig{
			HttpPort:           viper.GetInt(normalizeFlagName(RpcHttpPort)),
			CorsAllowedOrigins: viper.GetStringSlice(normalizeFlagName(RpcCorsAllowedOrigins)),
		},
	}
}

// Validate returns ErrMissingApiKey when neither a custom url nor an api key is set.
func (ec *ExplorerConfig) Validate() error {
	if ec.Url == "" && ec.ApiKey == "" {
		return ErrMissingApiKey
	}
	return nil
}

// GetExplorerUrl returns the custom explorer url when one is set, otherwise the
// Etherscan v2 multichain endpoint for the configured network.
func (c *Config) GetExplorerUrl() string {
	if c.ExplorerConfig.Url != "" {
		return c.ExplorerConfig.Url
	}
	return fmt.Sprintf(DefaultEtherscanUrl, ParseChainId(c.Network))
}

func (c *Config) GetChainId() int {
	return ParseChainId(c.Network)
}
