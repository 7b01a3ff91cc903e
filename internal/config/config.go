package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Sources     SourcesConfig   `mapstructure:"sources"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	Host         string          `mapstructure:"host"`
	ReadTimeout  int             `mapstructure:"read_timeout"`
	WriteTimeout int             `mapstructure:"write_timeout"`
	IdleTimeout  int             `mapstructure:"idle_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// SourcesConfig carries the whole failover chain's shape. Presence of a
// credential enables a tier; absence removes it. Both absent is a supported
// configuration: every fetch then lands on the simulation tier.
type SourcesConfig struct {
	Primary   SourceConfig `mapstructure:"primary"`
	Secondary SourceConfig `mapstructure:"secondary"`
	// Timeout bounds each tier's outbound calls, in seconds. Capped at 10.
	Timeout int `mapstructure:"timeout"`
}

type SourceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	// GeoURL is the geocoding endpoint; used by the primary source only.
	GeoURL string `mapstructure:"geo_url"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Sources: SourcesConfig{
			Primary: SourceConfig{
				APIKey:  "",
				BaseURL: "https://api.openweathermap.org/data/2.5",
				GeoURL:  "https://api.openweathermap.org/geo/1.0",
			},
			Secondary: SourceConfig{
				APIKey:  "",
				BaseURL: "https://api.weatherapi.com/v1",
			},
			Timeout: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
