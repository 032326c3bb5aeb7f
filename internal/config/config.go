package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
// The key "arcgis.token" is read from ATLAS_ARCGIS_TOKEN.
const EnvPrefix = "ATLAS"

// Config holds the configuration settings for the geocoding service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port for the geocoder monitoring server.
// - ProviderType: The type of geocoding provider to use (arcgis_list, google).
// - ArcGIS: Credentials and biasing for the ArcGIS provider.
// - Google: Credentials for the Google provider.
// - Workers: The number of concurrent workers for processing requests.
// - Interval: The duration between processing intervals.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string         `mapstructure:"env"           validate:"required"`
	Port         int            `mapstructure:"port"          validate:"min=1,max=65535"`
	ProviderType string         `mapstructure:"provider"      validate:"oneof=arcgis_list google"`
	ArcGIS       ArcGISConfig   `mapstructure:"arcgis"`
	Google       GoogleConfig   `mapstructure:"google"`
	Workers      int            `mapstructure:"workers"       validate:"min=1"`
	Interval     time.Duration  `mapstructure:"interval"      validate:"gt=0"`
	BatchSize    int            `mapstructure:"batch_size"    validate:"min=1"`
	RateLimit    int            `mapstructure:"rate_limit"    validate:"min=0"` // Provider requests per second, 0 disables limiting
	HTTPTimeout  time.Duration  `mapstructure:"http_timeout"  validate:"gt=0"`
	AddrPrefix   string         `mapstructure:"addr_prefix"` // Address prefix for more accurate geocoding
	Database     PostgresConfig `mapstructure:"postgres"`
}

// ArcGISConfig holds the ArcGIS World Geocoding Service settings.
type ArcGISConfig struct {
	Token         string `mapstructure:"token"`          // Token paying for service credits.
	SourceCountry string `mapstructure:"source_country"` // Optional country bias, e.g. USA.
}

// GoogleConfig holds the Google Maps settings.
type GoogleConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"name"`     // Name is the name of the database.
}

// DSN returns the connection string of the database.
func (p PostgresConfig) DSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   p.Name,
	}

	return dsn.String()
}

var defaults = map[string]any{
	"env":                   "production",
	"port":                  8080,
	"provider":              "arcgis_list",
	"workers":               10,
	"interval":              "10m",
	"batch_size":            100,
	"rate_limit":            50,
	"http_timeout":          "10s",
	"addr_prefix":           "",
	"arcgis.token":          "",
	"arcgis.source_country": "",
	"google.api_key":        "",
	"postgres.host":         "localhost",
	"postgres.port":         "5432",
	"postgres.user":         "",
	"postgres.password":     "",
	"postgres.name":         "",
}

// Load reads the configuration from a .env file, the environment and, when path is not empty,
// a configuration file. Environment values take precedence over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads the configuration and panics if it is invalid.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// Provider credentials are checked when the provider is built, so commands
// that never geocode can run without them.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
