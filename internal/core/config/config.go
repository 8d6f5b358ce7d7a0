package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// ClientTimeoutSeconds bounds every outbound HTTP call to a collaborator.
	ClientTimeoutSeconds int `mapstructure:"CLIENT_TIMEOUT_SECONDS" default:"10"`

	// Redis holds the cache connection settings.
	Redis RedisConfig `mapstructure:",squash"`

	// OrderStore holds the order-store collaborator settings.
	OrderStore OrderStoreConfig `mapstructure:",squash"`

	// CatalogStore holds the catalog-store collaborator settings.
	CatalogStore CatalogStoreConfig `mapstructure:",squash"`

	// AssetHost holds the image-hosting collaborator settings.
	AssetHost AssetHostConfig `mapstructure:",squash"`
}

// ClientTimeout returns the outbound HTTP timeout as a duration.
func (c *AppConfig) ClientTimeout() time.Duration {
	return time.Duration(c.ClientTimeoutSeconds) * time.Second
}

// OrderStoreConfig holds the connection details for the external order store.
type OrderStoreConfig struct {
	// URL is the base URL of the order store API.
	URL string `mapstructure:"ORDER_STORE_URL" required:"true"`
	// Token is the bearer token used to authenticate seller-scoped requests.
	Token string `mapstructure:"ORDER_STORE_TOKEN" required:"true"`
}

// CatalogStoreConfig holds the connection details for the external catalog store.
type CatalogStoreConfig struct {
	// URL is the base URL of the catalog store API.
	URL string `mapstructure:"CATALOG_STORE_URL" required:"true"`
	// Token is the bearer token used to authenticate seller-scoped requests.
	Token string `mapstructure:"CATALOG_STORE_TOKEN" required:"true"`
}

// AssetHostConfig holds the connection details for the image hosting service.
type AssetHostConfig struct {
	// URL is the upload endpoint base URL.
	URL string `mapstructure:"ASSET_HOST_URL" required:"true"`
	// APIKey authenticates upload requests.
	APIKey string `mapstructure:"ASSET_HOST_KEY" required:"true"`
}

// RedisConfig holds the cache connection details.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// ReportTTLSeconds is how long a computed revenue report stays cached.
	ReportTTLSeconds int `mapstructure:"REPORT_TTL_SECONDS" default:"60"`
}

// ReportTTL returns the revenue report cache TTL as a duration.
func (c *RedisConfig) ReportTTL() time.Duration {
	return time.Duration(c.ReportTTLSeconds) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
