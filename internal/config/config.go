package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string `validate:"oneof=development production"`
	Host string
	Port int    `validate:"min=1,max=65535"`
	// APIKey is the shared bearer secret. Never log it.
	APIKey string `validate:"required"`

	CORSOrigins []string

	Mongo MongoConfig
	Redis RedisConfig
	Log   LogConfig

	StoreTimeout     time.Duration `validate:"gt=0"`
	AnalysisCacheTTL time.Duration `validate:"gt=0"`
}

type MongoConfig struct {
	URI         string
	URITemplate string
	Username    string
	Password    string
	Database    string `validate:"required"`
	Collection  string `validate:"required"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string `validate:"oneof=json console"`
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Env:         v.GetString("ENV"),
		Host:        v.GetString("API_HOST"),
		Port:        v.GetInt("API_PORT"),
		APIKey:      v.GetString("API_KEY"),
		CORSOrigins: splitAndTrim(v.GetString("CORS_ORIGINS")),
		Mongo: MongoConfig{
			URI:         v.GetString("MONGODB_URI"),
			URITemplate: v.GetString("MONGODB_URI_TEMPLATE"),
			Username:    v.GetString("MONGODB_USERNAME"),
			Password:    v.GetString("MONGODB_PW"),
			Database:    v.GetString("MONGODB_DATABASE"),
			Collection:  v.GetString("MONGODB_COLLECTION"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	var err error
	if config.StoreTimeout, err = parseDuration("STORE_TIMEOUT", v.GetString("STORE_TIMEOUT")); err != nil {
		return nil, err
	}
	if config.AnalysisCacheTTL, err = parseDuration("ANALYSIS_CACHE_TTL", v.GetString("ANALYSIS_CACHE_TTL")); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	if config.Mongo.URI == "" && config.Mongo.URITemplate == "" {
		return nil, errors.New("failed to validate config: MONGODB_URI or MONGODB_URI_TEMPLATE is required")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvProduction)
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("MONGODB_DATABASE", "myCGMitc")
	v.SetDefault("MONGODB_COLLECTION", "entries")

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("ANALYSIS_CACHE_TTL", "60s")
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ConnectionURI returns the connection string. An explicit URI wins; otherwise the
// {username} and {password} placeholders of the template are filled in.
func (c MongoConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	return strings.NewReplacer(
		"{username}", escapeUserinfo(c.Username),
		"{password}", escapeUserinfo(c.Password),
	).Replace(c.URITemplate)
}

// escapeUserinfo percent-encodes a credential. The driver does not decode
// '+' as a space inside userinfo, so spaces become %20.
func escapeUserinfo(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse %s", key)
	}

	return d, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
