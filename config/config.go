package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL        = "http://127.0.0.1:8000"
	DefaultPageSize      = 4
	DefaultImageFallback = "https://via.placeholder.com/150"
)

type Config struct {
	APIURL   string
	PageSize int

	LogLevel  string
	LogFormat string
	LogFile   string

	DatabaseURL    string
	Host           string
	Port           int
	AllowedOrigins []string

	KafkaBrokers []string
	KafkaTopic   string

	OTelCollectorHost string

	Images ImagesConfig
}

type ImagesConfig struct {
	Fallback string
	Products map[uint]string
}

// Init loads .env (if present), then the optional config file, then binds
// the environment. An explicit cfgFile must exist.
func Init(v *viper.Viper, cfgFile string) error {
	_ = godotenv.Load(".env")

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("CATALOG_API_URL", DefaultAPIURL)
	v.SetDefault("PAGE_SIZE", DefaultPageSize)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "catalog-events")
	v.SetDefault("OTEL_COLLECTOR_HOST", "")
	v.SetDefault("images.fallback", DefaultImageFallback)
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:            strings.TrimRight(v.GetString("CATALOG_API_URL"), "/"),
		PageSize:          v.GetInt("PAGE_SIZE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		LogFile:           v.GetString("LOG_FILE"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		Host:              v.GetString("HOST"),
		Port:              v.GetInt("PORT"),
		AllowedOrigins:    SplitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaBrokers:      SplitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		OTelCollectorHost: v.GetString("OTEL_COLLECTOR_HOST"),
		Images: ImagesConfig{
			Fallback: v.GetString("images.fallback"),
			Products: map[uint]string{},
		},
	}

	if cfg.APIURL == "" {
		return nil, errors.New("CATALOG_API_URL must not be empty")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be at least 1, got %d", cfg.PageSize)
	}

	for key, url := range v.GetStringMapString("images.products") {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("images.products: invalid product id %q", key)
		}
		cfg.Images.Products[uint(id)] = url
	}

	return cfg, nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
