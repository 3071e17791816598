package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	City      CityConfig      `mapstructure:"city"`
	Session   SessionConfig   `mapstructure:"session"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
}

// DatasetConfig points at the static CSV loaded once at startup.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// CityConfig is the fixed city the planner serves. The coordinates are the map centre.
type CityConfig struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval"`
}

type RecommendConfig struct {
	TopK int   `mapstructure:"topK"`
	Seed int64 `mapstructure:"seed"` // 0 picks a time based seed
}

type ScraperConfig struct {
	BaseURL        string        `mapstructure:"baseURL"`
	RequestsPerSec float64       `mapstructure:"requestsPerSec"`
	Concurrency    int           `mapstructure:"concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Output         string        `mapstructure:"output"`
	Hotels         []string      `mapstructure:"hotels"`
}

// InitConfig reads config.yml from the working tree, or the embedded copy when
// none is found. TRIP_* environment variables override file values, so
// TRIP_JWT_SECRETKEY replaces jwt.secretKey.
func InitConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, dir := range []string{".", "config", "/app/config"} {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("trip")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("read embedded config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the config, then the dotenv file it names, and reads again when
// that file set anything. Variables already in the environment win over the file.
func Load() (Config, error) {
	cfg, err := InitConfig()
	if err != nil || cfg.Dotenv == "" {
		return cfg, err
	}
	if err := godotenv.Load(cfg.Dotenv); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load %s: %w", cfg.Dotenv, err)
	}
	return InitConfig()
}
