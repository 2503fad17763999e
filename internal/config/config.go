package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	TranscriptDir      string `env:"TRANSCRIPT_DIR" envDefault:"./data"`
	TranscriptCSV      string `env:"TRANSCRIPT_CSV" envDefault:"transcript.csv"`
	TranscriptMetadata string `env:"TRANSCRIPT_METADATA"`
	WatchEnabled       bool   `env:"WATCH_ENABLED" envDefault:"true"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	SearchDefaultTopK int `env:"SEARCH_DEFAULT_TOP_K" envDefault:"10"`
	SearchMaxTopK     int `env:"SEARCH_MAX_TOP_K" envDefault:"1000"`

	S3 S3Config
}

// S3Config selects an S3-compatible bucket as the transcript source.
// Leaving Bucket empty keeps transcripts on the local filesystem.
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Prefix    string `env:"S3_PREFIX"`
}

// Enabled reports whether an S3 bucket is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile            string
	HTTPAddr           string
	LogLevel           string
	TranscriptDir      string
	TranscriptCSV      string
	TranscriptMetadata string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.TranscriptDir != "" {
		cfg.TranscriptDir = overrides.TranscriptDir
	}
	if overrides.TranscriptCSV != "" {
		cfg.TranscriptCSV = overrides.TranscriptCSV
	}
	if overrides.TranscriptMetadata != "" {
		cfg.TranscriptMetadata = overrides.TranscriptMetadata
	}

	return cfg, nil
}
