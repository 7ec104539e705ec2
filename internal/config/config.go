// Package config builds the application's immutable runtime configuration.
//
// Values are resolved, lowest precedence first, from built-in defaults, an
// optional .env file, the process environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"todolist/internal/models"
	"todolist/internal/util"
)

// MaxUploadBytes is the default request body cap.
const MaxUploadBytes = 16 << 20

// Image storage backends.
const (
	ImageBackendLocal = "local"
	ImageBackendS3    = "s3"
)

// S3 holds settings for the S3-compatible image backend.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Config holds runtime settings. It is built once at startup and passed by value.
type Config struct {
	Addr            string
	DBPath          string
	UploadDir       string
	SessionSecret   string
	SessionTTL      time.Duration
	MaxUploadBytes  int64
	VerifyPasswords bool
	BcryptCost      int
	LogLevel        slog.Level
	ImageBackend    string
	S3              S3

	allowedExts []string
	palette     models.Palette
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Addr:           ":5000",
		DBPath:         "data/todo_app.db",
		UploadDir:      "static/uploads",
		SessionSecret:  "change-me-session-secret",
		SessionTTL:     24 * time.Hour,
		MaxUploadBytes: MaxUploadBytes,
		BcryptCost:     10,
		LogLevel:       slog.LevelInfo,
		ImageBackend:   ImageBackendLocal,
		S3: S3{
			Region: "us-east-1",
			Prefix: "uploads",
		},
		allowedExts: []string{"png", "jpg", "jpeg", "gif", "bmp"},
		palette:     models.DefaultPalette(),
	}
}

// AllowedImageExts returns a copy of the accepted upload extensions (lowercase, no dot).
func (c Config) AllowedImageExts() []string {
	return append([]string(nil), c.allowedExts...)
}

// Palette returns a copy of the category palette.
func (c Config) Palette() models.Palette {
	return append(models.Palette(nil), c.palette...)
}

// Load resolves configuration from the .env file, the environment and args.
func Load(args []string) (Config, error) {
	cfg := Default()

	envFile := util.EnvOrDefault("TODO_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	applyEnv(&cfg)
	if err := applyFlags(&cfg, args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = util.EnvOrDefault("TODO_ADDR", cfg.Addr)
	cfg.DBPath = util.EnvOrDefault("TODO_DB_PATH", cfg.DBPath)
	cfg.UploadDir = util.EnvOrDefault("TODO_UPLOAD_DIR", cfg.UploadDir)
	cfg.SessionSecret = util.EnvOrDefault("TODO_SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = util.EnvDuration("TODO_SESSION_TTL", cfg.SessionTTL)
	cfg.MaxUploadBytes = util.EnvInt64("TODO_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.VerifyPasswords = util.EnvBool("TODO_VERIFY_PASSWORDS", cfg.VerifyPasswords)
	cfg.BcryptCost = int(util.EnvInt64("TODO_BCRYPT_COST", int64(cfg.BcryptCost)))
	cfg.ImageBackend = util.EnvOrDefault("TODO_IMAGE_BACKEND", cfg.ImageBackend)

	if level := util.EnvOrDefault("TODO_LOG_LEVEL", ""); level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err == nil {
			cfg.LogLevel = l
		}
	}

	cfg.S3.Bucket = util.EnvOrDefault("TODO_S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = util.EnvOrDefault("TODO_S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = util.EnvOrDefault("TODO_S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = util.EnvOrDefault("TODO_S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = util.EnvOrDefault("TODO_S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Prefix = util.EnvOrDefault("TODO_S3_PREFIX", cfg.S3.Prefix)
}

func applyFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to sqlite database file")
	fs.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "Directory for uploaded task images")
	fs.StringVar(&cfg.ImageBackend, "images", cfg.ImageBackend, "Image storage backend (local or s3)")
	fs.BoolVar(&cfg.VerifyPasswords, "verify-passwords", cfg.VerifyPasswords, "Check passwords on login")
	return fs.Parse(args)
}

// Validate reports configuration that the application cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("session secret must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.DBPath == "" {
		return errors.New("database path must not be empty")
	}
	switch c.ImageBackend {
	case ImageBackendLocal:
		if c.UploadDir == "" {
			return errors.New("upload directory must not be empty")
		}
	case ImageBackendS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket must not be empty")
		}
	default:
		return fmt.Errorf("unknown image backend %q", c.ImageBackend)
	}
	return nil
}
