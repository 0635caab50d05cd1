package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Env string `yaml:"env" env:"APP_ENV" validate:"required,oneof=development production test"`

	Server struct {
		Host string `yaml:"host" env:"SERVER_HOST"`
		Port int    `yaml:"port" env:"SERVER_PORT" validate:"min=1,max=65535"`
	} `yaml:"server"`

	App struct {
		Name   string `yaml:"name" env:"APP_NAME"`
		URL    string `yaml:"url" env:"APP_URL" validate:"required,url"`
		CDNURL string `yaml:"cdn_url" env:"CDN_URL" validate:"omitempty,url"`
	} `yaml:"app"`

	Database struct {
		URL       string `yaml:"url" env:"DATABASE_URL" validate:"required,url"`
		DirectURL string `yaml:"direct_url" env:"DIRECT_URL" validate:"omitempty,url"`
	} `yaml:"database"`

	Auth struct {
		Secret      string        `yaml:"secret" env:"AUTH_SECRET" validate:"required,min=32"`
		URL         string        `yaml:"url" env:"AUTH_URL" validate:"omitempty,url"`
		SessionTTL  time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
		AdminEmails []string      `yaml:"admin_emails" env:"ADMIN_EMAILS" validate:"dive,email"`
	} `yaml:"auth"`

	Storage struct {
		Type       string `yaml:"type" env:"STORAGE_TYPE" validate:"oneof=local s3 cloudflare_r2"`
		BasePath   string `yaml:"base_path" env:"STORAGE_BASE_PATH"` // local
		BaseURL    string `yaml:"base_url" env:"STORAGE_BASE_URL"`   // публичный префикс
		Bucket     string `yaml:"bucket" env:"S3_BUCKET_NAME" validate:"required_unless=Type local"`
		Region     string `yaml:"region" env:"S3_REGION"`
		AccessKey  string `yaml:"access_key" env:"S3_ACCESS_KEY_ID" validate:"required_unless=Type local"`
		SecretKey  string `yaml:"secret_key" env:"S3_SECRET_ACCESS_KEY" validate:"required_unless=Type local"`
		Endpoint   string `yaml:"endpoint" env:"S3_ENDPOINT" validate:"omitempty,url"`
		PublicRead bool   `yaml:"public_read" env:"S3_PUBLIC_READ"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize int64 `yaml:"max_size" env:"UPLOAD_MAX_SIZE" validate:"min=1"`
	} `yaml:"upload"`

	Sentry struct {
		DSN string `yaml:"dsn" env:"SENTRY_DSN" validate:"omitempty,url"`
	} `yaml:"sentry"`

	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL" validate:"omitempty,url"`
	} `yaml:"redis"`

	RateLimit struct {
		Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" validate:"min=0"`
		Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }
func (c *Config) IsProduction() bool  { return c.Env == "production" }

// Addr - адрес для http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Auth.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Options controls where Load reads from. Zero value: ".env" in the
// working directory, CONFIG_PATH for the yaml file, process environment.
type Options struct {
	EnvFiles   []string
	ConfigPath string
	Lookup     func(string) (string, bool)
}

// Load собирает конфигурацию: defaults, затем yaml (если есть), затем
// переменные окружения. Empty variables count as unset.
// SKIP_ENV_VALIDATION=true skips validation (builds, container images).
func Load(opts ...Options) (*Config, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Lookup == nil {
		if err := loadEnvFiles(o.EnvFiles); err != nil {
			return nil, err
		}
		o.Lookup = os.LookupEnv
	}

	cfg := defaults()

	path := o.ConfigPath
	if path == "" {
		path, _ = lookupNonEmpty(o.Lookup, "CONFIG_PATH")
	}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, o.Lookup); err != nil {
		return nil, err
	}

	if skip, _ := lookupNonEmpty(o.Lookup, "SKIP_ENV_VALIDATION"); skip == "true" || skip == "1" {
		return cfg, nil
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad - Load для main: при ошибке печатает список проблем и
// завершает процесс.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
	return cfg
}

func defaults() *Config {
	cfg := &Config{Env: "development"}
	cfg.Server.Port = 8080
	cfg.App.Name = "webstarter"
	cfg.App.URL = "http://localhost:8080"
	cfg.Auth.SessionTTL = 30 * 24 * time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.Region = "auto"
	cfg.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	cfg.RateLimit.Requests = 100
	cfg.RateLimit.Window = time.Minute
	return cfg
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		// уже заданные переменные окружения не перезаписываются
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
