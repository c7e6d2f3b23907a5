package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"pet-adoption/internal/platform/logger"
)

// Config agrupa toda la configuración del servicio (solo env vars).
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DBDSN           string        `env:"DB_DSN"`
	DBMigrate       bool          `env:"DB_MIGRATE" envDefault:"false"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"8s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Log    LogConfig    `envPrefix:"LOG_"`
	Odin   OdinConfig   `envPrefix:"ODIN_"`
	Mailer MailerConfig `envPrefix:"MAILER_"`
	Notify NotifyConfig `envPrefix:"NOTIFY_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
	App    string `env:"APP" envDefault:"pet-adoption"`
}

// OdinConfig: si BaseURL viene vacío se usa auth de dev (X-Debug-User-ID).
type OdinConfig struct {
	BaseURL string        `env:"BASE_URL"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// MailerConfig: si BaseURL viene vacío las notificaciones solo se loguean.
type MailerConfig struct {
	BaseURL string        `env:"BASE_URL"`
	APIKey  string        `env:"API_KEY"`
	From    string        `env:"FROM" envDefault:"no-reply@pet-adoption.local"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type NotifyConfig struct {
	Workers     int           `env:"WORKERS" envDefault:"4"`
	QueueSize   int           `env:"QUEUE_SIZE" envDefault:"256"`
	RatePerSec  float64       `env:"RATE_PER_SEC" envDefault:"20"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BaseBackoff time.Duration `env:"BASE_BACKOFF" envDefault:"500ms"`
}

// Load lee el entorno del proceso.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom permite inyectar el entorno (tests).
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: PORT must not be empty")
	}
	if c.Notify.Workers <= 0 {
		return fmt.Errorf("config: NOTIFY_WORKERS must be > 0")
	}
	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("config: NOTIFY_QUEUE_SIZE must be > 0")
	}
	if c.Notify.MaxAttempts <= 0 {
		return fmt.Errorf("config: NOTIFY_MAX_ATTEMPTS must be > 0")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func (c Config) Logger() logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(c.Log.Level),
		Format: logger.ParseFormat(c.Log.Format),
		App:    c.Log.App,
	})
}
