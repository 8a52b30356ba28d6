// Package config loads service configuration from an optional YAML file and
// environment variables. Environment variables win over the file, and the
// file wins over the built-in local-development defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Storage  Storage  `yaml:"storage"`
	Booking  Booking  `yaml:"booking"`
	Events   Events   `yaml:"events"`
	Log      Log      `yaml:"log"`

	// Boarding maps a city to its boarding and dropping points. Empty means
	// the built-in directory.
	Boarding map[string]CityPoints `yaml:"boarding"`
}

type Server struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigin      string        `yaml:"cors_origin"`
}

type Database struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
}

// DSN builds a libpq-compatible connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, quoteDSN(d.Password), d.Name, d.SSLMode,
	)
}

// Redacted is DSN with the password masked, for logs.
func (d Database) Redacted() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(d.User),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type Storage struct {
	// Driver is "postgres" or "memory".
	Driver string `yaml:"driver"`
	// SeedDemo loads the demo catalog at startup. Memory storage only.
	SeedDemo bool `yaml:"seed_demo"`
}

type Booking struct {
	BookingCutoff      time.Duration `yaml:"booking_cutoff"`
	CancellationCutoff time.Duration `yaml:"cancellation_cutoff"`
}

type Events struct {
	// Buffer is the dispatcher queue length; events beyond it are dropped.
	Buffer int `yaml:"buffer"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CityPoints struct {
	Boarding []string `yaml:"boarding"`
	Dropping []string `yaml:"dropping"`
}

// Default returns the local-development configuration.
func Default() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigin:      "*",
		},
		Database: Database{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			Name:            "busreservation",
			SSLMode:         "disable",
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			ConnectAttempts: 5,
			RetryDelay:      2 * time.Second,
		},
		Storage: Storage{Driver: StoragePostgres},
		Booking: Booking{BookingCutoff: 24 * time.Hour},
		Events:  Events{Buffer: 256},
		Log:     Log{Level: "info", Format: "json"},
	}
}

// Error reports a configuration failure.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s (path=%s): %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &Error{Op: "config.read", Path: path, Err: err}
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, &Error{Op: "config.parse", Path: path, Err: err}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, &Error{Op: "config.env", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &Error{Op: "config.validate", Path: path, Err: err}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Storage.Driver, "STORAGE")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	return errors.Join(
		setDuration(&cfg.Booking.BookingCutoff, "BOOKING_CUTOFF"),
		setDuration(&cfg.Booking.CancellationCutoff, "CANCELLATION_CUTOFF"),
		setBool(&cfg.Storage.SeedDemo, "SEED_DEMO"),
	)
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port: is required"))
	} else if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("server.port: %q is not a number", c.Server.Port))
	}
	if c.Booking.BookingCutoff < 0 {
		errs = append(errs, errors.New("booking.booking_cutoff: cannot be negative"))
	}
	if c.Booking.CancellationCutoff < 0 {
		errs = append(errs, errors.New("booking.cancellation_cutoff: cannot be negative"))
	}
	if c.Events.Buffer < 1 {
		errs = append(errs, errors.New("events.buffer: must be positive"))
	}
	if c.Database.ConnectAttempts < 1 {
		errs = append(errs, errors.New("database.connect_attempts: must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// quoteDSN quotes a keyword/value DSN value when it contains spaces or quotes.
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
