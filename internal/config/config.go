package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/storage"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Competition   CompetitionConfig   `yaml:"competition"`
	Bodyweight    BodyweightConfig    `yaml:"bodyweight"`
	Storage       StorageConfig       `yaml:"storage"`
	Database      DatabaseConfig      `yaml:"database"`
	Prescriptions PrescriptionsConfig `yaml:"prescriptions"`
	Tailscale     TailscaleConfig     `yaml:"tailscale"`
	MCP           MCPConfig           `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// CompetitionConfig holds the defaults used when a request does not name a meet.
type CompetitionConfig struct {
	Name        string  `yaml:"name"`
	Date        string  `yaml:"date"`
	SquatMax    float64 `yaml:"squat_max"`
	BenchMax    float64 `yaml:"bench_max"`
	DeadliftMax float64 `yaml:"deadlift_max"`
}

// BodyweightConfig bounds accepted bodyweight entries. Target draws the
// reference line on the trend chart; zero hides it.
type BodyweightConfig struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Target float64 `yaml:"target"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"` // csv, sqlite or postgres
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// PrescriptionsConfig points at an optional table file replacing the built-in one.
type PrescriptionsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Log:    LogConfig{Level: "info", Format: "text"},
		Competition: CompetitionConfig{
			Name:        "Competition",
			Date:        "2026-04-04",
			SquatMax:    95,
			BenchMax:    35,
			DeadliftMax: 95,
		},
		Bodyweight: BodyweightConfig{Min: 40, Max: 60, Target: 52},
		Storage:    StorageConfig{Driver: "csv", Dir: "."},
		Database:   DatabaseConfig{Host: "localhost", Port: 5432, Name: "meetprep", User: "meetprep"},
		Tailscale:  TailscaleConfig{Hostname: "meetprep", StateDir: "tsnet-state"},
		MCP:        MCPConfig{Enabled: true},
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix MEETPREP_ and underscore-separated paths:
//
//	MEETPREP_SERVER_HOST, MEETPREP_SERVER_PORT, MEETPREP_LOG_LEVEL, MEETPREP_LOG_FORMAT,
//	MEETPREP_COMPETITION_NAME, MEETPREP_COMPETITION_DATE, MEETPREP_SQUAT_MAX,
//	MEETPREP_BENCH_MAX, MEETPREP_DEADLIFT_MAX, MEETPREP_BODYWEIGHT_TARGET,
//	MEETPREP_STORAGE_DRIVER, MEETPREP_STORAGE_DIR, MEETPREP_SQLITE_PATH,
//	MEETPREP_DB_HOST, MEETPREP_DB_PORT, MEETPREP_DB_NAME,
//	MEETPREP_DB_USER, MEETPREP_DB_PASSWORD, MEETPREP_DB_SSLMODE,
//	MEETPREP_PRESCRIPTIONS_PATH, MEETPREP_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("MEETPREP_SERVER_HOST", &cfg.Server.Host)
	setInt("MEETPREP_SERVER_PORT", &cfg.Server.Port)
	setString("MEETPREP_LOG_LEVEL", &cfg.Log.Level)
	setString("MEETPREP_LOG_FORMAT", &cfg.Log.Format)

	setString("MEETPREP_COMPETITION_NAME", &cfg.Competition.Name)
	setString("MEETPREP_COMPETITION_DATE", &cfg.Competition.Date)
	setFloat("MEETPREP_SQUAT_MAX", &cfg.Competition.SquatMax)
	setFloat("MEETPREP_BENCH_MAX", &cfg.Competition.BenchMax)
	setFloat("MEETPREP_DEADLIFT_MAX", &cfg.Competition.DeadliftMax)
	setFloat("MEETPREP_BODYWEIGHT_TARGET", &cfg.Bodyweight.Target)

	setString("MEETPREP_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("MEETPREP_STORAGE_DIR", &cfg.Storage.Dir)
	setString("MEETPREP_SQLITE_PATH", &cfg.Storage.SQLitePath)

	setString("MEETPREP_DB_HOST", &cfg.Database.Host)
	setInt("MEETPREP_DB_PORT", &cfg.Database.Port)
	setString("MEETPREP_DB_NAME", &cfg.Database.Name)
	setString("MEETPREP_DB_USER", &cfg.Database.User)
	setString("MEETPREP_DB_PASSWORD", &cfg.Database.Password)
	setString("MEETPREP_DB_SSLMODE", &cfg.Database.SSLMode)

	setString("MEETPREP_PRESCRIPTIONS_PATH", &cfg.Prescriptions.Path)
	setBool("MEETPREP_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if _, err := c.Competition.Parse(); err != nil {
		return err
	}
	if c.Competition.SquatMax < 0 || c.Competition.BenchMax < 0 || c.Competition.DeadliftMax < 0 {
		return fmt.Errorf("competition maxes must not be negative")
	}
	if c.Bodyweight.Min <= 0 || c.Bodyweight.Max <= c.Bodyweight.Min {
		return fmt.Errorf("bodyweight range [%v, %v] is invalid", c.Bodyweight.Min, c.Bodyweight.Max)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	switch c.Storage.Driver {
	case "", "csv":
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be csv, sqlite or postgres, got %q", c.Storage.Driver)
	}

	if c.Prescriptions.Watch && c.Prescriptions.Path == "" {
		return fmt.Errorf("prescriptions.watch needs prescriptions.path")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}

// Parse converts the configured defaults into a Competition.
func (c CompetitionConfig) Parse() (models.Competition, error) {
	date, err := time.Parse(models.DateLayout, c.Date)
	if err != nil {
		return models.Competition{}, fmt.Errorf("competition.date %q: want YYYY-MM-DD", c.Date)
	}
	return models.Competition{
		Name:        c.Name,
		Date:        date,
		SquatMax:    c.SquatMax,
		BenchMax:    c.BenchMax,
		DeadliftMax: c.DeadliftMax,
	}, nil
}

// StorageOptions returns the options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	opts := storage.Options{
		Driver:     c.Storage.Driver,
		Dir:        c.Storage.Dir,
		SQLitePath: c.Storage.SQLitePath,
	}
	if c.Storage.Driver == "postgres" {
		opts.PostgresDSN = c.Database.DSN()
	}
	return opts
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(l.Level)}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
