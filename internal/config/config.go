// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStartDate is the first date kept in the return matrix
	DefaultStartDate = "2022-08-01"
	// StartDateLayout is the accepted start-date format
	StartDateLayout = "2006-01-02"
	// CacheDBName names the price cache database file (without extension)
	CacheDBName = "stockpricedata"

	// Price source implementations
	SourceNative = "native"
	SourceChart  = "chart"
)

// Config holds application configuration
type Config struct {
	DataDir      string  `yaml:"data_dir" validate:"required"` // always absolute after Load
	TickerFile   string  `yaml:"ticker_file" validate:"required"`
	Interval     string  `yaml:"interval" validate:"required,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
	StartDateRaw string  `yaml:"start_date"`
	PriceSource  string  `yaml:"price_source" validate:"oneof=native chart"`
	ChartBaseURL string  `yaml:"chart_base_url" validate:"omitempty,url"`
	FetchRate    float64 `yaml:"fetch_rate" validate:"gte=0"` // requests per second, 0 = unlimited
	LogLevel     string  `yaml:"log_level" validate:"oneof=debug info warn warning error disabled"`
	LogPretty    bool    `yaml:"log_pretty"`
	Port         int     `yaml:"port" validate:"min=1,max=65535"`
	DevMode      bool    `yaml:"dev_mode"`

	Schedule ScheduleConfig `yaml:"schedule"`
	Backup   BackupConfig   `yaml:"backup"`

	// StartDate is StartDateRaw parsed, or DefaultStartDate when unparsable
	StartDate time.Time `yaml:"-"`
	// Warnings collects non-fatal problems found while loading, for logging
	// once the logger exists
	Warnings []string `yaml:"-"`
}

// ScheduleConfig holds cron expressions (six fields, with seconds) for
// background jobs. Empty disables the job.
type ScheduleConfig struct {
	Prefetch    string `yaml:"prefetch"`
	Maintenance string `yaml:"maintenance"`
	Backup      string `yaml:"backup"`
}

// BackupConfig holds S3-compatible backup storage settings
type BackupConfig struct {
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
	RetentionDays   int    `yaml:"retention_days" validate:"gte=0"`
}

// Enabled reports whether enough is configured to upload backups
func (b BackupConfig) Enabled() bool {
	return b.Bucket != "" && b.AccessKeyID != "" && b.SecretAccessKey != ""
}

// Overrides carries command-line flag values; empty fields are ignored
type Overrides struct {
	TickerFile string
	Interval   string
	StartDate  string
	LogLevel   string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:      "data",
		Interval:     "1d",
		StartDateRaw: DefaultStartDate,
		PriceSource:  SourceNative,
		FetchRate:    2,
		LogLevel:     "info",
		Port:         8001,
		Schedule: ScheduleConfig{
			Maintenance: "0 0 3 * * *",
		},
		Backup: BackupConfig{
			Region:        "auto",
			RetentionDays: 30,
		},
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the
// YAML file at path (PFA_CONFIG when path is empty), environment variables
// (a .env file is loaded if present) and flag overrides.
func Load(path string, overrides Overrides) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("PFA_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyOverrides(overrides)

	if cfg.TickerFile == "" {
		cfg.TickerFile = filepath.Join(cfg.DataDir, "watchlist.txt")
	}
	cfg.resolveStartDate()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.DataDir = absDataDir

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("PFA_DATA_DIR", c.DataDir)
	c.TickerFile = getEnv("PFA_TICKER_FILE", c.TickerFile)
	c.Interval = getEnv("PFA_INTERVAL", c.Interval)
	c.StartDateRaw = getEnv("PFA_START_DATE", c.StartDateRaw)
	c.PriceSource = getEnv("PFA_PRICE_SOURCE", c.PriceSource)
	c.ChartBaseURL = getEnv("PFA_CHART_BASE_URL", c.ChartBaseURL)
	c.FetchRate = getEnvAsFloat("PFA_FETCH_RATE", c.FetchRate)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPretty = getEnvAsBool("LOG_PRETTY", c.LogPretty)
	c.Port = getEnvAsInt("PFA_PORT", c.Port)
	c.DevMode = getEnvAsBool("DEV_MODE", c.DevMode)

	c.Schedule.Prefetch = getEnv("PFA_PREFETCH_SCHEDULE", c.Schedule.Prefetch)
	c.Schedule.Maintenance = getEnv("PFA_MAINTENANCE_SCHEDULE", c.Schedule.Maintenance)
	c.Schedule.Backup = getEnv("PFA_BACKUP_SCHEDULE", c.Schedule.Backup)

	c.Backup.Endpoint = getEnv("PFA_BACKUP_ENDPOINT", c.Backup.Endpoint)
	c.Backup.Region = getEnv("PFA_BACKUP_REGION", c.Backup.Region)
	c.Backup.Bucket = getEnv("PFA_BACKUP_BUCKET", c.Backup.Bucket)
	c.Backup.AccessKeyID = getEnv("PFA_BACKUP_ACCESS_KEY_ID", c.Backup.AccessKeyID)
	c.Backup.SecretAccessKey = getEnv("PFA_BACKUP_SECRET_ACCESS_KEY", c.Backup.SecretAccessKey)
	c.Backup.PathStyle = getEnvAsBool("PFA_BACKUP_PATH_STYLE", c.Backup.PathStyle)
	c.Backup.RetentionDays = getEnvAsInt("PFA_BACKUP_RETENTION_DAYS", c.Backup.RetentionDays)
}

func (c *Config) applyOverrides(o Overrides) {
	if o.TickerFile != "" {
		c.TickerFile = o.TickerFile
	}
	if o.Interval != "" {
		c.Interval = o.Interval
	}
	if o.StartDate != "" {
		c.StartDateRaw = o.StartDate
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// resolveStartDate parses StartDateRaw, falling back to DefaultStartDate
// with a warning
func (c *Config) resolveStartDate() {
	raw := strings.TrimSpace(c.StartDateRaw)
	if raw != "" {
		if t, err := time.Parse(StartDateLayout, raw); err == nil {
			c.StartDate = t
			return
		}
		c.Warnings = append(c.Warnings,
			fmt.Sprintf("invalid start date %q, using %s", raw, DefaultStartDate))
	}
	c.StartDate, _ = time.Parse(StartDateLayout, DefaultStartDate)
	c.StartDateRaw = DefaultStartDate
}

var validate = validator.New()

// Validate checks field constraints and cross-field requirements
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Schedule.Backup != "" && !c.Backup.Enabled() {
		return fmt.Errorf("invalid configuration: backup schedule set without bucket credentials")
	}
	return nil
}

// CacheDBPath returns the location of the price cache database
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, CacheDBName+".db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
