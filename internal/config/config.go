package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBolt     = "bolt"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Store      StoreConfig
	Payroll    PayrollConfig
	Categories ledger.Categories
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver   string // postgres or bolt
	BoltPath string
}

// PayrollConfig holds the ledger categories used by payroll postings and
// the optional monthly auto-post job.
type PayrollConfig struct {
	CorrectionCategory    string
	TravelCategory        string
	DefaultSalaryCategory string
	AutoPostInterval      time.Duration // 0 disables the job
	AutoPostPaymentMethod string
}

// categoriesFile is the layout of CATEGORIES_FILE.
type categoriesFile struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

var defaultCategories = ledger.Categories{
	Income:  []string{"sales", "services", "other income"},
	Expense: []string{"rent", "utilities", "supplies", "other expense"},
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Store = StoreConfig{
		Driver:   getEnv("STORE_DRIVER", StoreDriverPostgres),
		BoltPath: getEnv("BOLT_PATH", "ledger.db"),
	}

	// Payroll configuration
	autoPostInterval, err := time.ParseDuration(getEnv("PAYROLL_AUTO_POST_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTO_POST_INTERVAL: %w", err)
	}

	config.Payroll = PayrollConfig{
		CorrectionCategory:    getEnv("PAYROLL_CORRECTION_CATEGORY", "correction"),
		TravelCategory:        getEnv("PAYROLL_TRAVEL_CATEGORY", "travel"),
		DefaultSalaryCategory: getEnv("PAYROLL_DEFAULT_SALARY_CATEGORY", "salaries"),
		AutoPostInterval:      autoPostInterval,
		AutoPostPaymentMethod: getEnv("PAYROLL_AUTO_POST_PAYMENT_METHOD", string(ledger.PaymentBank)),
	}

	config.Categories, err = LoadCategories(getEnv("CATEGORIES_FILE", ""))
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadCategories reads the category vocabulary from a YAML file. An empty
// path yields the built-in defaults.
func LoadCategories(path string) (ledger.Categories, error) {
	if path == "" {
		return defaultCategories, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ledger.Categories{}, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ledger.Categories{}, fmt.Errorf("failed to parse categories file: %w", err)
	}
	if len(file.Income) == 0 && len(file.Expense) == 0 {
		return ledger.Categories{}, fmt.Errorf("categories file %s defines no categories", path)
	}

	slog.Info("Loaded ledger categories", "file", path, "income", len(file.Income), "expense", len(file.Expense))
	return ledger.Categories{Income: file.Income, Expense: file.Expense}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverBolt:
		if c.Store.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Payroll.AutoPostInterval < 0 {
		return fmt.Errorf("PAYROLL_AUTO_POST_INTERVAL must not be negative")
	}
	if !ledger.PaymentMethod(c.Payroll.AutoPostPaymentMethod).Valid() {
		return fmt.Errorf("PAYROLL_AUTO_POST_PAYMENT_METHOD must be cash or bank")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
