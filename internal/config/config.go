package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int
	LogLevel       string
	LogDir         string
	APIKey         string   // API key for privileged (admin) endpoints
	TrustedProxies []string // IPs allowed to set X-Forwarded-For
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         string
	DBName         string

	// Job queue and worker settings
	JobMaxAttempts   int
	JobPollInterval  time.Duration
	JobClaimLease    time.Duration // running jobs older than this are reclaimed
	WorkersPerQueue  int
	EnqueueTimeout   time.Duration
	DeadLetterPath   string
	EmailSender      string
	AdminEmail       string
	ImageTargetWidth int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		APIKey:         getEnv("API_KEY", ""),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "bookstore"),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "jobs_dead_letter.jsonl"),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@bookstore.local"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@bookstore.local"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, trimmed)
			}
		}
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.JobMaxAttempts, err = getEnvInt("JOB_MAX_ATTEMPTS", DefaultJobMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.WorkersPerQueue, err = getEnvInt("WORKERS_PER_QUEUE", DefaultWorkersPerQueue); err != nil {
		return nil, err
	}
	if cfg.ImageTargetWidth, err = getEnvInt("IMAGE_TARGET_WIDTH", DefaultImageTargetWidth); err != nil {
		return nil, err
	}
	if cfg.JobPollInterval, err = getEnvDuration("JOB_POLL_INTERVAL", DefaultJobPollInterval); err != nil {
		return nil, err
	}
	if cfg.JobClaimLease, err = getEnvDuration("JOB_CLAIM_LEASE", DefaultJobClaimLease); err != nil {
		return nil, err
	}
	if cfg.EnqueueTimeout, err = getEnvDuration("ENQUEUE_TIMEOUT", DefaultEnqueueTimeout); err != nil {
		return nil, err
	}

	if cfg.JobMaxAttempts <= 0 {
		return nil, fmt.Errorf("JOB_MAX_ATTEMPTS must be positive, got %d", cfg.JobMaxAttempts)
	}
	if cfg.WorkersPerQueue <= 0 {
		return nil, fmt.Errorf("WORKERS_PER_QUEUE must be positive, got %d", cfg.WorkersPerQueue)
	}
	if cfg.JobClaimLease <= 0 {
		return nil, fmt.Errorf("JOB_CLAIM_LEASE must be positive, got %s", cfg.JobClaimLease)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
