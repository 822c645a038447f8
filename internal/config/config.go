// Package config loads application settings from a .env file with system
// environment fallbacks.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Feed
	FeedURL            string
	FeedTimeoutSeconds int

	// Storage backend: "file" or "postgres"
	StorageBackend string
	DataDir        string
	OutputDir      string
	PostgresDSN    string

	// Price history, empty disables it
	ClickhouseDSN string

	// Aging
	ThresholdDays int

	// Mail, empty host disables it
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailTo       []string

	// Owner roll
	OwnerLookupPath string

	// Scheduler cron expressions
	RunSchedule  string
	RollSchedule string

	Verbose bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		FeedURL:            getEnv("FEED_URL", ""),
		FeedTimeoutSeconds: getEnvInt("FEED_TIMEOUT_SECONDS", 30),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		OutputDir:      getEnv("OUTPUT_DIR", "./output"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),

		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),

		ThresholdDays: getEnvInt("AGING_THRESHOLD_DAYS", 150),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),
		MailTo:       getEnvList("MAIL_TO"),

		OwnerLookupPath: getEnv("OWNER_LOOKUP_PATH", "./data/owner_lookup.csv"),

		RunSchedule:  getEnv("RUN_SCHEDULE", "0 6 * * *"),
		RollSchedule: getEnv("ROLL_SCHEDULE", "0 3 * * 0"),

		Verbose: getEnvBool("VERBOSE", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList parses a comma-separated value into a slice, dropping empty
// items.
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
