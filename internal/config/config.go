package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
)

// placeholderAPIKey is the value shipped in the sample .env file.
const placeholderAPIKey = "your_api_key_here"

// Config is the process configuration. It is built once at start-up and
// handed to constructors explicitly.
type Config struct {
	Addr               string
	FrontendURL        string
	LogLevel           string
	LogFormat          string
	UploadDir          string
	UploadURLPrefix    string
	RateLimitPerMinute int
	Store              Store
}

// Store holds the document store settings. ProjectID plus a driver
// credential (API key or database URL) are the two values that decide
// whether a store is used at all.
type Store struct {
	Driver      string
	ProjectID   string
	APIKey      string
	DatabaseURL string
	Timeout     time.Duration
}

// Configured reports whether both required store values are present.
// When false the backend runs on fallback data and logs writes locally.
func (s Store) Configured() bool {
	if strings.TrimSpace(s.ProjectID) == "" {
		return false
	}
	switch s.Driver {
	case DriverPostgres:
		return strings.TrimSpace(s.DatabaseURL) != ""
	default:
		key := strings.TrimSpace(s.APIKey)
		return key != "" && key != placeholderAPIKey
	}
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return Config{
		Addr:               ":" + strings.TrimPrefix(port, ":"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		UploadURLPrefix:    "/uploads",
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		Store: Store{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverFirestore)),
			ProjectID:   os.Getenv("STORE_PROJECT_ID"),
			APIKey:      os.Getenv("STORE_API_KEY"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Timeout:     getEnvDuration("STORE_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
