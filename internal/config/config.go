package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DevelopmentAPIURL is used when no override is set and ENVIRONMENT=development.
	DevelopmentAPIURL = "http://localhost:8000"
	// ProductionAPIURL is the fixed fallback for every other environment.
	ProductionAPIURL = "https://api.careercompass.app"
)

type Config struct {
	Port        string
	Environment string
	AppId       string
	APIBaseURL  string // Remote career backend
	SkipAuth    bool
	JWTSecret   string // Optional; empty means claims are read unverified

	SessionStore string // "memory" or "mongo"
	MongoURI     string
	DBName       string

	LogFile     string
	CORSOrigins string

	OAuth OAuthConfig

	SessionTTL      time.Duration
	SweepSchedule   string
	JobPollInterval time.Duration
}

// OAuthConfig describes the external identity provider.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	LogoutURL    string
	Audience     string
	Scopes       []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	env := getEnv("ENVIRONMENT", "development")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		AppId:        getEnv("APP_ID", "career-console"),
		APIBaseURL:   ResolveAPIBaseURL(os.Getenv("CAREER_API_URL"), env),
		SkipAuth:     getEnv("SKIP_AUTH", "false") == "true",
		JWTSecret:    getEnv("JWT_SECRET", ""),
		SessionStore: getEnv("SESSION_STORE", "memory"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "career-console"),
		LogFile:      getEnv("LOG_FILE", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173, https://careercompass.app"),
		OAuth: OAuthConfig{
			ClientID:     getEnv("OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
			AuthURL:      getEnv("OAUTH_AUTH_URL", ""),
			TokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
			RedirectURL:  getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
			LogoutURL:    getEnv("OAUTH_LOGOUT_URL", ""),
			Audience:     getEnv("OAUTH_AUDIENCE", ""),
			Scopes:       strings.Fields(getEnv("OAUTH_SCOPES", "openid profile email offline_access")),
		},
		SessionTTL:      getDuration("SESSION_TTL", 2*time.Hour),
		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "*/10 * * * *"),
		JobPollInterval: getDuration("JOB_POLL_INTERVAL", 2*time.Second),
	}, nil
}

// ResolveAPIBaseURL applies the base URL rule: an explicit override wins,
// then the development default, then the production URL.
func ResolveAPIBaseURL(override, environment string) string {
	if override = strings.TrimSpace(override); override != "" {
		return strings.TrimRight(override, "/")
	}
	if environment == "development" {
		return DevelopmentAPIURL
	}
	return ProductionAPIURL
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesMongo reports whether sessions and logs are persisted in MongoDB.
func (c *Config) UsesMongo() bool {
	return c.SessionStore == "mongo"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
