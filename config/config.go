package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppPort           string
	AppURL            string
	Environment       string
	BackendURL        string
	BackendTimeout    time.Duration
	SessionSecret     string
	CSRFSecret        string
	AdminUsername     string
	AdminPasswordHash string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		if _, exists := os.Stat(".env"); exists == nil {
			log.Println("Warning: .env file exists but couldn't be loaded:", err)
		}
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")
	csrfSecret := getEnv("CSRF_SECRET", "")

	if sessionSecret == "" {
		sessionSecret = generateRandomSecret("SESSION_SECRET")
	}
	if csrfSecret == "" {
		csrfSecret = generateRandomSecret("CSRF_SECRET")
	}

	appPort := getEnv("APP_PORT", "8080")
	appURL := getEnv("APP_URL", "")

	if appURL == "" {
		if environment == "production" {
			log.Println("Warning: APP_URL not set in production, CSRF origin validation may fail")
		} else {
			appURL = "http://localhost:" + appPort
		}
	}

	backendURL := strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/")

	timeoutSeconds := 120
	if raw := getEnv("BACKEND_TIMEOUT_SECONDS", ""); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeoutSeconds = parsed
		} else {
			log.Printf("Warning: invalid BACKEND_TIMEOUT_SECONDS %q, using default", raw)
		}
	}

	cfg := &Config{
		AppPort:           appPort,
		AppURL:            appURL,
		Environment:       environment,
		BackendURL:        backendURL,
		BackendTimeout:    time.Duration(timeoutSeconds) * time.Second,
		SessionSecret:     sessionSecret,
		CSRFSecret:        csrfSecret,
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: loadAdminPasswordHash(),
	}

	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", cfg.Environment)
	log.Printf("  APP_PORT: %s", cfg.AppPort)
	log.Printf("  BACKEND_URL: %s", cfg.BackendURL)
	log.Printf("  Backend timeout: %s", cfg.BackendTimeout)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// loadAdminPasswordHash prefers a pre-computed bcrypt hash. A plaintext
// ADMIN_PASSWORD is accepted as a development convenience and hashed at load.
func loadAdminPasswordHash() string {
	if hash := getEnv("ADMIN_PASSWORD_HASH", ""); hash != "" {
		return hash
	}

	plain := getEnv("ADMIN_PASSWORD", "")
	if plain == "" {
		log.Println("Warning: neither ADMIN_PASSWORD_HASH nor ADMIN_PASSWORD set, login is disabled")
		return ""
	}

	log.Println("Warning: ADMIN_PASSWORD is set in plaintext, prefer ADMIN_PASSWORD_HASH")
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash ADMIN_PASSWORD: %v", err)
	}
	return string(hashed)
}

func generateRandomSecret(name string) string {
	log.Printf("Warning: %s not set, generating random secret (will not persist across restarts)", name)

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate random secret for %s: %v", name, err)
	}

	return base64.StdEncoding.EncodeToString(b)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
