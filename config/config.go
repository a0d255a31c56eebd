package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBUrl string
	// Supabase project settings. Both are required for the auth and
	// storage surfaces; missing values put the app in a degraded state
	// rather than stopping it.
	SupabaseUrl       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	// AppOrigin is the public origin of the front end; password-reset
	// redirect targets are derived from it.
	AppOrigin string
	// SessionFile persists the client session between runs. Empty keeps
	// the session in memory only.
	SessionFile string
	// StartupFragment mirrors the address fragment the shell was opened
	// with; only the showcase fragments change the initial view.
	StartupFragment string
	// LogoBucket is the Storage bucket for uploaded company logos.
	LogoBucket string
	// LogoMaxDimension bounds uploaded logo images before recompression.
	LogoMaxDimension int
}

func LoadConfig() (*Config, error) {
	// Effective locally; ignored in production when no .env file exists.
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Trailing slashes would produce double slashes in derived URLs.
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", getEnv("SUPABASE_KEY", "")),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		AppOrigin:         strings.TrimRight(getEnv("APP_ORIGIN", "http://localhost:3000"), "/"),
		SessionFile:       getEnv("SESSION_FILE", ""),
		StartupFragment:   getEnv("STARTUP_FRAGMENT", ""),
		LogoBucket:        getEnv("LOGO_BUCKET", "company-logos"),
		LogoMaxDimension:  getEnvInt("LOGO_MAX_DIMENSION", 512),
	}

	return cfg, nil
}

// MissingSupabaseSettings lists the required Supabase settings that are
// absent. The caller logs them once at startup; the application keeps
// running with the auth surface degraded.
func (c *Config) MissingSupabaseSettings() []string {
	var missing []string
	if c.SupabaseUrl == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	return missing
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
