package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultProfilePhotosSubDir = "profiles"
	DefaultParishSlug          = "st-edward"
)

const defaultJWTExpirationHours = 24

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath  string // root for all stored media (profile photos live below it)
	ProfilePhotosPath string // full-calculated path for profile photos

	// directory listing fallback scope for viewers without a profile
	DefaultParishSlug string

	// auth settings
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	AllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "directory.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PROFILE_PHOTOS_SUBDIR", DefaultProfilePhotosSubDir)
	absProfilePhotosPath := filepath.Join(absMediaStorage, photosSubDir)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:       dbPath,
		MediaStoragePath:   absMediaStorage,
		ProfilePhotosPath:  absProfilePhotosPath,
		DefaultParishSlug:  getEnvOrDefault("DEFAULT_PARISH_SLUG", DefaultParishSlug),
		JWTSecret:          jwtSecret,
		JWTExpirationHours: getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		AllowedOrigin:      getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	return cfg, nil
}
