// Package config loads GreenGauge's configuration from environment variables.
// Every problem found while loading is collected and reported at once, so a
// misconfigured deployment fails with the full list instead of one item per restart.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Media backends understood by MediaConfig.Backend.
const (
	MediaBackendNone       = ""
	MediaBackendCloudinary = "cloudinary"
	MediaBackendS3         = "s3"
)

// PoolConfig represents configuration for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxSize  int
}

// DSN returns a postgres URL usable by pgx, the pgx stdlib driver and golang-migrate.
func (c *PoolConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string        // Secret key for signing JWTs
	AccessTokenDuration  time.Duration // Duration for access tokens
	RefreshTokenDuration time.Duration // Duration for refresh tokens
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	MigrationsPath string
	RunMigrations  bool
	UploadMaxBytes int64
}

// AIConfig configures the product-analysis model.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// MediaConfig selects and configures the image store.
type MediaConfig struct {
	Backend string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
}

// PlacesConfig configures the store finder.
type PlacesConfig struct {
	APIKey  string
	Timeout time.Duration
}

// LeaderboardConfig controls ranking size and the snapshot job.
type LeaderboardConfig struct {
	Size             int
	SnapshotInterval time.Duration
	SnapshotKeep     int
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Debug bool
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB          *PoolConfig
	Auth        *AuthConfig
	Server      *ServerConfig
	AI          *AIConfig
	Media       *MediaConfig
	Places      *PlacesConfig
	Leaderboard *LeaderboardConfig
	Log         *LogConfig
}

// getRequiredEnv returns the variable or records it as missing.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration parses values like "15m" or "1h30m".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(strings.TrimSpace(valueStr))
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	if valueDuration <= 0 {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: duration must be positive, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueDuration
}

func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueBool
}

// getOptionalEnvList splits a comma separated list, dropping blanks.
func getOptionalEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// clampPoolSize keeps the pool between 5 and 100 connections, noting any adjustment.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database
	db := &PoolConfig{
		User:     getRequiredEnv("DB_USER", &errors),
		Password: getRequiredEnv("DB_PASSWORD", &errors),
		DBName:   getRequiredEnv("DB_NAME", &errors),
		Host:     getOptionalEnv("DB_HOST", "localhost"),
		Port:     getOptionalEnvInt("DB_PORT", 5432, &errors),
		SSLMode:  getOptionalEnv("DB_SSLMODE", "disable"),
	}
	db.MaxSize = clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors)

	// Auth
	authConfig := &AuthConfig{
		JWTSecret:            getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration:  getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errors),
		RefreshTokenDuration: getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", 168*time.Hour, &errors), // 7 days
	}

	// Server
	serverConfig := &ServerConfig{
		Port:           getOptionalEnv("PORT", "3000"),
		AllowedOrigins: getOptionalEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MigrationsPath: getOptionalEnv("MIGRATIONS_PATH", "./migrations"),
		RunMigrations:  getOptionalEnvBool("RUN_MIGRATIONS", true, &errors),
		UploadMaxBytes: int64(getOptionalEnvInt("UPLOAD_MAX_BYTES", 10<<20, &errors)),
	}
	if serverConfig.UploadMaxBytes <= 0 {
		errors = append(errors, "UPLOAD_MAX_BYTES must be positive")
	}

	// Product analysis. The key is optional: without it /upload-product reports
	// that analysis is not configured.
	aiConfig := &AIConfig{
		APIKey:  getOptionalEnv("GEMINI_API_KEY", ""),
		Model:   getOptionalEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		BaseURL: strings.TrimRight(getOptionalEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		Timeout: getOptionalEnvDuration("AI_TIMEOUT", 120*time.Second, &errors),
	}

	// Media
	mediaConfig := &MediaConfig{
		Backend: strings.ToLower(strings.TrimSpace(getOptionalEnv("MEDIA_BACKEND", MediaBackendNone))),
	}
	switch mediaConfig.Backend {
	case MediaBackendNone:
	case MediaBackendCloudinary:
		mediaConfig.CloudinaryCloudName = getRequiredEnv("CLOUDINARY_CLOUD_NAME", &errors)
		mediaConfig.CloudinaryAPIKey = getRequiredEnv("CLOUDINARY_API_KEY", &errors)
		mediaConfig.CloudinaryAPISecret = getRequiredEnv("CLOUDINARY_API_SECRET", &errors)
	case MediaBackendS3:
		mediaConfig.S3Endpoint = getOptionalEnv("S3_ENDPOINT", "")
		mediaConfig.S3Region = getOptionalEnv("S3_REGION", "auto")
		mediaConfig.S3Bucket = getRequiredEnv("S3_BUCKET", &errors)
		mediaConfig.S3AccessKeyID = getRequiredEnv("S3_ACCESS_KEY_ID", &errors)
		mediaConfig.S3SecretAccessKey = getRequiredEnv("S3_SECRET_ACCESS_KEY", &errors)
		mediaConfig.S3PublicBaseURL = strings.TrimRight(getRequiredEnv("S3_PUBLIC_BASE_URL", &errors), "/")
	default:
		errors = append(errors, fmt.Sprintf("invalid value for MEDIA_BACKEND: expected %q or %q, got %q",
			MediaBackendCloudinary, MediaBackendS3, mediaConfig.Backend))
	}

	// Places
	placesConfig := &PlacesConfig{
		APIKey:  getOptionalEnv("GOOGLE_MAPS_API_KEY", ""),
		Timeout: getOptionalEnvDuration("PLACES_TIMEOUT", 10*time.Second, &errors),
	}

	// Leaderboard
	leaderboardConfig := &LeaderboardConfig{
		Size:             getOptionalEnvInt("LEADERBOARD_SIZE", 10, &errors),
		SnapshotInterval: getOptionalEnvDuration("LEADERBOARD_SNAPSHOT_INTERVAL", time.Hour, &errors),
		SnapshotKeep:     getOptionalEnvInt("LEADERBOARD_SNAPSHOT_KEEP", 168, &errors),
	}
	if leaderboardConfig.Size < 1 {
		errors = append(errors, fmt.Sprintf("LEADERBOARD_SIZE must be at least 1, got %d", leaderboardConfig.Size))
	}
	if leaderboardConfig.SnapshotKeep < 1 {
		errors = append(errors, fmt.Sprintf("LEADERBOARD_SNAPSHOT_KEEP must be at least 1, got %d", leaderboardConfig.SnapshotKeep))
	}

	logConfig := &LogConfig{
		Debug: strings.EqualFold(getOptionalEnv("LOG_LEVEL", "info"), "debug"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:          db,
		Auth:        authConfig,
		Server:      serverConfig,
		AI:          aiConfig,
		Media:       mediaConfig,
		Places:      placesConfig,
		Leaderboard: leaderboardConfig,
		Log:         logConfig,
	}, nil
}
