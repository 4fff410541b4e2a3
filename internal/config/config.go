// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Media backend selectors.
const (
	MediaBackendLocal = "local"
	MediaBackendS3    = "s3"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Server ServerConfig
	Store  StoreConfig
	Media  MediaConfig
	Search SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// AdminEmails lists accounts that sign up with the admin role.
	AdminEmails []string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed browser origins
}

// StoreConfig selects and configures the persistence backend.
// When MongoURI is set the cloud store is used, otherwise the embedded
// local store at DataPath ("demo mode").
type StoreConfig struct {
	DataPath      string
	MongoURI      string
	MongoDatabase string
}

// UseMongo reports whether the cloud document store is configured.
func (s StoreConfig) UseMongo() bool {
	return s.MongoURI != ""
}

// MediaConfig configures image attachment storage.
type MediaConfig struct {
	Backend        string // "local" or "s3"
	LocalPath      string // Directory for the local backend
	PublicBaseURL  string // URL prefix recorded on entities
	S3Bucket       string
	S3Region       string
	S3Endpoint     string // Optional, for S3-compatible stores
	MaxUploadBytes int64  // Upload size cap (default: 5 MiB)
}

// SearchConfig configures the triage search index.
type SearchConfig struct {
	IndexPath string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	adminEmails := flag.String("admin-emails", "", "Comma-separated emails that sign up as admins")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed browser origins")

	dataPath := flag.String("data-path", "", "Base path for local data storage")
	mongoURI := flag.String("mongo-uri", "", "MongoDB connection URI (enables the cloud store)")
	mongoDatabase := flag.String("mongo-db", "", "MongoDB database name (default: ichigo)")

	mediaBackend := flag.String("media-backend", "", "Media storage backend: local or s3 (default: local)")
	mediaPath := flag.String("media-path", "", "Directory for local media storage")
	mediaBaseURL := flag.String("media-base-url", "", "Public URL prefix for stored media (default: /media)")
	s3Bucket := flag.String("s3-bucket", "", "S3 bucket for media storage")
	s3Region := flag.String("s3-region", "", "S3 region")
	s3Endpoint := flag.String("s3-endpoint", "", "Custom S3 endpoint (optional)")
	maxUpload := flag.String("max-upload-bytes", "", "Upload size cap in bytes (default: 5242880)")

	searchPath := flag.String("search-path", "", "Directory for the search index")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			AdminEmails: splitAndTrim(getConfigValue(*adminEmails, "ADMIN_EMAILS", "")),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Ichigo Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitAndTrim(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Store: StoreConfig{
			DataPath:      getConfigValue(*dataPath, "DATA_PATH", ""),
			MongoURI:      getConfigValue(*mongoURI, "MONGO_URI", ""),
			MongoDatabase: getConfigValue(*mongoDatabase, "MONGO_DB", "ichigo"),
		},
		Media: MediaConfig{
			Backend:        getConfigValue(*mediaBackend, "MEDIA_BACKEND", MediaBackendLocal),
			LocalPath:      getConfigValue(*mediaPath, "MEDIA_PATH", ""),
			PublicBaseURL:  getConfigValue(*mediaBaseURL, "MEDIA_BASE_URL", "/media"),
			S3Bucket:       getConfigValue(*s3Bucket, "S3_BUCKET", ""),
			S3Region:       getConfigValue(*s3Region, "S3_REGION", ""),
			S3Endpoint:     getConfigValue(*s3Endpoint, "S3_ENDPOINT", ""),
			MaxUploadBytes: getInt64ConfigValue(*maxUpload, "MAX_UPLOAD_BYTES", 5*1024*1024),
		},
		Search: SearchConfig{
			IndexPath: getConfigValue(*searchPath, "SEARCH_PATH", ""),
		},
	}

	// Parse server timeouts.
	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if err := cfg.expandMediaPath(); err != nil {
		return nil, fmt.Errorf("invalid media path: %w", err)
	}
	if err := cfg.expandSearchPath(); err != nil {
		return nil, fmt.Errorf("invalid search path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if !c.Store.UseMongo() && c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	switch c.Media.Backend {
	case MediaBackendLocal:
		if c.Media.LocalPath == "" {
			return errors.New("media path cannot be empty after expansion")
		}
	case MediaBackendS3:
		if c.Media.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 media backend")
		}
		if c.Media.S3Region == "" {
			return errors.New("S3_REGION is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("invalid media backend: %s (must be local or s3)", c.Media.Backend)
	}

	if c.Media.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/Ichigo/data. Skipped when the mongo store is in use.
func (c *Config) expandDataPath() error {
	if c.Store.UseMongo() && c.Store.DataPath == "" {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Ichigo", "data")

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// expandMediaPath expands ~ and makes the path absolute.
// Defaults to {data}/media for the local backend.
func (c *Config) expandMediaPath() error {
	if c.Media.Backend != MediaBackendLocal {
		return nil
	}

	defaultPath := ""
	if c.Store.DataPath != "" {
		defaultPath = filepath.Join(c.Store.DataPath, "media")
	}

	expanded, err := expandPath(c.Media.LocalPath, defaultPath)
	if err != nil {
		return err
	}
	c.Media.LocalPath = expanded
	return nil
}

// expandSearchPath expands ~ and makes the path absolute.
// Defaults to {data}/search when a data path exists.
func (c *Config) expandSearchPath() error {
	defaultPath := ""
	if c.Store.DataPath != "" {
		defaultPath = filepath.Join(c.Store.DataPath, "search")
	}

	expanded, err := expandPath(c.Search.IndexPath, defaultPath)
	if err != nil {
		return err
	}
	c.Search.IndexPath = expanded
	return nil
}

// parseDurationValue resolves flag > env > default and parses the result.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getInt64ConfigValue returns an int64 from flag, env var, or default.
func getInt64ConfigValue(flagValue, envKey string, defaultValue int64) int64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int64
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitAndTrim splits a comma-separated list, dropping empty entries.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
