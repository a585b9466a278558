package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	Env           string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionSecret string

	// Origins for the CORS allow-list and absolute image URLs.
	FrontendURL string
	NetlifyURL  string
	BackendURL  string

	// Image storage.
	StorageDriver string // "local" or "minio"
	UploadsDir    string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "3000"),
		Env:           getEnv("APP_ENV", "development"),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/stockroom?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		SessionSecret: getEnv("SESSION_SECRET", "change-me"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		NetlifyURL:    os.Getenv("NETLIFY_URL"),
		BackendURL:    os.Getenv("BACKEND_URL"),
		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
		MinioEndpoint: os.Getenv("MINIO_ENDPOINT"),
		MinioAccess:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecret:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:   getEnv("MINIO_BUCKET", "product-images"),
		MinioUseSSL:   getEnvBool("MINIO_USE_SSL", false),
	}
}

// AllowedOrigins returns the CORS allow-list for the JSON API.
// Unset origins are omitted rather than causing a startup failure.
func (c *Config) AllowedOrigins() []string {
	candidates := []string{
		c.FrontendURL,
		c.NetlifyURL,
		c.BackendURL,
		"http://localhost:5173", // local storefront dev server
		"http://localhost:3000",
	}
	origins := make([]string, 0, len(candidates))
	for _, o := range candidates {
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
