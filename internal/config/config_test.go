package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.UploadsDir)
}

func TestAllowedOrigins_FiltersUnset(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected []string
	}{
		{
			name: "all origins set",
			cfg: Config{
				FrontendURL: "https://shop.example.com",
				NetlifyURL:  "https://shop.netlify.app",
				BackendURL:  "https://api.example.com",
			},
			expected: []string{
				"https://shop.example.com",
				"https://shop.netlify.app",
				"https://api.example.com",
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		{
			name: "unset origins omitted",
			cfg:  Config{FrontendURL: "https://shop.example.com"},
			expected: []string{
				"https://shop.example.com",
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		{
			name: "nothing configured keeps local dev origins",
			cfg:  Config{},
			expected: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.AllowedOrigins())
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("FRONTEND_URL", "https://front.example.com")

	cfg := Load()

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Contains(t, cfg.AllowedOrigins(), "https://front.example.com")
}
