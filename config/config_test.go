package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "s3cret")
	t.Setenv("APP_SERVER_BASE_URL", "http://3.38.100.94")
	t.Setenv("APP_DATABASE_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "http://3.38.100.94", cfg.Server.BaseURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		JWT:        JWTConfig{Secret: "x"},
		Database:   DatabaseConfig{Driver: "mysql"},
		Pagination: PaginationConfig{},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 10, cfg.Pagination.MaxPageSize)
}
