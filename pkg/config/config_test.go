package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_MarketingConfig(t *testing.T) {
	os.Setenv("MARKETING_API_URL", "http://ads.test/v1")
	os.Setenv("MARKETING_ACCESS_TOKEN", "tok-123")
	os.Setenv("MARKETING_ACCOUNT_ID", "act_42")
	defer func() {
		os.Unsetenv("MARKETING_API_URL")
		os.Unsetenv("MARKETING_ACCESS_TOKEN")
		os.Unsetenv("MARKETING_ACCOUNT_ID")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "http://ads.test/v1", cfg.Marketing.BaseURL)
	assert.Equal(t, "tok-123", cfg.Marketing.AccessToken)
	assert.Equal(t, "act_42", cfg.Marketing.AccountID)
	assert.Equal(t, 100, cfg.Marketing.PageSize)
}

func TestLoad_AuthDefaults(t *testing.T) {
	os.Unsetenv("ACCESS_TOKEN_TTL")
	os.Unsetenv("REFRESH_TOKEN_TTL")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 5, cfg.Auth.LoginBurst)
}

func TestLoad_DatabaseDSN(t *testing.T) {
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_PORT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	dsn := cfg.Database.DatabaseDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
}
