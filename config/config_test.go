package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ADMIN_IDS", "")
	t.Setenv("ORDER_LEDGER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 4096, cfg.Telegram.TextLimit)
	assert.Equal(t, 1024, cfg.Telegram.CaptionLimit)
	assert.Equal(t, 12*time.Hour, cfg.Admin.SessionTTL)
	assert.True(t, cfg.OrderLedger)
	assert.Empty(t, cfg.Admin.IDs)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("SHOP_NAME", "SHOP Y")
	t.Setenv("ADMIN_IDS", "42, 7")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
	t.Setenv("ORDER_LEDGER", "0")
	t.Setenv("UPLOAD_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SHOP Y", cfg.Shop.Name)
	assert.Equal(t, []int64{42, 7}, cfg.Admin.IDs)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DB.PostgresDSN())
	assert.False(t, cfg.OrderLedger)
	assert.Equal(t, 90*time.Second, cfg.Admin.UploadTTL)
}

func TestLoad_BadValues(t *testing.T) {
	t.Run("admin ids", func(t *testing.T) {
		t.Setenv("ADMIN_IDS", "42,abc")
		_, err := Load()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("ADMIN_IDS", "")
		t.Setenv("PORT", "http")
		_, err := Load()
		assert.ErrorContains(t, err, "PORT")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "tok", TextLimit: 4096, CaptionLimit: 1024},
			DB:       DBConfig{Driver: DriverSQLite},
		}
	}

	cfg := valid()
	cfg.Telegram.Token = ""
	assert.ErrorContains(t, cfg.Validate(), "BOT_TOKEN")

	cfg = valid()
	cfg.DB.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg = valid()
	cfg.Telegram.WebhookURL = "https://example.com/hook"
	assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_SECRET")

	assert.NoError(t, valid().Validate())
}

func TestPostgresDSN_FromFields(t *testing.T) {
	c := DBConfig{User: "postgres", Password: "pw", Host: "localhost", Port: 5432, Database: "shop"}
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/shop", c.PostgresDSN())
}
