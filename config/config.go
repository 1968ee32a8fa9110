package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Shop     ShopConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Admin    AdminConfig
	Log      LogConfig

	CatalogPath string // empty = embedded default catalog
	OrderLedger bool
}

// ShopConfig holds the plain strings substituted into the welcome and payment screens.
type ShopConfig struct {
	Name          string
	AdminUsername string
	BankName      string
	AccountName   string
	AccountNumber string
}

type TelegramConfig struct {
	Token         string
	WebhookURL    string // empty = long polling
	WebhookSecret string
	TextLimit     int
	CaptionLimit  int
}

type HTTPConfig struct {
	Port int
}

type DBConfig struct {
	Driver      string
	Path        string // sqlite file
	URL         string // postgres DSN; overrides the split fields below
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	AutoMigrate bool
}

type AdminConfig struct {
	IDs          []int64
	PasswordHash string // bcrypt; empty disables /login
	SessionTTL   time.Duration
	UploadTTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json | console
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}
	httpPort, err := strconv.Atoi(getEnv("PORT", "10000"))
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	textLimit, err := strconv.Atoi(getEnv("TEXT_LIMIT", "4096"))
	if err != nil {
		return nil, fmt.Errorf("TEXT_LIMIT: %w", err)
	}
	captionLimit, err := strconv.Atoi(getEnv("CAPTION_LIMIT", "1024"))
	if err != nil {
		return nil, fmt.Errorf("CAPTION_LIMIT: %w", err)
	}
	adminIDs, err := parseIDs(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("ADMIN_SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_SESSION_TTL: %w", err)
	}
	uploadTTL, err := time.ParseDuration(getEnv("UPLOAD_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("UPLOAD_TTL: %w", err)
	}

	return &Config{
		Shop: ShopConfig{
			Name:          getEnv("SHOP_NAME", "SHOP X"),
			AdminUsername: getEnv("ADMIN_USERNAME", "@min_max1834"),
			BankName:      getEnv("BANK_NAME", "VCB"),
			AccountName:   getEnv("ACCOUNT_NAME", "A HI HI"),
			AccountNumber: getEnv("ACCOUNT_NO", "0311000742866"),
		},
		Telegram: TelegramConfig{
			Token:         getEnv("BOT_TOKEN", ""),
			WebhookURL:    getEnv("WEBHOOK_URL", ""),
			WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
			TextLimit:     textLimit,
			CaptionLimit:  captionLimit,
		},
		HTTP: HTTPConfig{
			Port: httpPort,
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:        getEnv("DB_PATH", "orders.db"),
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "shop"),
			AutoMigrate: getBool("AUTO_MIGRATE", true),
		},
		Admin: AdminConfig{
			IDs:          adminIDs,
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionTTL:   sessionTTL,
			UploadTTL:    uploadTTL,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CatalogPath: getEnv("CATALOG_PATH", ""),
		OrderLedger: getBool("ORDER_LEDGER", true),
	}, nil
}

// Validate reports configuration that must stop the process before it serves.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("BOT_TOKEN not set")
	}
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	if c.Telegram.TextLimit <= 0 || c.Telegram.CaptionLimit <= 0 {
		return fmt.Errorf("message limits must be positive")
	}
	if c.Telegram.WebhookURL != "" && c.Telegram.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required with WEBHOOK_URL")
	}
	return nil
}

// PostgresDSN returns DATABASE_URL or a DSN built from the DB_* fields.
func (c DBConfig) PostgresDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
