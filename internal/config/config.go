package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"shopping-list/internal/shopping"
)

// Config holds the configuration for the application.
type Config struct {
	RecipeDir    string
	DatabasePath string
	ReportDir    string
	ReportFormat shopping.Format
	LogLevel     string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("recipe_dir", "recipes")
	v.SetDefault("database_path", "data/shopping-list.db")
	v.SetDefault("report_dir", ".")
	v.SetDefault("report_format", "notes")
	v.SetDefault("log_level", "info")
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_webhook_url", "")
	v.SetDefault("telegram_allowed_user_ids", "")
	v.SetDefault("admin_telegram_id", "0")
	v.SetDefault("port", "8080")

	// Every key maps to its upper-cased name, e.g. recipe_dir -> RECIPE_DIR.
	v.AutomaticEnv()
	return v
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	return fromViper(newViper())
}

// Load reads a TOML config file. Environment variables still take
// precedence over values from the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	format, err := shopping.ParseFormat(v.GetString("report_format"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_FORMAT: %w", err)
	}

	allowed, err := parseIDList(idListValue(v.Get("telegram_allowed_user_ids")))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if s := strings.TrimSpace(v.GetString("admin_telegram_id")); s != "" {
		adminID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		RecipeDir:              v.GetString("recipe_dir"),
		DatabasePath:           v.GetString("database_path"),
		ReportDir:              v.GetString("report_dir"),
		ReportFormat:           format,
		LogLevel:               v.GetString("log_level"),
		TelegramBotToken:       v.GetString("telegram_bot_token"),
		TelegramWebhookURL:     v.GetString("telegram_webhook_url"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   v.GetString("port"),
	}, nil
}

// ValidateTelegram checks the settings the bot cannot start without.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// IsAllowed reports whether a Telegram user may talk to the bot.
func (c *Config) IsAllowed(userID int64) bool {
	if userID == c.AdminTelegramID && userID != 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// idListValue accepts both the comma separated env form and a TOML array.
func idListValue(raw any) string {
	switch val := raw.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
