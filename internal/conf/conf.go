package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// Defaults
const (
	DefaultListenAddr         = ":8080"
	DefaultAdminListenAddr    = "127.0.0.1:8081"
	DefaultAPIBase            = "https://api.telegram.org"
	DefaultVerificationAnswer = "3"
	DefaultViolationThreshold = 5
	DefaultStoreDriver        = "sqlite"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// HTTP listener
	Server ServerConfig

	// Moderation and relay rules
	Relay RelayConfig

	// Key-value store
	Store StoreConfig

	// Notice texts (loaded from YAML)
	Texts *TextsConfig

	// Timezone for identity cards and edit notices
	Location *time.Location

	// Logging
	Log LogConfig
}

// TelegramConfig contains Bot API configuration
type TelegramConfig struct {
	Token         string
	APIBase       string
	AdminGroupID  string // staffed forum supergroup
	WebhookSecret string
}

// ServerConfig contains HTTP listener configuration
type ServerConfig struct {
	ListenAddr      string // public webhook listener
	AdminListenAddr string // local admin API; empty disables it
}

// RelayConfig contains verification, filtering and keyword configuration
type RelayConfig struct {
	VerificationAnswer string
	ViolationThreshold int
	Filter             domain.ContentFilter
	BlockKeywords      string // newline-separated patterns
	AutoReplyRules     string // newline-separated pattern===response
}

// StoreConfig contains key-value store configuration
type StoreConfig struct {
	Driver   string // sqlite, redis, memory
	Path     string
	RedisURL string
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Store path
	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		homeDir, _ := os.UserHomeDir()
		storePath = filepath.Join(homeDir, ".tg-relay", "relay.db")
	}

	storeDriver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if storeDriver == "" {
		storeDriver = DefaultStoreDriver
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = DefaultListenAddr
	}

	adminAddr, ok := os.LookupEnv("ADMIN_LISTEN_ADDR")
	if !ok {
		adminAddr = DefaultAdminListenAddr
	}

	apiBase := os.Getenv("TELEGRAM_API_BASE")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	answer := os.Getenv("VERIFICATION_ANSWER")
	if answer == "" {
		answer = DefaultVerificationAnswer
	}

	// Load texts from YAML, then apply env overrides
	texts, err := LoadTextsConfig(os.Getenv("TEXTS_CONFIG_PATH"))
	if err != nil {
		logrus.WithError(err).Warn("Invalid texts config, using defaults")
		texts = DefaultTextsConfig()
	}
	if v := os.Getenv("WELCOME_MESSAGE"); v != "" {
		texts.Welcome = v
	}
	if v := os.Getenv("VERIFICATION_QUESTION"); v != "" {
		texts.Question = v
	}

	return &Config{
		Telegram: TelegramConfig{
			Token:         os.Getenv("BOT_TOKEN"),
			APIBase:       apiBase,
			AdminGroupID:  strings.TrimSpace(os.Getenv("ADMIN_GROUP_ID")),
			WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		},
		Server: ServerConfig{
			ListenAddr:      listenAddr,
			AdminListenAddr: strings.TrimSpace(adminAddr),
		},
		Relay: RelayConfig{
			VerificationAnswer: answer,
			ViolationThreshold: parseThreshold(os.Getenv("VIOLATION_THRESHOLD")),
			Filter: domain.ContentFilter{
				AllowImage:          parseToggle(os.Getenv("ENABLE_IMAGE_FORWARDING")),
				AllowLink:           parseToggle(os.Getenv("ENABLE_LINK_FORWARDING")),
				AllowText:           parseToggle(os.Getenv("ENABLE_TEXT_FORWARDING")),
				AllowChannelForward: parseToggle(os.Getenv("ENABLE_CHANNEL_FORWARDING")),
			},
			BlockKeywords:  unescapeNewlines(os.Getenv("BLOCK_KEYWORDS")),
			AutoReplyRules: unescapeNewlines(os.Getenv("AUTO_REPLY_RULES")),
		},
		Store: StoreConfig{
			Driver:   storeDriver,
			Path:     storePath,
			RedisURL: os.Getenv("REDIS_URL"),
		},
		Texts:    texts,
		Location: parseLocation(os.Getenv("TIMEZONE")),
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
	}
}

// parseThreshold falls back to the default on anything but a positive integer
func parseThreshold(val string) int {
	if val == "" {
		return DefaultViolationThreshold
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n < 1 {
		logrus.WithField("value", val).Warnf("Invalid VIOLATION_THRESHOLD, using %d", DefaultViolationThreshold)
		return DefaultViolationThreshold
	}
	return n
}

// parseToggle reads a forwarding toggle; unset means permitted
func parseToggle(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

// unescapeNewlines lets single-line env files carry rule lists as `a\nb`
func unescapeNewlines(val string) string {
	return strings.ReplaceAll(val, `\n`, "\n")
}

func parseLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.WithError(err).WithField("timezone", name).Warn("Unknown TIMEZONE, using UTC")
		return time.UTC
	}
	return loc
}

// ToSettings converts to relay usecase settings
func (c *Config) ToSettings() usecase.Settings {
	texts := c.Texts
	if texts == nil {
		texts = DefaultTextsConfig()
	}
	return usecase.Settings{
		AdminGroupID:       c.Telegram.AdminGroupID,
		VerificationAnswer: c.Relay.VerificationAnswer,
		ViolationThreshold: c.Relay.ViolationThreshold,
		Filter:             c.Relay.Filter,
		BlockKeywords:      c.Relay.BlockKeywords,
		AutoReplyRules:     c.Relay.AutoReplyRules,
		Location:           c.Location,
		Texts:              texts.ToTexts(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	if c.Telegram.AdminGroupID == "" {
		return &ConfigError{Field: "ADMIN_GROUP_ID", Message: "required"}
	}
	if _, err := strconv.ParseInt(c.Telegram.AdminGroupID, 10, 64); err != nil {
		return &ConfigError{Field: "ADMIN_GROUP_ID", Message: "must be a numeric chat id"}
	}
	switch c.Store.Driver {
	case "sqlite", "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return &ConfigError{Field: "REDIS_URL", Message: "required when STORE_DRIVER=redis"}
		}
	default:
		return &ConfigError{Field: "STORE_DRIVER", Message: "must be sqlite, redis or memory"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
