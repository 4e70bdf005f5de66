package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

func setRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_GROUP_ID", "-1001234")
	t.Setenv("TEXTS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg := LoadFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
	assert.Equal(t, DefaultAdminListenAddr, cfg.Server.AdminListenAddr)
	assert.Equal(t, DefaultAPIBase, cfg.Telegram.APIBase)
	assert.Equal(t, DefaultVerificationAnswer, cfg.Relay.VerificationAnswer)
	assert.Equal(t, DefaultViolationThreshold, cfg.Relay.ViolationThreshold)
	assert.Equal(t, DefaultStoreDriver, cfg.Store.Driver)
	assert.Equal(t, time.UTC, cfg.Location)

	f := cfg.Relay.Filter
	assert.True(t, f.AllowImage && f.AllowLink && f.AllowText && f.AllowChannelForward)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_LISTEN_ADDR", "")
	t.Setenv("VIOLATION_THRESHOLD", "3")
	t.Setenv("ENABLE_IMAGE_FORWARDING", "false")
	t.Setenv("ENABLE_LINK_FORWARDING", "OFF")
	t.Setenv("ENABLE_TEXT_FORWARDING", "yes")
	t.Setenv("BLOCK_KEYWORDS", `spam\nscam`)
	t.Setenv("AUTO_REPLY_RULES", `hours===9-5\nprice===ask`)
	t.Setenv("TIMEZONE", "Asia/Shanghai")
	t.Setenv("WELCOME_MESSAGE", "hello there")

	cfg := LoadFromEnv()

	assert.Empty(t, cfg.Server.AdminListenAddr)
	assert.Equal(t, 3, cfg.Relay.ViolationThreshold)
	assert.False(t, cfg.Relay.Filter.AllowImage)
	assert.False(t, cfg.Relay.Filter.AllowLink)
	assert.True(t, cfg.Relay.Filter.AllowText)
	assert.True(t, cfg.Relay.Filter.AllowChannelForward)
	assert.Equal(t, "spam\nscam", cfg.Relay.BlockKeywords)
	assert.Equal(t, "hours===9-5\nprice===ask", cfg.Relay.AutoReplyRules)
	assert.Equal(t, "Asia/Shanghai", cfg.Location.String())

	settings := cfg.ToSettings()
	assert.Equal(t, "hello there", settings.Texts.Welcome)
	assert.Equal(t, "-1001234", settings.AdminGroupID)
	assert.Equal(t, 3, settings.ViolationThreshold)
}

func TestParseThreshold(t *testing.T) {
	cases := map[string]int{
		"":     DefaultViolationThreshold,
		"7":    7,
		" 2 ":  2,
		"0":    DefaultViolationThreshold,
		"-1":   DefaultViolationThreshold,
		"five": DefaultViolationThreshold,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseThreshold(in), "input %q", in)
	}
}

func TestParseLocation_Unknown(t *testing.T) {
	assert.Equal(t, time.UTC, parseLocation("Mars/Olympus"))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "t", AdminGroupID: "-100"},
			Store:    StoreConfig{Driver: "sqlite"},
		}
	}

	cases := map[string]struct {
		mutate func(*Config)
		field  string
	}{
		"missing token":     {func(c *Config) { c.Telegram.Token = "" }, "BOT_TOKEN"},
		"missing group":     {func(c *Config) { c.Telegram.AdminGroupID = "" }, "ADMIN_GROUP_ID"},
		"non-numeric group": {func(c *Config) { c.Telegram.AdminGroupID = "@staff" }, "ADMIN_GROUP_ID"},
		"redis without url": {func(c *Config) { c.Store.Driver = "redis" }, "REDIS_URL"},
		"unknown driver":    {func(c *Config) { c.Store.Driver = "etcd" }, "STORE_DRIVER"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.field, cerr.Field)
		})
	}

	require.NoError(t, valid().Validate())
	redis := valid()
	redis.Store = StoreConfig{Driver: "redis", RedisURL: "redis://localhost:6379/0"}
	require.NoError(t, redis.Validate())
}

func TestLoadTextsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.yaml")
	yaml := "welcome: \"hi!\"\nmoderation:\n  blocked_ack: \"Done\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	texts, err := LoadTextsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "hi!", texts.Welcome)
	assert.Equal(t, "Done", texts.Moderation.BlockedAck)

	// Missing keys fall back to defaults
	d := DefaultTextsConfig()
	assert.Equal(t, d.Question, texts.Question)
	assert.Equal(t, d.Edit.Header, texts.Edit.Header)
	assert.Equal(t, d.Moderation.UnblockedAck, texts.Moderation.UnblockedAck)
}

func TestLoadTextsConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("welcome: [unclosed"), 0o644))

	_, err := LoadTextsConfig(path)
	assert.Error(t, err)
}

func TestLoadTextsConfig_RepoExample(t *testing.T) {
	texts, err := LoadTextsConfig(filepath.Join("..", "..", "configs", "texts.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTextsConfig().ToTexts(), texts.ToTexts())
}
