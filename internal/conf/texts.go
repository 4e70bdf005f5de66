package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// TextsConfig contains the user-facing notices loaded from YAML.
// Templates use {{placeholder}} substitution.
type TextsConfig struct {
	Welcome  string `yaml:"welcome"`
	Question string `yaml:"question"`

	Verification VerificationTexts `yaml:"verification"`
	Moderation   ModerationTexts   `yaml:"moderation"`
	Relay        RelayTexts        `yaml:"relay"`
	Edit         EditTexts         `yaml:"edit"`
}

// VerificationTexts contains verification replies
type VerificationTexts struct {
	StartPrompt string `yaml:"start_prompt"`
	Success     string `yaml:"success"`
	Failed      string `yaml:"failed"`
}

// ModerationTexts contains violation and block notices
type ModerationTexts struct {
	ViolationNotice  string `yaml:"violation_notice"` // {{count}}, {{threshold}}
	BlockNotice      string `yaml:"block_notice"`
	BlockedConfirm   string `yaml:"blocked_confirm"`   // {{id}}
	UnblockedConfirm string `yaml:"unblocked_confirm"` // {{id}}
	BlockedAck       string `yaml:"blocked_ack"`
	UnblockedAck     string `yaml:"unblocked_ack"`
}

// RelayTexts contains filter and auto-reply texts
type RelayTexts struct {
	FilterRejected  string `yaml:"filter_rejected"` // {{reasons}}
	AutoReplyPrefix string `yaml:"auto_reply_prefix"`
	ProfileUpdated  string `yaml:"profile_updated"` // {{title}}
}

// EditTexts contains edit notification texts
type EditTexts struct {
	Header      string `yaml:"header"`
	Unavailable string `yaml:"unavailable"`
	NonText     string `yaml:"non_text"`
}

// LoadTextsConfig loads texts configuration from YAML file
func LoadTextsConfig(configPath string) (*TextsConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/texts.yaml",
			"/etc/tg-relay-bridge/texts.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "texts.yaml"))
		}
	}

	var data []byte
	var loadedPath string

	for _, p := range paths {
		if b, err := os.ReadFile(p); err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		logrus.Debug("No texts.yaml found, using defaults")
		return DefaultTextsConfig(), nil
	}

	logrus.WithField("path", loadedPath).Info("Loading texts")

	var config TextsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse texts.yaml: %w", err)
	}

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *TextsConfig) fillDefaults() {
	d := DefaultTextsConfig()

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	fill(&c.Welcome, d.Welcome)
	fill(&c.Question, d.Question)

	fill(&c.Verification.StartPrompt, d.Verification.StartPrompt)
	fill(&c.Verification.Success, d.Verification.Success)
	fill(&c.Verification.Failed, d.Verification.Failed)

	fill(&c.Moderation.ViolationNotice, d.Moderation.ViolationNotice)
	fill(&c.Moderation.BlockNotice, d.Moderation.BlockNotice)
	fill(&c.Moderation.BlockedConfirm, d.Moderation.BlockedConfirm)
	fill(&c.Moderation.UnblockedConfirm, d.Moderation.UnblockedConfirm)
	fill(&c.Moderation.BlockedAck, d.Moderation.BlockedAck)
	fill(&c.Moderation.UnblockedAck, d.Moderation.UnblockedAck)

	fill(&c.Relay.FilterRejected, d.Relay.FilterRejected)
	fill(&c.Relay.AutoReplyPrefix, d.Relay.AutoReplyPrefix)
	fill(&c.Relay.ProfileUpdated, d.Relay.ProfileUpdated)

	fill(&c.Edit.Header, d.Edit.Header)
	fill(&c.Edit.Unavailable, d.Edit.Unavailable)
	fill(&c.Edit.NonText, d.Edit.NonText)
}

// ToTexts converts to usecase texts
func (c *TextsConfig) ToTexts() usecase.Texts {
	return usecase.Texts{
		Welcome:          c.Welcome,
		Question:         c.Question,
		StartPrompt:      c.Verification.StartPrompt,
		VerifySuccess:    c.Verification.Success,
		VerifyFailed:     c.Verification.Failed,
		ViolationNotice:  c.Moderation.ViolationNotice,
		BlockNotice:      c.Moderation.BlockNotice,
		BlockedConfirm:   c.Moderation.BlockedConfirm,
		UnblockedConfirm: c.Moderation.UnblockedConfirm,
		BlockedAck:       c.Moderation.BlockedAck,
		UnblockedAck:     c.Moderation.UnblockedAck,
		FilterRejected:   c.Relay.FilterRejected,
		AutoReplyPrefix:  c.Relay.AutoReplyPrefix,
		ProfileUpdated:   c.Relay.ProfileUpdated,
		EditHeader:       c.Edit.Header,
		EditUnavailable:  c.Edit.Unavailable,
		EditNonText:      c.Edit.NonText,
	}
}

// DefaultTextsConfig returns the default texts configuration
func DefaultTextsConfig() *TextsConfig {
	d := usecase.DefaultTexts
	return &TextsConfig{
		Welcome:  d.Welcome,
		Question: d.Question,
		Verification: VerificationTexts{
			StartPrompt: d.StartPrompt,
			Success:     d.VerifySuccess,
			Failed:      d.VerifyFailed,
		},
		Moderation: ModerationTexts{
			ViolationNotice:  d.ViolationNotice,
			BlockNotice:      d.BlockNotice,
			BlockedConfirm:   d.BlockedConfirm,
			UnblockedConfirm: d.UnblockedConfirm,
			BlockedAck:       d.BlockedAck,
			UnblockedAck:     d.UnblockedAck,
		},
		Relay: RelayTexts{
			FilterRejected:  d.FilterRejected,
			AutoReplyPrefix: d.AutoReplyPrefix,
			ProfileUpdated:  d.ProfileUpdated,
		},
		Edit: EditTexts{
			Header:      d.EditHeader,
			Unavailable: d.EditUnavailable,
			NonText:     d.EditNonText,
		},
	}
}
