package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

// Settings is the relay configuration shared by the usecases
type Settings struct {
	AdminGroupID       string
	VerificationAnswer string
	ViolationThreshold int
	Filter             domain.ContentFilter
	BlockKeywords      string
	AutoReplyRules     string
	Location           *time.Location
	Texts              Texts
}

// DefaultSettings returns settings with every optional value at its default
func DefaultSettings(adminGroupID string) Settings {
	return Settings{
		AdminGroupID:       adminGroupID,
		VerificationAnswer: "3",
		ViolationThreshold: 5,
		Filter:             domain.PermitAll(),
		Location:           time.UTC,
		Texts:              DefaultTexts,
	}
}

func (s Settings) threshold() int {
	if s.ViolationThreshold < 1 {
		return 5
	}
	return s.ViolationThreshold
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Texts are the user-facing notices. Templates use {{placeholder}} substitution.
type Texts struct {
	Welcome  string
	Question string

	StartPrompt   string
	VerifySuccess string
	VerifyFailed  string

	ViolationNotice  string // {{count}}, {{threshold}}
	BlockNotice      string
	BlockedConfirm   string // {{id}}
	UnblockedConfirm string // {{id}}
	BlockedAck       string
	UnblockedAck     string

	FilterRejected  string // {{reasons}}
	AutoReplyPrefix string
	ProfileUpdated  string // {{title}}

	EditHeader      string
	EditUnavailable string
	EditNonText     string
}

// DefaultTexts are the built-in notices
var DefaultTexts = Texts{
	Welcome:  "👋 Welcome! Messages you send here are forwarded to our team.",
	Question: "Before we start, please answer: what is 1 + 2?",

	StartPrompt:   "Please send /start to begin.",
	VerifySuccess: "✅ Verification passed. You can send your message now.",
	VerifyFailed:  "❌ That is not the right answer. Please try again.",

	ViolationNotice:  "⚠️ Your message contains blocked content and was not delivered. Violations: {{count}}/{{threshold}}",
	BlockNotice:      "🚫 You have been blocked after repeated violations.",
	BlockedConfirm:   "🚫 Correspondent {{id}} has been blocked.",
	UnblockedConfirm: "✅ Correspondent {{id}} has been unblocked.",
	BlockedAck:       "Blocked",
	UnblockedAck:     "Unblocked",

	FilterRejected:  "⚠️ Your message was not delivered: {{reasons}} forwarding is disabled.",
	AutoReplyPrefix: "🤖 Auto-reply:",
	ProfileUpdated:  "ℹ️ Profile updated: {{title}}",

	EditHeader:      "✏️ <b>Message edited</b>",
	EditUnavailable: "(original content unavailable)",
	EditNonText:     "(non-text content)",
}

// render substitutes {{key}} placeholders; pairs is key, value, key, value...
func render(tpl string, pairs ...string) string {
	args := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		args = append(args, "{{"+pairs[i]+"}}", pairs[i+1])
	}
	return strings.NewReplacer(args...).Replace(tpl)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
