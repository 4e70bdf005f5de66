package domain

import "strings"

// Format is the parse mode of an outbound text
type Format string

const (
	FormatPlain Format = ""
	FormatHTML  Format = "HTML"
)

// InlineButton is a single inline control
type InlineButton struct {
	Text string
	Data string
}

// Markup is an inline keyboard attached to an outbound message
type Markup struct {
	Rows [][]InlineButton
}

// ModerationAction is the action carried by a moderation control
type ModerationAction string

const (
	ActionBlock   ModerationAction = "block"
	ActionUnblock ModerationAction = "unblock"
)

// ModerationControl returns the control matching the correspondent's current state:
// a block button while clear, an unblock button while blocked
func ModerationControl(correspondentID string, blocked bool) *Markup {
	btn := InlineButton{Text: "🚫 Block", Data: string(ActionBlock) + ":" + correspondentID}
	if blocked {
		btn = InlineButton{Text: "✅ Unblock", Data: string(ActionUnblock) + ":" + correspondentID}
	}
	return &Markup{Rows: [][]InlineButton{{btn}}}
}

// ParseModerationPayload parses `action:correspondentID`
func ParseModerationPayload(data string) (ModerationAction, string, bool) {
	action, id, found := strings.Cut(data, ":")
	if !found || id == "" {
		return "", "", false
	}
	switch ModerationAction(action) {
	case ActionBlock, ActionUnblock:
		return ModerationAction(action), id, true
	default:
		return "", "", false
	}
}
