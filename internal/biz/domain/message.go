package domain

import (
	"strings"
	"time"
)

// Sender represents the author of an inbound message
type Sender struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// DisplayName returns the rendered full name of the sender
func (s *Sender) DisplayName() string {
	return DisplayName(s.FirstName, s.LastName)
}

// Message represents an inbound message reduced to what the handlers need
type Message struct {
	ID       string
	ChatID   string
	ThreadID string // forum topic id, staffed group only
	IsTopic  bool
	Sender   Sender
	Text     string
	Caption  string
	Date     time.Time

	HasPhoto       bool
	HasVideo       bool
	HasDocument    bool
	HasSticker     bool
	HasAudio       bool
	HasVoice       bool
	HasLink        bool // url or text_link entity in text or caption
	ChannelForward bool // forwarded from a channel
}

// Content returns the text, falling back to the caption
func (m *Message) Content() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// IsPureText checks if the message carries text and nothing else
func (m *Message) IsPureText() bool {
	if m.Text == "" {
		return false
	}
	return !m.HasPhoto && !m.HasVideo && !m.HasDocument && !m.HasSticker &&
		!m.HasAudio && !m.HasVoice && !m.ChannelForward
}

// IsCommand checks if the first word of the text is one of the given commands.
// Arguments (deep-link payloads) and a trailing @botname are ignored.
func (m *Message) IsCommand(commands ...string) bool {
	fields := strings.Fields(m.Text)
	if len(fields) == 0 || !strings.HasPrefix(m.Text, "/") {
		return false
	}
	name, _, _ := strings.Cut(fields[0], "@")
	for _, c := range commands {
		if name == c {
			return true
		}
	}
	return false
}

// Callback represents an inline control press
type Callback struct {
	ID        string
	Data      string
	ChatID    string // chat of the message holding the control
	MessageID string
	ThreadID  string
	From      Sender
}
