package domain

import "strings"

// ContentFilter holds the four content-category toggles.
// A true field means the category is relayed.
type ContentFilter struct {
	AllowImage          bool
	AllowLink           bool
	AllowText           bool
	AllowChannelForward bool
}

// PermitAll returns a filter with every category enabled
func PermitAll() ContentFilter {
	return ContentFilter{AllowImage: true, AllowLink: true, AllowText: true, AllowChannelForward: true}
}

// Rejection reasons shown to the correspondent
const (
	ReasonChannelForward = "channel forward"
	ReasonImage          = "image/photo"
	ReasonLink           = "link"
	ReasonText           = "plain text"
)

// Check returns the rejection reasons for msg, empty when it may be relayed.
// Channel forwards are checked before photos; links are checked regardless and appended;
// the plain-text toggle applies only to pure text.
func (f ContentFilter) Check(msg *Message) []string {
	var reasons []string
	if msg.ChannelForward && !f.AllowChannelForward {
		reasons = append(reasons, ReasonChannelForward)
	} else if msg.HasPhoto && !f.AllowImage {
		reasons = append(reasons, ReasonImage)
	}
	if msg.HasLink && !f.AllowLink {
		reasons = append(reasons, ReasonLink)
	}
	if msg.IsPureText() && !f.AllowText {
		reasons = append(reasons, ReasonText)
	}
	return reasons
}

// JoinReasons renders reasons for a notice
func JoinReasons(reasons []string) string {
	return strings.Join(reasons, ", ")
}
