package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxThreadTitleLen is the forum topic name limit, in characters
const MaxThreadTitleLen = 128

const cardTimeLayout = "2006-01-02 15:04:05 MST"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the three characters reserved by the HTML parse mode
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// ThreadTitle builds the plain-text topic title for a correspondent
func ThreadTitle(displayName, id string) string {
	title := strings.TrimSpace(displayName) + " | " + id
	runes := []rune(title)
	if len(runes) > MaxThreadTitleLen {
		return string(runes[:MaxThreadTitleLen])
	}
	return title
}

// DisplayName joins first and last name the way clients render them.
// Whitespace is kept so profile comparison sees whitespace-only changes.
func DisplayName(firstName, lastName string) string {
	name := firstName
	if lastName != "" {
		name += " " + lastName
	}
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}

// FormatTimestamp renders t in loc, or a placeholder for the zero time
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "unknown"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(cardTimeLayout)
}

// BuildIdentityCard renders the HTML profile card posted at the top of a thread
func BuildIdentityCard(id string, profile Profile, ref time.Time, loc *time.Location) string {
	username := "none"
	if profile.Username != "" {
		username = "@" + EscapeHTML(profile.Username)
	}

	var b strings.Builder
	b.WriteString("👤 <b>Correspondent</b>\n")
	fmt.Fprintf(&b, "Name: %s\n", EscapeHTML(profile.DisplayName))
	fmt.Fprintf(&b, "Username: %s\n", username)
	fmt.Fprintf(&b, "ID: <code>%s</code>\n", EscapeHTML(id))
	fmt.Fprintf(&b, "Time: %s", FormatTimestamp(ref, loc))
	return b.String()
}
