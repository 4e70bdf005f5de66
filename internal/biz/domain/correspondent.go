package domain

import "time"

// VerificationState represents how far a correspondent got through the entry check
type VerificationState string

const (
	VerificationNew     VerificationState = "new"
	VerificationPending VerificationState = "pending_verification"
	VerificationDone    VerificationState = "verified"
)

// ParseVerificationState maps a stored value back to a state; unknown values read as new
func ParseVerificationState(s string) VerificationState {
	switch VerificationState(s) {
	case VerificationPending:
		return VerificationPending
	case VerificationDone:
		return VerificationDone
	default:
		return VerificationNew
	}
}

// Correspondent represents an external party writing to the bot privately.
// It is a projection assembled from several independently stored keys.
type Correspondent struct {
	ID           string
	DisplayName  string
	Username     string
	Verification VerificationState
	Blocked      bool
	Violations   int
	FirstContact time.Time
}

// IsVerified checks if the correspondent passed verification
func (c *Correspondent) IsVerified() bool {
	return c.Verification == VerificationDone
}

// ModerationState is the derived moderation view of a correspondent
type ModerationState string

const (
	ModerationClear   ModerationState = "clear"
	ModerationFlagged ModerationState = "flagged"
	ModerationBlocked ModerationState = "blocked"
)

// Moderation derives the moderation state from the blocked flag and counter
func (c *Correspondent) Moderation() ModerationState {
	switch {
	case c.Blocked:
		return ModerationBlocked
	case c.Violations > 0:
		return ModerationFlagged
	default:
		return ModerationClear
	}
}

// Profile is the stored snapshot of the correspondent's public profile (value object)
type Profile struct {
	DisplayName  string    `json:"display_name"`
	Username     string    `json:"username"`
	FirstContact time.Time `json:"first_contact"`
}

// Differs reports whether the live name or username differ from the snapshot.
// Comparison is exact; whitespace-only changes count.
func (p *Profile) Differs(displayName, username string) bool {
	return p.DisplayName != displayName || p.Username != username
}

// ForwardedMessage is a ledger entry used to diff edits against the previous version
type ForwardedMessage struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}
