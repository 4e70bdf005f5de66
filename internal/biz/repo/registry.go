package repo

import (
	"context"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

// CorrespondentRepo is the correspondent registry.
// It owns the correspondent <-> thread mapping, profile snapshots, verification
// and moderation state. Store failures are returned as-is and never retried.
type CorrespondentRepo interface {
	// Get assembles the current projection of a correspondent.
	// Unknown correspondents come back in the new state; nothing is written.
	Get(ctx context.Context, id string) (*domain.Correspondent, error)

	// ThreadFor returns the thread bound to the correspondent
	ThreadFor(ctx context.Context, id string) (threadID string, ok bool, err error)

	// CorrespondentFor returns the correspondent bound to a thread
	CorrespondentFor(ctx context.Context, threadID string) (id string, ok bool, err error)

	// BindThread writes the forward mapping, then the reverse mapping.
	// The two writes are not atomic; see the implementation for the accepted race.
	BindThread(ctx context.Context, id, threadID string) error

	// Profile returns the stored profile snapshot, nil if none
	Profile(ctx context.Context, id string) (*domain.Profile, error)

	// UpdateProfile overwrites the profile snapshot
	UpdateProfile(ctx context.Context, id, displayName, username string, firstContact time.Time) error

	// SetVerification stores the verification state
	SetVerification(ctx context.Context, id string, state domain.VerificationState) error

	// SetBlocked sets or clears the blocked flag; clearing also resets violations
	SetBlocked(ctx context.Context, id string, blocked bool) error

	// IncrementViolation bumps the violation counter and returns the new count
	IncrementViolation(ctx context.Context, id string) (int, error)
}
