package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// Key namespace. Every fact about a correspondent lives under its own key.
const (
	keyVerification = "verify:"
	keyBlocked      = "blocked:"
	keyViolations   = "violations:"
	keyThread       = "thread:"       // correspondent -> thread
	keyThreadOwner  = "thread_owner:" // thread -> correspondent
	keyProfile      = "profile:"
	keyMessage      = "msg:"
)

// registryRepo implements repo.CorrespondentRepo on a KeyValueStore
type registryRepo struct {
	kv repo.KeyValueStore
}

// NewRegistryRepo creates a new correspondent registry
func NewRegistryRepo(kv repo.KeyValueStore) repo.CorrespondentRepo {
	return &registryRepo{kv: kv}
}

// Get assembles the correspondent projection from its keys
func (r *registryRepo) Get(ctx context.Context, id string) (*domain.Correspondent, error) {
	c := &domain.Correspondent{ID: id}

	state, _, err := r.get(ctx, keyVerification+id)
	if err != nil {
		return nil, err
	}
	c.Verification = domain.ParseVerificationState(state)

	blocked, _, err := r.get(ctx, keyBlocked+id)
	if err != nil {
		return nil, err
	}
	c.Blocked = blocked == "true"

	if c.Violations, err = r.violations(ctx, id); err != nil {
		return nil, err
	}

	profile, err := r.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		c.DisplayName = profile.DisplayName
		c.Username = profile.Username
		c.FirstContact = profile.FirstContact
	}
	return c, nil
}

// ThreadFor reads the forward mapping
func (r *registryRepo) ThreadFor(ctx context.Context, id string) (string, bool, error) {
	return r.get(ctx, keyThread+id)
}

// CorrespondentFor reads the reverse mapping
func (r *registryRepo) CorrespondentFor(ctx context.Context, threadID string) (string, bool, error) {
	return r.get(ctx, keyThreadOwner+threadID)
}

// BindThread writes forward then reverse.
// The store has no multi-key transactions: a crash between the two writes leaves the
// reverse mapping missing (admin replies in that thread are dropped), and two concurrent
// first messages can each create a thread, the later forward write winning. Both are
// accepted; the next relay uses whichever forward mapping is stored.
func (r *registryRepo) BindThread(ctx context.Context, id, threadID string) error {
	if err := r.kv.Put(ctx, keyThread+id, threadID); err != nil {
		return fmt.Errorf("bind thread forward: %w", err)
	}
	if err := r.kv.Put(ctx, keyThreadOwner+threadID, id); err != nil {
		return fmt.Errorf("bind thread reverse: %w", err)
	}
	return nil
}

// Profile reads the profile snapshot
func (r *registryRepo) Profile(ctx context.Context, id string) (*domain.Profile, error) {
	raw, ok, err := r.get(ctx, keyProfile+id)
	if err != nil || !ok {
		return nil, err
	}
	var p domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &p, nil
}

// UpdateProfile overwrites the profile snapshot
func (r *registryRepo) UpdateProfile(ctx context.Context, id, displayName, username string, firstContact time.Time) error {
	raw, err := json.Marshal(domain.Profile{
		DisplayName:  displayName,
		Username:     username,
		FirstContact: firstContact,
	})
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", id, err)
	}
	return r.kv.Put(ctx, keyProfile+id, string(raw))
}

// SetVerification stores the verification state
func (r *registryRepo) SetVerification(ctx context.Context, id string, state domain.VerificationState) error {
	return r.kv.Put(ctx, keyVerification+id, string(state))
}

// SetBlocked sets the blocked flag. Unblocking clears the flag and the counter.
func (r *registryRepo) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if blocked {
		return r.kv.Put(ctx, keyBlocked+id, "true")
	}
	if err := r.kv.Delete(ctx, keyBlocked+id); err != nil {
		return err
	}
	return r.kv.Delete(ctx, keyViolations+id)
}

// IncrementViolation is a read-modify-write without a version check; concurrent
// violations from the same correspondent may under-count. The counter only drives
// an advisory threshold.
func (r *registryRepo) IncrementViolation(ctx context.Context, id string) (int, error) {
	count, err := r.violations(ctx, id)
	if err != nil {
		return 0, err
	}
	count++
	if err := r.kv.Put(ctx, keyViolations+id, strconv.Itoa(count)); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registryRepo) violations(ctx context.Context, id string) (int, error) {
	raw, ok, err := r.get(ctx, keyViolations+id)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		// A corrupt counter restarts from zero
		return 0, nil
	}
	return n, nil
}

func (r *registryRepo) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.kv.Get(ctx, key)
	if errors.Is(err, repo.ErrMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
