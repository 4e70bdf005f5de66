package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// CorrespondentView is the operator-facing snapshot of a correspondent
type CorrespondentView struct {
	ID           string                   `json:"id"`
	DisplayName  string                   `json:"display_name,omitempty"`
	Username     string                   `json:"username,omitempty"`
	Verification domain.VerificationState `json:"verification"`
	Blocked      bool                     `json:"blocked"`
	Violations   int                      `json:"violations"`
	Moderation   domain.ModerationState   `json:"moderation"`
	ThreadID     string                   `json:"thread_id,omitempty"`
	FirstContact *time.Time               `json:"first_contact,omitempty"`
}

// AdminUsecase serves operator lookups and moderation outside the staffed group
type AdminUsecase struct {
	correspondents repo.CorrespondentRepo
	moderation     *ModerationUsecase
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(correspondents repo.CorrespondentRepo, moderation *ModerationUsecase) *AdminUsecase {
	return &AdminUsecase{
		correspondents: correspondents,
		moderation:     moderation,
	}
}

// Inspect returns the current view of a correspondent; unknown ids read as new
func (uc *AdminUsecase) Inspect(ctx context.Context, id string) (*CorrespondentView, error) {
	c, err := uc.correspondents.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get correspondent: %w", err)
	}
	return uc.view(ctx, c)
}

// FindByThread resolves the owner of a staffed-group thread
func (uc *AdminUsecase) FindByThread(ctx context.Context, threadID string) (*CorrespondentView, bool, error) {
	id, ok, err := uc.correspondents.CorrespondentFor(ctx, threadID)
	if err != nil {
		return nil, false, fmt.Errorf("resolve thread owner: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	v, err := uc.Inspect(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// SetBlocked blocks or unblocks and returns the updated view
func (uc *AdminUsecase) SetBlocked(ctx context.Context, id string, blocked bool) (*CorrespondentView, error) {
	c, err := uc.moderation.SetBlocked(ctx, id, blocked)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

func (uc *AdminUsecase) view(ctx context.Context, c *domain.Correspondent) (*CorrespondentView, error) {
	threadID, _, err := uc.correspondents.ThreadFor(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup thread: %w", err)
	}

	v := &CorrespondentView{
		ID:           c.ID,
		DisplayName:  c.DisplayName,
		Username:     c.Username,
		Verification: c.Verification,
		Blocked:      c.Blocked,
		Violations:   c.Violations,
		Moderation:   c.Moderation(),
		ThreadID:     threadID,
	}
	if !c.FirstContact.IsZero() {
		fc := c.FirstContact
		v.FirstContact = &fc
	}
	return v, nil
}
