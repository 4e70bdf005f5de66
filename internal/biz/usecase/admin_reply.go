package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// AdminReplyUsecase routes staff replies in a thread back to its correspondent
type AdminReplyUsecase struct {
	correspondents repo.CorrespondentRepo
	messaging      repo.MessagingClient
	adminGroupID   string
	log            *logrus.Entry
}

// NewAdminReplyUsecase creates a new admin reply usecase
func NewAdminReplyUsecase(
	correspondents repo.CorrespondentRepo,
	messaging repo.MessagingClient,
	adminGroupID string,
) *AdminReplyUsecase {
	return &AdminReplyUsecase{
		correspondents: correspondents,
		messaging:      messaging,
		adminGroupID:   adminGroupID,
		log:            logrus.WithField("component", "admin_reply"),
	}
}

// HandleGroupMessage relays a thread message verbatim to the bound correspondent.
// Bot-authored messages are never relayed; unbound threads are a no-op.
func (uc *AdminReplyUsecase) HandleGroupMessage(ctx context.Context, msg domain.Message) (bool, error) {
	if msg.ChatID != uc.adminGroupID || !msg.IsTopic || msg.ThreadID == "" || msg.Text == "" || msg.Sender.IsBot {
		return false, nil
	}

	id, ok, err := uc.correspondents.CorrespondentFor(ctx, msg.ThreadID)
	if err != nil {
		return false, fmt.Errorf("thread owner lookup: %w", err)
	}
	if !ok {
		return false, nil
	}

	if _, err := uc.messaging.SendText(ctx, id, msg.Text, repo.SendOptions{}); err != nil {
		return false, fmt.Errorf("relay reply: %w", err)
	}
	uc.log.WithField("correspondent", id).WithField("thread", msg.ThreadID).Debug("Reply relayed")
	return true, nil
}
