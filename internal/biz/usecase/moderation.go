package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// ModerationUsecase handles violations and explicit block/unblock actions
type ModerationUsecase struct {
	correspondents repo.CorrespondentRepo
	messaging      repo.MessagingClient
	settings       Settings
	log            *logrus.Entry
}

// NewModerationUsecase creates a new moderation usecase
func NewModerationUsecase(
	correspondents repo.CorrespondentRepo,
	messaging repo.MessagingClient,
	settings Settings,
) *ModerationUsecase {
	return &ModerationUsecase{
		correspondents: correspondents,
		messaging:      messaging,
		settings:       settings,
		log:            logrus.WithField("component", "moderation"),
	}
}

// HandleViolation records a block-keyword hit. The message is never relayed.
// Reaching the threshold blocks the correspondent and sends the violation notice
// followed by the final block notice.
func (uc *ModerationUsecase) HandleViolation(ctx context.Context, c *domain.Correspondent) error {
	if c.Blocked {
		return nil
	}

	count, err := uc.correspondents.IncrementViolation(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("increment violation: %w", err)
	}

	threshold := uc.settings.threshold()
	notice := render(uc.settings.Texts.ViolationNotice,
		"count", itoa(count),
		"threshold", itoa(threshold),
	)

	if count < threshold {
		uc.send(ctx, c.ID, notice)
		return nil
	}

	if err := uc.correspondents.SetBlocked(ctx, c.ID, true); err != nil {
		return fmt.Errorf("block correspondent: %w", err)
	}
	uc.log.WithField("correspondent", c.ID).WithField("violations", count).Info("Correspondent blocked by threshold")

	uc.send(ctx, c.ID, notice)
	uc.send(ctx, c.ID, uc.settings.Texts.BlockNotice)
	return nil
}

// HandleCallback applies an inline block/unblock control press.
// Presses whose control does not live in the staffed group are ignored.
func (uc *ModerationUsecase) HandleCallback(ctx context.Context, cb domain.Callback) error {
	if cb.ChatID != uc.settings.AdminGroupID {
		uc.log.WithField("chat_id", cb.ChatID).Debug("Ignoring callback from outside the staffed group")
		return nil
	}

	action, id, ok := domain.ParseModerationPayload(cb.Data)
	if !ok {
		uc.log.WithField("data", cb.Data).Debug("Ignoring unknown callback payload")
		_ = uc.messaging.AcknowledgeCallback(ctx, cb.ID, "")
		return nil
	}

	blocked := action == domain.ActionBlock
	if err := uc.correspondents.SetBlocked(ctx, id, blocked); err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}

	_ = uc.messaging.EditControlMarkup(ctx, cb.ChatID, cb.MessageID, domain.ModerationControl(id, blocked))

	threadID := cb.ThreadID
	if threadID == "" {
		threadID, _, _ = uc.correspondents.ThreadFor(ctx, id)
	}
	uc.confirm(ctx, id, threadID, blocked, nil)

	ack := uc.settings.Texts.UnblockedAck
	if blocked {
		ack = uc.settings.Texts.BlockedAck
	}
	_ = uc.messaging.AcknowledgeCallback(ctx, cb.ID, ack)

	uc.log.WithField("correspondent", id).WithField("action", action).Info("Moderation action applied")
	return nil
}

// SetBlocked blocks or unblocks a correspondent outside the inline controls,
// posting the same confirmation into the correspondent's thread when one exists
func (uc *ModerationUsecase) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.Correspondent, error) {
	if err := uc.correspondents.SetBlocked(ctx, id, blocked); err != nil {
		return nil, fmt.Errorf("set blocked: %w", err)
	}

	threadID, ok, err := uc.correspondents.ThreadFor(ctx, id)
	if err != nil {
		uc.log.WithError(err).WithField("correspondent", id).Warn("Thread lookup failed")
	}
	// The identity card's control is not edited here, so the confirmation carries a current one
	if ok {
		uc.confirm(ctx, id, threadID, blocked, domain.ModerationControl(id, blocked))
	}

	return uc.correspondents.Get(ctx, id)
}

func (uc *ModerationUsecase) confirm(ctx context.Context, id, threadID string, blocked bool, control *domain.Markup) {
	tpl := uc.settings.Texts.UnblockedConfirm
	if blocked {
		tpl = uc.settings.Texts.BlockedConfirm
	}
	_, _ = uc.messaging.SendText(ctx, uc.settings.AdminGroupID, render(tpl, "id", id), repo.SendOptions{
		ThreadID: threadID,
		Markup:   control,
	})
}

// send is fire-and-forget; the messaging layer logs failures
func (uc *ModerationUsecase) send(ctx context.Context, target, text string) {
	_, _ = uc.messaging.SendText(ctx, target, text, repo.SendOptions{})
}
