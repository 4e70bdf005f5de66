package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// EditUsecase posts edit notices for messages already relayed into a thread
type EditUsecase struct {
	correspondents repo.CorrespondentRepo
	ledger         repo.LedgerRepo
	messaging      repo.MessagingClient
	moderation     *ModerationUsecase
	rules          *RuleCache
	settings       Settings
	log            *logrus.Entry
}

// NewEditUsecase creates a new edit usecase
func NewEditUsecase(
	correspondents repo.CorrespondentRepo,
	ledger repo.LedgerRepo,
	messaging repo.MessagingClient,
	moderation *ModerationUsecase,
	rules *RuleCache,
	settings Settings,
) *EditUsecase {
	return &EditUsecase{
		correspondents: correspondents,
		ledger:         ledger,
		messaging:      messaging,
		moderation:     moderation,
		rules:          rules,
		settings:       settings,
		log:            logrus.WithField("component", "edit"),
	}
}

// HandleEdit reports an edited private message into the correspondent's thread.
// The ledger is advanced to the new text so the next edit diffs against this one.
// Edits from blocked correspondents are dropped; an edit matching a block rule
// counts as a violation and is not reported. Failures are logged only.
func (uc *EditUsecase) HandleEdit(ctx context.Context, msg domain.Message) {
	id := msg.Sender.ID
	log := uc.log.WithField("correspondent", id).WithField("message_id", msg.ID)

	c, err := uc.correspondents.Get(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Correspondent lookup failed")
		return
	}
	if c.Blocked {
		return
	}

	current := msg.Content()
	if current != "" && uc.rules.Block(uc.settings.BlockKeywords).Match(current) {
		if err := uc.moderation.HandleViolation(ctx, c); err != nil {
			log.WithError(err).Warn("Failed to record violation")
		}
		return
	}

	threadID, ok, err := uc.correspondents.ThreadFor(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Thread lookup failed")
		return
	}
	if !ok {
		return
	}

	texts := uc.settings.Texts
	prior := texts.EditUnavailable
	var sentAt time.Time

	rec, err := uc.ledger.Get(ctx, id, msg.ID)
	if err != nil {
		log.WithError(err).Warn("Ledger lookup failed")
	}
	if rec != nil {
		prior = rec.Text
		sentAt = rec.SentAt
		if msg.Text != "" {
			if err := uc.ledger.UpdateText(ctx, id, msg.ID, msg.Text); err != nil {
				log.WithError(err).Warn("Ledger update failed")
			}
		}
	}

	if current == "" {
		current = texts.EditNonText
	}

	var b strings.Builder
	b.WriteString(texts.EditHeader)
	fmt.Fprintf(&b, "\n\n<b>Before:</b>\n%s", domain.EscapeHTML(prior))
	fmt.Fprintf(&b, "\n\n<b>Sent:</b> %s", domain.FormatTimestamp(sentAt, uc.settings.location()))
	fmt.Fprintf(&b, "\n\n<b>After:</b>\n%s", domain.EscapeHTML(current))

	_, _ = uc.messaging.SendText(ctx, uc.settings.AdminGroupID, b.String(), repo.SendOptions{
		ThreadID: threadID,
		Format:   domain.FormatHTML,
	})
}
