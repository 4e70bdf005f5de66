package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// Outcome is how a private message left the relay pipeline
type Outcome string

const (
	OutcomeDropped      Outcome = "dropped_blocked"
	OutcomeVerification Outcome = "verification"
	OutcomeWelcome      Outcome = "welcome"
	OutcomeViolation    Outcome = "violation"
	OutcomeFiltered     Outcome = "filtered"
	OutcomeAutoReply    Outcome = "auto_reply"
	OutcomeRelayed      Outcome = "relayed"
	OutcomeFailed       Outcome = "failed"
)

var entryCommands = []string{"/start", "/help"}

// RelayUsecase runs the per-message pipeline for private messages:
// blocked check, verification gate, keyword block, content filter, auto-reply, relay
type RelayUsecase struct {
	correspondents repo.CorrespondentRepo
	ledger         repo.LedgerRepo
	messaging      repo.MessagingClient
	moderation     *ModerationUsecase
	threads        *ThreadUsecase
	rules          *RuleCache
	settings       Settings
	log            *logrus.Entry
}

// NewRelayUsecase creates a new relay usecase
func NewRelayUsecase(
	correspondents repo.CorrespondentRepo,
	ledger repo.LedgerRepo,
	messaging repo.MessagingClient,
	moderation *ModerationUsecase,
	threads *ThreadUsecase,
	rules *RuleCache,
	settings Settings,
) *RelayUsecase {
	return &RelayUsecase{
		correspondents: correspondents,
		ledger:         ledger,
		messaging:      messaging,
		moderation:     moderation,
		threads:        threads,
		rules:          rules,
		settings:       settings,
		log:            logrus.WithField("component", "relay"),
	}
}

// HandlePrivateMessage processes one private message from a correspondent
func (uc *RelayUsecase) HandlePrivateMessage(ctx context.Context, msg domain.Message) (Outcome, error) {
	c, err := uc.correspondents.Get(ctx, msg.Sender.ID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("load correspondent: %w", err)
	}

	// Blocked correspondents are dropped before verification is consulted
	if c.Blocked {
		return OutcomeDropped, nil
	}

	if !c.IsVerified() {
		return uc.verify(ctx, c, &msg)
	}

	if msg.IsCommand(entryCommands...) {
		uc.reply(ctx, c.ID, uc.settings.Texts.Welcome)
		return OutcomeWelcome, nil
	}

	content := msg.Content()

	// 1. Block keywords
	if content != "" && uc.rules.Block(uc.settings.BlockKeywords).Match(content) {
		if err := uc.moderation.HandleViolation(ctx, c); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeViolation, nil
	}

	// 2. Content categories
	if reasons := uc.settings.Filter.Check(&msg); len(reasons) > 0 {
		uc.reply(ctx, c.ID, render(uc.settings.Texts.FilterRejected, "reasons", domain.JoinReasons(reasons)))
		return OutcomeFiltered, nil
	}

	// 3. Auto-reply
	if content != "" {
		if response, ok := uc.rules.Response(uc.settings.AutoReplyRules).Match(content); ok {
			uc.reply(ctx, c.ID, uc.settings.Texts.AutoReplyPrefix+" "+response)
			return OutcomeAutoReply, nil
		}
	}

	// 4. Relay
	threadID, err := uc.threads.Ensure(ctx, &msg)
	if err != nil {
		return OutcomeFailed, err
	}
	if err := uc.messaging.CopyMessage(ctx, uc.settings.AdminGroupID, msg.ChatID, msg.ID, threadID); err != nil {
		return OutcomeFailed, fmt.Errorf("copy message: %w", err)
	}
	if msg.IsPureText() {
		if err := uc.ledger.Record(ctx, c.ID, msg.ID, msg.Text, msg.Date); err != nil {
			uc.log.WithError(err).WithField("correspondent", c.ID).Warn("Failed to record forwarded message")
		}
	}
	return OutcomeRelayed, nil
}

// verify drives new -> pending_verification -> verified
func (uc *RelayUsecase) verify(ctx context.Context, c *domain.Correspondent, msg *domain.Message) (Outcome, error) {
	texts := uc.settings.Texts

	if msg.IsCommand(entryCommands...) {
		if c.Verification != domain.VerificationPending {
			if err := uc.correspondents.SetVerification(ctx, c.ID, domain.VerificationPending); err != nil {
				return OutcomeFailed, fmt.Errorf("set verification: %w", err)
			}
		}
		uc.reply(ctx, c.ID, texts.Welcome)
		uc.reply(ctx, c.ID, texts.Question)
		return OutcomeVerification, nil
	}

	if c.Verification != domain.VerificationPending {
		uc.reply(ctx, c.ID, texts.StartPrompt)
		return OutcomeVerification, nil
	}

	if strings.TrimSpace(msg.Text) != strings.TrimSpace(uc.settings.VerificationAnswer) {
		uc.reply(ctx, c.ID, texts.VerifyFailed)
		return OutcomeVerification, nil
	}

	if err := uc.correspondents.SetVerification(ctx, c.ID, domain.VerificationDone); err != nil {
		return OutcomeFailed, fmt.Errorf("set verification: %w", err)
	}
	uc.log.WithField("correspondent", c.ID).Info("Correspondent verified")
	uc.reply(ctx, c.ID, texts.VerifySuccess)
	return OutcomeVerification, nil
}

// reply is fire-and-forget; the messaging layer logs failures
func (uc *RelayUsecase) reply(ctx context.Context, target, text string) {
	_, _ = uc.messaging.SendText(ctx, target, text, repo.SendOptions{})
}
