package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// ThreadUsecase provisions correspondent threads and keeps their titles current
type ThreadUsecase struct {
	correspondents repo.CorrespondentRepo
	messaging      repo.MessagingClient
	settings       Settings
	log            *logrus.Entry
	now            func() time.Time
}

// NewThreadUsecase creates a new thread usecase
func NewThreadUsecase(
	correspondents repo.CorrespondentRepo,
	messaging repo.MessagingClient,
	settings Settings,
) *ThreadUsecase {
	return &ThreadUsecase{
		correspondents: correspondents,
		messaging:      messaging,
		settings:       settings,
		log:            logrus.WithField("component", "thread"),
		now:            time.Now,
	}
}

// Ensure returns the sender's thread, creating it on first relay.
// For an existing thread the live profile is compared with the stored snapshot and
// the thread is refreshed on any difference.
func (uc *ThreadUsecase) Ensure(ctx context.Context, msg *domain.Message) (string, error) {
	id := msg.Sender.ID
	name := msg.Sender.DisplayName()
	username := msg.Sender.Username

	threadID, ok, err := uc.correspondents.ThreadFor(ctx, id)
	if err != nil {
		return "", fmt.Errorf("thread lookup: %w", err)
	}
	if !ok {
		return uc.provision(ctx, id, name, username, uc.refTime(msg))
	}

	profile, err := uc.correspondents.Profile(ctx, id)
	if err != nil {
		// Relay still proceeds; the check runs again on the next message
		uc.log.WithError(err).WithField("correspondent", id).Warn("Profile lookup failed")
		return threadID, nil
	}
	if profile == nil || profile.Differs(name, username) {
		uc.refresh(ctx, id, threadID, name, username, profile, uc.refTime(msg))
	}
	return threadID, nil
}

func (uc *ThreadUsecase) provision(ctx context.Context, id, name, username string, firstContact time.Time) (string, error) {
	title := domain.ThreadTitle(name, id)
	threadID, err := uc.messaging.CreateThread(ctx, uc.settings.AdminGroupID, title)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	if err := uc.correspondents.BindThread(ctx, id, threadID); err != nil {
		return "", fmt.Errorf("bind thread: %w", err)
	}
	if err := uc.correspondents.UpdateProfile(ctx, id, name, username, firstContact); err != nil {
		uc.log.WithError(err).WithField("correspondent", id).Warn("Failed to store profile snapshot")
	}

	uc.log.WithField("correspondent", id).WithField("thread", threadID).Info("Thread created")

	profile := domain.Profile{DisplayName: name, Username: username, FirstContact: firstContact}
	uc.postCard(ctx, id, threadID, profile, false)
	return threadID, nil
}

func (uc *ThreadUsecase) refresh(ctx context.Context, id, threadID, name, username string, old *domain.Profile, ref time.Time) {
	title := domain.ThreadTitle(name, id)
	_ = uc.messaging.RenameThread(ctx, uc.settings.AdminGroupID, threadID, title)
	_, _ = uc.messaging.SendText(ctx, uc.settings.AdminGroupID,
		render(uc.settings.Texts.ProfileUpdated, "title", title),
		repo.SendOptions{ThreadID: threadID},
	)

	firstContact := ref
	if old != nil && !old.FirstContact.IsZero() {
		firstContact = old.FirstContact
	}

	blocked := false
	if c, err := uc.correspondents.Get(ctx, id); err == nil {
		blocked = c.Blocked
	}
	uc.postCard(ctx, id, threadID, domain.Profile{DisplayName: name, Username: username, FirstContact: firstContact}, blocked)

	if err := uc.correspondents.UpdateProfile(ctx, id, name, username, firstContact); err != nil {
		uc.log.WithError(err).WithField("correspondent", id).Warn("Failed to store profile snapshot")
	}
	uc.log.WithField("correspondent", id).WithField("thread", threadID).Info("Profile change detected")
}

func (uc *ThreadUsecase) postCard(ctx context.Context, id, threadID string, profile domain.Profile, blocked bool) {
	card := domain.BuildIdentityCard(id, profile, profile.FirstContact, uc.settings.location())
	_, _ = uc.messaging.SendText(ctx, uc.settings.AdminGroupID, card, repo.SendOptions{
		ThreadID: threadID,
		Markup:   domain.ModerationControl(id, blocked),
		Format:   domain.FormatHTML,
	})
}

func (uc *ThreadUsecase) refTime(msg *domain.Message) time.Time {
	if msg.Date.IsZero() {
		return uc.now()
	}
	return msg.Date
}
