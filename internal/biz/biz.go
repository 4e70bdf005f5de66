package biz

import (
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// ruleCacheTTL bounds how long an unused compiled rule set stays cached
const ruleCacheTTL = 30 * time.Minute

// Usecases contains all usecases
type Usecases struct {
	Relay      *usecase.RelayUsecase
	Moderation *usecase.ModerationUsecase
	Threads    *usecase.ThreadUsecase
	Edits      *usecase.EditUsecase
	Replies    *usecase.AdminReplyUsecase
	Admin      *usecase.AdminUsecase
}

// NewUsecases wires every usecase over the given repositories
func NewUsecases(
	correspondents repo.CorrespondentRepo,
	ledger repo.LedgerRepo,
	messaging repo.MessagingClient,
	settings usecase.Settings,
) *Usecases {
	moderation := usecase.NewModerationUsecase(correspondents, messaging, settings)
	threads := usecase.NewThreadUsecase(correspondents, messaging, settings)
	rules := usecase.NewRuleCache(ruleCacheTTL)

	return &Usecases{
		Relay:      usecase.NewRelayUsecase(correspondents, ledger, messaging, moderation, threads, rules, settings),
		Moderation: moderation,
		Threads:    threads,
		Edits:      usecase.NewEditUsecase(correspondents, ledger, messaging, moderation, rules, settings),
		Replies:    usecase.NewAdminReplyUsecase(correspondents, messaging, settings.AdminGroupID),
		Admin:      usecase.NewAdminUsecase(correspondents, moderation),
	}
}
