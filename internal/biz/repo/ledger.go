package repo

import (
	"context"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

// LedgerRepo tracks the last known text of forwarded messages for edit notices
type LedgerRepo interface {
	// Record stores a newly forwarded text message
	Record(ctx context.Context, correspondentID, messageID, text string, sentAt time.Time) error

	// Get returns the record, nil if the message was never tracked
	Get(ctx context.Context, correspondentID, messageID string) (*domain.ForwardedMessage, error)

	// UpdateText replaces the text and keeps the original send time
	UpdateText(ctx context.Context, correspondentID, messageID, text string) error
}
