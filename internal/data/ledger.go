package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// ledgerRepo implements repo.LedgerRepo on a KeyValueStore.
// Records are never deleted.
type ledgerRepo struct {
	kv repo.KeyValueStore
}

// NewLedgerRepo creates a new edit ledger
func NewLedgerRepo(kv repo.KeyValueStore) repo.LedgerRepo {
	return &ledgerRepo{kv: kv}
}

func messageKey(correspondentID, messageID string) string {
	return keyMessage + correspondentID + ":" + messageID
}

// Record stores a forwarded text message
func (r *ledgerRepo) Record(ctx context.Context, correspondentID, messageID, text string, sentAt time.Time) error {
	return r.put(ctx, correspondentID, messageID, &domain.ForwardedMessage{Text: text, SentAt: sentAt})
}

// Get returns the ledger record, nil if absent
func (r *ledgerRepo) Get(ctx context.Context, correspondentID, messageID string) (*domain.ForwardedMessage, error) {
	raw, err := r.kv.Get(ctx, messageKey(correspondentID, messageID))
	if errors.Is(err, repo.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec domain.ForwardedMessage
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode ledger record %s/%s: %w", correspondentID, messageID, err)
	}
	return &rec, nil
}

// UpdateText replaces the text and keeps SentAt, so the next edit diffs against this one
func (r *ledgerRepo) UpdateText(ctx context.Context, correspondentID, messageID, text string) error {
	rec, err := r.Get(ctx, correspondentID, messageID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &domain.ForwardedMessage{}
	}
	rec.Text = text
	return r.put(ctx, correspondentID, messageID, rec)
}

func (r *ledgerRepo) put(ctx context.Context, correspondentID, messageID string, rec *domain.ForwardedMessage) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode ledger record: %w", err)
	}
	return r.kv.Put(ctx, messageKey(correspondentID, messageID), string(raw))
}
