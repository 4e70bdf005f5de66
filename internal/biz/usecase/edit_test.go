package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

func TestHandleEdit_SuccessiveEditsDiffAgainstPrevious(t *testing.T) {
	h := newHarness(nil)
	h.repo.verification["42"] = domain.VerificationDone
	ctx := context.Background()

	h.send(t, privateText("42", "m1", "first <draft>"))
	h.msg.reset()

	h.edits.HandleEdit(ctx, privateText("42", "m1", "second"))
	admin := h.msg.textsTo(adminGroup)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], "<b>Before:</b>\nfirst &lt;draft&gt;")
	assert.Contains(t, admin[0], "<b>After:</b>\nsecond")
	assert.Contains(t, admin[0], "2024-05-01 09:30:00 UTC")
	assert.Equal(t, h.repo.threads["42"], h.msg.sent[0].Opts.ThreadID)
	assert.Equal(t, domain.FormatHTML, h.msg.sent[0].Opts.Format)

	h.msg.reset()
	h.edits.HandleEdit(ctx, privateText("42", "m1", "third"))
	admin = h.msg.textsTo(adminGroup)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], "<b>Before:</b>\nsecond")
	assert.NotContains(t, admin[0], "first")
	assert.Contains(t, admin[0], "<b>After:</b>\nthird")

	rec, _ := h.ledger.Get(ctx, "42", "m1")
	require.NotNil(t, rec)
	assert.Equal(t, "third", rec.Text)
	assert.True(t, rec.SentAt.Equal(sentAt))
}

func TestHandleEdit_Untracked(t *testing.T) {
	h := newHarness(nil)
	h.repo.threads["42"] = "700"

	msg := privateText("42", "m9", "")
	msg.Caption = "new caption"
	h.edits.HandleEdit(context.Background(), msg)

	admin := h.msg.textsTo(adminGroup)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], DefaultTexts.EditUnavailable)
	assert.Contains(t, admin[0], "<b>Sent:</b> unknown")
	assert.Contains(t, admin[0], "new caption")
	assert.Empty(t, h.ledger.records)
}

func TestHandleEdit_NonTextPlaceholder(t *testing.T) {
	h := newHarness(nil)
	h.repo.threads["42"] = "700"

	msg := privateText("42", "m9", "")
	msg.HasSticker = true
	h.edits.HandleEdit(context.Background(), msg)

	admin := h.msg.textsTo(adminGroup)
	require.Len(t, admin, 1)
	assert.Contains(t, admin[0], DefaultTexts.EditNonText)
}

func TestHandleEdit_NoThreadIgnored(t *testing.T) {
	h := newHarness(nil)

	h.edits.HandleEdit(context.Background(), privateText("42", "m1", "edited"))
	assert.Empty(t, h.msg.sent)
}

func TestHandleEdit_BlockedCorrespondentDropped(t *testing.T) {
	h := newHarness(func(s *Settings) {
		s.BlockKeywords = "spam"
		s.ViolationThreshold = 1
	})
	h.repo.verification["42"] = domain.VerificationDone
	ctx := context.Background()

	assert.Equal(t, OutcomeRelayed, h.send(t, privateText("42", "m1", "hello")))
	assert.Equal(t, OutcomeViolation, h.send(t, privateText("42", "m2", "spam")))
	require.True(t, h.repo.blocked["42"])
	h.msg.reset()

	h.edits.HandleEdit(ctx, privateText("42", "m1", "buy spam at evil.example"))
	h.edits.HandleEdit(ctx, privateText("42", "m1", "harmless"))
	assert.Empty(t, h.msg.sent)

	rec, _ := h.ledger.Get(ctx, "42", "m1")
	require.NotNil(t, rec)
	assert.Equal(t, "hello", rec.Text)
}

func TestHandleEdit_BlockKeywordCountsAsViolation(t *testing.T) {
	h := newHarness(func(s *Settings) {
		s.BlockKeywords = "spam"
		s.ViolationThreshold = 2
	})
	h.repo.verification["42"] = domain.VerificationDone
	ctx := context.Background()

	h.send(t, privateText("42", "m1", "hello"))
	h.msg.reset()

	h.edits.HandleEdit(ctx, privateText("42", "m1", "now with spam"))
	assert.Empty(t, h.msg.textsTo(adminGroup))
	assert.Equal(t, 1, h.repo.violations["42"])
	assert.Len(t, h.msg.textsTo("42"), 1)

	rec, _ := h.ledger.Get(ctx, "42", "m1")
	require.NotNil(t, rec)
	assert.Equal(t, "hello", rec.Text)

	h.msg.reset()
	h.edits.HandleEdit(ctx, privateText("42", "m1", "spam again"))
	assert.True(t, h.repo.blocked["42"])
	assert.Empty(t, h.msg.textsTo(adminGroup))
}
