package data

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
	"github.com/devricklin/tg-relay-bridge/internal/metrics"
)

func newTelegramRepoForTest(t *testing.T, handler http.HandlerFunc) repo.MessagingClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTelegramRepo(telegram.NewClient(srv.Client(), srv.URL, "T"))
}

func TestTelegramRepo_SendTextWithMarkup(t *testing.T) {
	var body map[string]any
	r := newTelegramRepoForTest(t, func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":10}}`))
	})

	id, err := r.SendText(context.Background(), "-100", "card", repo.SendOptions{
		ThreadID: "5",
		Format:   domain.FormatHTML,
		Markup:   domain.ModerationControl("42", false),
	})
	require.NoError(t, err)
	assert.Equal(t, "10", id)
	assert.Equal(t, "HTML", body["parse_mode"])

	kb := body["reply_markup"].(map[string]any)["inline_keyboard"].([]any)
	btn := kb[0].([]any)[0].(map[string]any)
	assert.Equal(t, "block:42", btn["callback_data"])
}

func TestTelegramRepo_FailureCounted(t *testing.T) {
	r := newTelegramRepoForTest(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"TOPIC_CLOSED"}`))
	})

	before := testutil.ToFloat64(metrics.OutboundFailures.WithLabelValues("copyMessage"))
	err := r.CopyMessage(context.Background(), "-100", "42", "3", "5")
	require.Error(t, err)
	after := testutil.ToFloat64(metrics.OutboundFailures.WithLabelValues("copyMessage"))
	assert.InDelta(t, 1, after-before, 0.001)
}

func TestTelegramRepo_InvalidID(t *testing.T) {
	r := newTelegramRepoForTest(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request expected")
	})

	_, err := r.CreateThread(context.Background(), "not-a-number", "x")
	assert.Error(t, err)
}

func TestTelegramRepo_CreateThread(t *testing.T) {
	r := newTelegramRepoForTest(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_thread_id":321,"name":"x"}}`))
	})

	id, err := r.CreateThread(context.Background(), "-100", "x")
	require.NoError(t, err)
	assert.Equal(t, "321", id)
}
