package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

const privateUpdate = `{"update_id": %s, "message": {"message_id": 1, "chat": {"id": 42, "type": "private"}, "from": {"id": 42, "first_name": "Ann"}, "text": "hi"}}`

func post(t *testing.T, h http.Handler, body, secret string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func update(id string) string {
	return strings.Replace(privateUpdate, "%s", id, 1)
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	d := &recordingDispatcher{}
	s := NewWebhookServer(":0", "", testAdminGroup, d)

	assert.Equal(t, http.StatusOK, post(t, s.Handler(), update("1"), ""))
	s.wait()

	require.Equal(t, 1, d.count())
	_, ok := d.events[0].(domain.PrivateMessageEvent)
	assert.True(t, ok)
}

func TestWebhook_Secret(t *testing.T) {
	d := &recordingDispatcher{}
	s := NewWebhookServer(":0", "s3cret", testAdminGroup, d)
	h := s.Handler()

	assert.Equal(t, http.StatusUnauthorized, post(t, h, update("1"), ""))
	assert.Equal(t, http.StatusUnauthorized, post(t, h, update("2"), "wrong"))
	assert.Equal(t, http.StatusOK, post(t, h, update("3"), "s3cret"))
	s.wait()

	assert.Equal(t, 1, d.count())
}

func TestWebhook_DuplicateUpdateSkipped(t *testing.T) {
	d := &recordingDispatcher{}
	s := NewWebhookServer(":0", "", testAdminGroup, d)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, post(t, h, update("9"), ""))
	assert.Equal(t, http.StatusOK, post(t, h, update("9"), ""))
	assert.Equal(t, http.StatusOK, post(t, h, update("10"), ""))
	s.wait()

	assert.Equal(t, 2, d.count())
}

func TestWebhook_MissingUpdateIDNotDeduplicated(t *testing.T) {
	d := &recordingDispatcher{}
	s := NewWebhookServer(":0", "", testAdminGroup, d)
	h := s.Handler()

	noID := strings.Replace(privateUpdate, `"update_id": %s, `, "", 1)
	assert.Equal(t, http.StatusOK, post(t, h, noID, ""))
	assert.Equal(t, http.StatusOK, post(t, h, noID, ""))
	s.wait()

	assert.Equal(t, 2, d.count())
}

func TestWebhook_MalformedAndUnhandledAcknowledged(t *testing.T) {
	d := &recordingDispatcher{}
	s := NewWebhookServer(":0", "", testAdminGroup, d)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, post(t, h, "{not json", ""))
	assert.Equal(t, http.StatusOK, post(t, h, `{"update_id": 5}`, ""))
	s.wait()

	assert.Zero(t, d.count())
}

func TestWebhook_HealthAndMetrics(t *testing.T) {
	s := NewWebhookServer(":0", "", testAdminGroup, &recordingDispatcher{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestWebhook_GetNotAllowed(t *testing.T) {
	s := NewWebhookServer(":0", "", testAdminGroup, &recordingDispatcher{})
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
