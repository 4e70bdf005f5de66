package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
)

const (
	secretHeader   = "X-Telegram-Bot-Api-Secret-Token"
	maxUpdateBytes = 1 << 20
	seenUpdateTTL  = 5 * time.Minute
	eventTimeout   = time.Minute
)

// Dispatcher handles one classified event
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event)
}

// WebhookServer receives Bot API updates and hands each one to the dispatcher
// on its own goroutine. Every well-authenticated request is answered 200.
type WebhookServer struct {
	addr         string
	secret       string
	adminGroupID string
	dispatcher   Dispatcher
	server       *http.Server
	log          *logrus.Entry

	// Update deduplication; Telegram redelivers when an answer is slow
	seen *cache.Cache

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWebhookServer creates a new webhook server
func NewWebhookServer(addr, secret, adminGroupID string, dispatcher Dispatcher) *WebhookServer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &WebhookServer{
		addr:         addr,
		secret:       secret,
		adminGroupID: adminGroupID,
		dispatcher:   dispatcher,
		log:          logrus.WithField("component", "webhook"),
		seen:         cache.New(seenUpdateTTL, 2*seenUpdateTTL),
		baseCtx:      ctx,
		cancel:       cancel,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed HTTP handler
func (s *WebhookServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/webhook", s.handleUpdate).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Start starts the listener in the background
func (s *WebhookServer) Start() error {
	s.log.WithField("addr", s.addr).Info("Webhook server listening")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Webhook server stopped")
		}
	}()
	return nil
}

// Stop stops accepting updates and waits for in-flight events
func (s *WebhookServer) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.cancel()
		return fmt.Errorf("wait for in-flight events: %w", ctx.Err())
	}
	s.cancel()
	return err
}

// wait blocks until every accepted update has been processed
func (s *WebhookServer) wait() {
	s.wg.Wait()
}

func (s *WebhookServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *WebhookServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			s.log.WithField("remote", r.RemoteAddr).Warn("Rejected webhook call with bad secret")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	// Malformed bodies are still acknowledged so Telegram does not redeliver them
	var update telegram.Update
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		s.log.WithError(err).Warn("Failed to read update")
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := json.Unmarshal(body, &update); err != nil {
		s.log.WithError(err).Warn("Failed to decode update")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Bodies without an update_id carry no identity to deduplicate on
	if update.UpdateID != 0 && s.seen.Add(strconv.FormatInt(update.UpdateID, 10), struct{}{}, cache.DefaultExpiration) != nil {
		s.log.WithField("update_id", update.UpdateID).Debug("Duplicate update ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := Classify(&update, s.adminGroupID)
	if ev == nil {
		s.log.WithField("update_id", update.UpdateID).Debug("Unhandled update")
		w.WriteHeader(http.StatusOK)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.baseCtx, eventTimeout)
		defer cancel()
		s.dispatcher.Dispatch(ctx, ev)
	}()

	w.WriteHeader(http.StatusOK)
}
