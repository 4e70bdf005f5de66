package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

// Mock implementations

type mockCorrespondentRepo struct {
	verification map[string]domain.VerificationState
	blocked      map[string]bool
	violations   map[string]int
	threads      map[string]string
	owners       map[string]string
	profiles     map[string]*domain.Profile
}

func newMockCorrespondentRepo() *mockCorrespondentRepo {
	return &mockCorrespondentRepo{
		verification: make(map[string]domain.VerificationState),
		blocked:      make(map[string]bool),
		violations:   make(map[string]int),
		threads:      make(map[string]string),
		owners:       make(map[string]string),
		profiles:     make(map[string]*domain.Profile),
	}
}

func (m *mockCorrespondentRepo) Get(ctx context.Context, id string) (*domain.Correspondent, error) {
	c := &domain.Correspondent{
		ID:           id,
		Verification: domain.ParseVerificationState(string(m.verification[id])),
		Blocked:      m.blocked[id],
		Violations:   m.violations[id],
	}
	if p := m.profiles[id]; p != nil {
		c.DisplayName = p.DisplayName
		c.Username = p.Username
		c.FirstContact = p.FirstContact
	}
	return c, nil
}

func (m *mockCorrespondentRepo) ThreadFor(ctx context.Context, id string) (string, bool, error) {
	t, ok := m.threads[id]
	return t, ok, nil
}

func (m *mockCorrespondentRepo) CorrespondentFor(ctx context.Context, threadID string) (string, bool, error) {
	id, ok := m.owners[threadID]
	return id, ok, nil
}

func (m *mockCorrespondentRepo) BindThread(ctx context.Context, id, threadID string) error {
	m.threads[id] = threadID
	m.owners[threadID] = id
	return nil
}

func (m *mockCorrespondentRepo) Profile(ctx context.Context, id string) (*domain.Profile, error) {
	if p := m.profiles[id]; p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockCorrespondentRepo) UpdateProfile(ctx context.Context, id, displayName, username string, firstContact time.Time) error {
	m.profiles[id] = &domain.Profile{DisplayName: displayName, Username: username, FirstContact: firstContact}
	return nil
}

func (m *mockCorrespondentRepo) SetVerification(ctx context.Context, id string, state domain.VerificationState) error {
	m.verification[id] = state
	return nil
}

func (m *mockCorrespondentRepo) SetBlocked(ctx context.Context, id string, blocked bool) error {
	m.blocked[id] = blocked
	if !blocked {
		delete(m.violations, id)
	}
	return nil
}

func (m *mockCorrespondentRepo) IncrementViolation(ctx context.Context, id string) (int, error) {
	m.violations[id]++
	return m.violations[id], nil
}

type mockLedgerRepo struct {
	records map[string]*domain.ForwardedMessage
}

func newMockLedgerRepo() *mockLedgerRepo {
	return &mockLedgerRepo{records: make(map[string]*domain.ForwardedMessage)}
}

func (m *mockLedgerRepo) Record(ctx context.Context, cid, mid, text string, sentAt time.Time) error {
	m.records[cid+"/"+mid] = &domain.ForwardedMessage{Text: text, SentAt: sentAt}
	return nil
}

func (m *mockLedgerRepo) Get(ctx context.Context, cid, mid string) (*domain.ForwardedMessage, error) {
	if r := m.records[cid+"/"+mid]; r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockLedgerRepo) UpdateText(ctx context.Context, cid, mid, text string) error {
	r := m.records[cid+"/"+mid]
	if r == nil {
		r = &domain.ForwardedMessage{}
		m.records[cid+"/"+mid] = r
	}
	r.Text = text
	return nil
}

type sentText struct {
	Target string
	Text   string
	Opts   repo.SendOptions
}

type copiedMessage struct {
	Target, Source, MessageID, ThreadID string
}

type editedMarkup struct {
	Target, MessageID string
	Markup            *domain.Markup
}

type mockMessaging struct {
	mu       sync.Mutex
	sent     []sentText
	copied   []copiedMessage
	created  []string
	renamed  []string
	markups  []editedMarkup
	acks     []string
	nextID   int
	failCopy bool
}

func (m *mockMessaging) SendText(ctx context.Context, target, text string, opts repo.SendOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentText{Target: target, Text: text, Opts: opts})
	m.nextID++
	return strconv.Itoa(m.nextID), nil
}

func (m *mockMessaging) CopyMessage(ctx context.Context, target, source, messageID, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCopy {
		return errors.New("copy failed")
	}
	m.copied = append(m.copied, copiedMessage{target, source, messageID, threadID})
	return nil
}

func (m *mockMessaging) CreateThread(ctx context.Context, group, title string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, title)
	return "thread-" + strconv.Itoa(len(m.created)), nil
}

func (m *mockMessaging) RenameThread(ctx context.Context, group, threadID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renamed = append(m.renamed, title)
	return nil
}

func (m *mockMessaging) EditControlMarkup(ctx context.Context, target, messageID string, markup *domain.Markup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markups = append(m.markups, editedMarkup{target, messageID, markup})
	return nil
}

func (m *mockMessaging) AcknowledgeCallback(ctx context.Context, callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acks = append(m.acks, text)
	return nil
}

// textsTo returns the texts sent to target, in order
func (m *mockMessaging) textsTo(target string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.Target == target {
			out = append(out, s.Text)
		}
	}
	return out
}

func (m *mockMessaging) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.copied = nil
	m.created = nil
	m.renamed = nil
	m.markups = nil
	m.acks = nil
}
