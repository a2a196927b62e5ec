package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-sport-subscription/internal/domain"
	"telegram-sport-subscription/internal/domain/model"
	"telegram-sport-subscription/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---- transactions ----

type MockTransactionRepo struct {
	mu       sync.Mutex
	store    map[string]*model.Transaction
	SaveFunc func(ctx context.Context, qx any, t *model.Transaction) error
}

func NewMockTransactionRepo() *MockTransactionRepo {
	return &MockTransactionRepo{store: make(map[string]*model.Transaction)}
}

func (m *MockTransactionRepo) Save(ctx context.Context, qx any, t *model.Transaction) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, qx, t); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *MockTransactionRepo) FindByExternalID(ctx context.Context, qx any, provider model.PaymentProvider, externalID string) (*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.store {
		if t.Provider == provider && t.ExternalID == externalID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTransactionRepo) TransitionStatus(ctx context.Context, qx any, id string, target model.TransactionStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return false, nil
	}
	if t.Status != model.TransactionStatusCreated {
		return false, nil
	}
	t.Status = target
	t.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockTransactionRepo) ListRecent(ctx context.Context, qx any, limit int) ([]*model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.store {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockTransactionRepo) CountByStatus(ctx context.Context, qx any) (map[model.TransactionStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.TransactionStatus]int)
	for _, t := range m.store {
		out[t.Status]++
	}
	return out, nil
}

func (m *MockTransactionRepo) SumPaidSince(ctx context.Context, qx any, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, t := range m.store {
		if t.Status == model.TransactionStatusPaid && !t.UpdatedAt.Before(since) {
			sum += t.Amount
		}
	}
	return sum, nil
}

// Get returns the stored transaction by id for assertions.
func (m *MockTransactionRepo) Get(id string) *model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// All returns every stored transaction.
func (m *MockTransactionRepo) All() []*model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transaction
	for _, t := range m.store {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

// ---- plans ----

type MockPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.Plan
}

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, qx any, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, qx any, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) FindByName(ctx context.Context, qx any, name string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.store {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPlanRepo) ListAll(ctx context.Context, qx any) ([]*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Plan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ---- users ----

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.TelegramID == tgID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) UpdateSubscribedTo(ctx context.Context, qx any, id, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscribedTo = tag
	return nil
}

func (m *MockUserRepo) Get(id string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// ---- subscriptions ----

type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, qx any, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, qx any, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.UserID == userID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) ListExpired(ctx context.Context, qx any, asOf time.Time, limit int) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive && s.EndsAt.Before(asOf) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepo) UpdateStatus(ctx context.Context, qx any, id string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

// ---- gateway ----

type MockPaymentGateway struct {
	PrepareFunc func(ctx context.Context, req adapter.PrepareRequest) (*adapter.PreparedPayment, error)
	Requests    []adapter.PrepareRequest
}

func (g *MockPaymentGateway) Name() model.PaymentProvider { return model.ProviderOcto }

func (g *MockPaymentGateway) PreparePayment(ctx context.Context, req adapter.PrepareRequest) (*adapter.PreparedPayment, error) {
	g.Requests = append(g.Requests, req)
	if g.PrepareFunc != nil {
		return g.PrepareFunc(ctx, req)
	}
	return &adapter.PreparedPayment{PaymentID: "octo-uuid-1", PayURL: "https://pay.octo.uz/octo-uuid-1"}, nil
}

// ---- telegram ----

type sentMessage struct {
	TelegramID int64
	Text       string
	Rows       [][]adapter.InlineButton
}

type MockBotAdapter struct {
	mu          sync.Mutex
	InviteErr   error
	SendErr     error
	InviteCalls int
	Sent        []sentMessage
}

func (b *MockBotAdapter) CreateInviteLink(ctx context.Context, chatID int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.InviteCalls++
	if b.InviteErr != nil {
		return "", b.InviteErr
	}
	return "https://t.me/+invite", nil
}

func (b *MockBotAdapter) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SendErr != nil {
		return b.SendErr
	}
	b.Sent = append(b.Sent, sentMessage{TelegramID: telegramID, Text: text, Rows: rows})
	return nil
}

// ---- locker ----

type noopLocker struct{}

func (noopLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "token", nil
}

func (noopLocker) Unlock(ctx context.Context, key, token string) error { return nil }
