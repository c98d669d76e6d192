package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"showcase-service/internal/core/domain"
)

var errStorageDown = errors.New("storage is down")

type fakeProperties struct {
	mu       sync.Mutex
	items    []domain.Property
	listErr  error
	replaced []domain.Property
	created  []domain.Property
	prefixes []string
}

func (f *fakeProperties) ListHomepageCandidates(ctx context.Context) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Property(nil), f.items...), nil
}

func (f *fakeProperties) Find(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Property
	for _, p := range f.items {
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeProperties) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrPropertyNotFound
}

func (f *fakeProperties) FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = prefixes
	return append([]domain.Property(nil), f.items...), nil
}

func (f *fakeProperties) Create(ctx context.Context, property domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, property)
	f.items = append(f.items, property)
	return nil
}

func (f *fakeProperties) Replace(ctx context.Context, property domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == property.ID {
			f.items[i] = property
			f.replaced = append(f.replaced, property)
			return nil
		}
	}
	return domain.ErrPropertyNotFound
}

func (f *fakeProperties) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items[i].Status = status
			f.items[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrPropertyNotFound
}

type fakeSettingsStore struct {
	current *domain.HomepageSettings
	saveErr error
	saves   int
}

func (f *fakeSettingsStore) Get(ctx context.Context) (*domain.HomepageSettings, error) {
	if f.current == nil {
		return nil, nil
	}
	cp := *f.current
	return &cp, nil
}

func (f *fakeSettingsStore) Save(ctx context.Context, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	var version int64
	if f.current != nil {
		version = f.current.Version
	}
	if expectedVersion != nil && *expectedVersion != version {
		return nil, domain.ErrSettingsConflict
	}
	settings.Version = version + 1
	f.current = &settings
	f.saves++
	cp := settings
	return &cp, nil
}

type fakeCache struct {
	version     int64
	items       []domain.Property
	stored      bool
	gets        int
	sets        int
	invalidated int
	getErr      error
}

func (f *fakeCache) Get(ctx context.Context, settingsVersion int64) ([]domain.Property, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	if !f.stored || f.version != settingsVersion {
		return nil, false, nil
	}
	return f.items, true, nil
}

func (f *fakeCache) Set(ctx context.Context, settingsVersion int64, properties []domain.Property) error {
	f.sets++
	f.version = settingsVersion
	f.items = properties
	f.stored = true
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.invalidated++
	f.stored = false
	return nil
}

type fakePublisher struct {
	events []domain.HomepageSettingsUpdated
	err    error
}

func (f *fakePublisher) PublishSettingsUpdated(ctx context.Context, event domain.HomepageSettingsUpdated) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeDrafts struct {
	items   map[string]*domain.PropertyDraft
	updates int
	deleted []string
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{items: map[string]*domain.PropertyDraft{}}
}

func (f *fakeDrafts) Create(ctx context.Context, draft *domain.PropertyDraft) error {
	cp := *draft
	f.items[draft.ID] = &cp
	return nil
}

func (f *fakeDrafts) Get(ctx context.Context, id string) (*domain.PropertyDraft, error) {
	d, ok := f.items[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	cp := *d
	cp.CompletedSteps = append([]domain.FormStep(nil), d.CompletedSteps...)
	return &cp, nil
}

func (f *fakeDrafts) Update(ctx context.Context, draft *domain.PropertyDraft) error {
	if _, ok := f.items[draft.ID]; !ok {
		return domain.ErrDraftNotFound
	}
	cp := *draft
	f.items[draft.ID] = &cp
	f.updates++
	return nil
}

func (f *fakeDrafts) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeStepValidator отклоняет payload, содержащий поле "__invalid"
type fakeStepValidator struct{}

func (fakeStepValidator) ValidateStep(step domain.FormStep, payload []byte) error {
	if strings.Contains(string(payload), "__invalid") {
		return &domain.ValidationError{Step: step, Fields: map[string]string{"__invalid": "additional properties are not allowed"}}
	}
	return nil
}

type fakeViewRecorder struct {
	views []domain.PropertyView
	err   error
}

func (f *fakeViewRecorder) RecordView(ctx context.Context, view domain.PropertyView) error {
	f.views = append(f.views, view)
	return f.err
}

type fakeChats struct {
	messages []domain.ChatMessage
}

func (f *fakeChats) Save(ctx context.Context, msg *domain.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChats) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeAssistant struct {
	historyLen int
	reply      string
	err        error
}

func (f *fakeAssistant) Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	f.historyLen = len(history)
	return f.reply, f.err
}

type fakeUsers struct {
	users map[string]*domain.AdminUser
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return f.users[email], nil
}

func (f *fakeUsers) EnsureUser(ctx context.Context, user *domain.AdminUser) (bool, error) {
	if _, ok := f.users[user.Email]; ok {
		return false, nil
	}
	f.users[user.Email] = user
	return true, nil
}

type fakeTokens struct {
	issued string
}

func (f *fakeTokens) GenerateToken(ctx context.Context, user *domain.AdminUser, ttl time.Duration) (string, error) {
	f.issued = "token-for-" + user.ID
	return f.issued, nil
}

func (f *fakeTokens) ValidateToken(ctx context.Context, token string) (*domain.Session, error) {
	if token != f.issued {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Session{UserID: strings.TrimPrefix(token, "token-for-"), Role: domain.RoleAdmin}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var adminSession = &domain.Session{UserID: "u1", Email: "admin@spainestates.es", Name: "Марина", Role: domain.RoleAdmin}
