package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

type fakeSessions struct{}

func (fakeSessions) Execute(ctx context.Context, token string) (*domain.Session, error) {
	switch token {
	case "admin-token":
		return &domain.Session{UserID: "u1", Name: "Марина", Role: domain.RoleAdmin}, nil
	case "user-token":
		return &domain.Session{UserID: "u2", Role: "user"}, nil
	}
	return nil, domain.ErrTokenInvalid
}

type fakeHomepage struct{ properties []domain.Property }

func (f fakeHomepage) Execute(ctx context.Context) ([]domain.Property, error) {
	return f.properties, nil
}

type fakeDetails struct{}

func (fakeDetails) Execute(ctx context.Context, id string) (*domain.Property, error) {
	if id == "p1" {
		return &domain.Property{ID: "p1", Status: domain.StatusActive, InternalNotes: "owner in Madrid"}, nil
	}
	return nil, domain.ErrPropertyNotFound
}

type fakeNearby struct{ query *domain.NearbyQuery }

func (f fakeNearby) Execute(ctx context.Context, q domain.NearbyQuery) ([]domain.PropertyWithDistance, error) {
	*f.query = q
	return []domain.PropertyWithDistance{{Property: domain.Property{ID: "near"}, DistanceKm: 1.5}}, nil
}

type fakeSendChat struct{}

func (fakeSendChat) Execute(ctx context.Context, sessionID, message string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, nil, domain.ErrEmptyMessage
	}
	now := time.Now()
	return &domain.ChatMessage{ID: "q", SessionID: sessionID, Message: message, CreatedAt: now},
		&domain.ChatMessage{ID: "a", SessionID: sessionID, Message: "Нужен NIE", IsAI: true, CreatedAt: now}, nil
}

type fakeLogin struct{}

func (fakeLogin) Execute(ctx context.Context, email, password string) (*domain.AdminUser, string, error) {
	if password != "s3cret" {
		return nil, "", domain.ErrInvalidCredentials
	}
	return &domain.AdminUser{ID: "u1", Email: email, Role: domain.RoleAdmin}, "admin-token", nil
}

type fakeGetSettings struct{}

func (fakeGetSettings) Execute(ctx context.Context) (*domain.HomepageSettings, error) {
	s := domain.DefaultHomepageSettings()
	s.Version = 4
	return &s, nil
}

type fakeSaveSettings struct {
	expected *int64
	settings domain.HomepageSettings
}

func (f *fakeSaveSettings) Execute(ctx context.Context, session *domain.Session, settings domain.HomepageSettings, expectedVersion *int64) (*domain.HomepageSettings, error) {
	f.expected = expectedVersion
	f.settings = settings
	if expectedVersion != nil && *expectedVersion != 4 {
		return nil, domain.ErrSettingsConflict
	}
	settings.Version = 5
	settings.LastUpdatedBy = session.Identity()
	return &settings, nil
}

type fakeSaveStep struct{}

func (fakeSaveStep) Execute(ctx context.Context, draftID string, step domain.FormStep, payload json.RawMessage) (*domain.PropertyDraft, error) {
	if draftID != "d1" {
		return nil, domain.ErrDraftNotFound
	}
	draft := domain.NewPropertyDraft("d1", "Марина", time.Now())
	if strings.Contains(string(payload), `"value":0`) {
		return draft, &domain.ValidationError{Step: step, Fields: map[string]string{"price.value": "must be greater than zero"}}
	}
	draft.CurrentStep = step.Next()
	return draft, nil
}

type testEnv struct {
	router http.Handler
	nearby *domain.NearbyQuery
	save   *fakeSaveSettings
}

func newTestEnv() *testEnv {
	env := &testEnv{nearby: &domain.NearbyQuery{}, save: &fakeSaveSettings{}}
	public := NewPublicHandler(PublicUseCases{
		Homepage: fakeHomepage{properties: []domain.Property{{ID: "p1", InternalNotes: "secret"}, {ID: "p2"}}},
		Details:  fakeDetails{},
		Nearby:   fakeNearby{query: env.nearby},
		SendChat: fakeSendChat{},
		Login:    fakeLogin{},
	})
	admin := NewAdminHandler(AdminUseCases{
		GetSettings:   fakeGetSettings{},
		SaveSettings:  env.save,
		SaveDraftStep: fakeSaveStep{},
	})
	env.router = NewRouter(ServerConfig{Port: "0"}, public, admin, fakeSessions{}, nopLogger{})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

var asAdmin = map[string]string{"Authorization": "Bearer admin-token"}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHomepagePropertiesHidesInternalNotes(t *testing.T) {
	env := newTestEnv()
	rec := env.do(t, http.MethodGet, "/api/v1/homepage/properties", "", map[string]string{"X-Trace-ID": "trace-1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-1", rec.Header().Get("X-Trace-ID"))
	props := decode[[]PropertyResponse](t, rec)
	require.Len(t, props, 2)
	assert.Empty(t, props[0].InternalNotes)
	assert.NotNil(t, props[1].Images)
}

func TestPropertyDetailsAndNearbyRouting(t *testing.T) {
	env := newTestEnv()

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/properties/p1", "", nil).Code)
	rec := env.do(t, http.MethodGet, "/api/v1/properties/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.ErrPropertyNotFound.Error(), decode[ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodGet, "/api/v1/properties/nearby?lat=37.97&lng=-0.68&radius=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5.0, env.nearby.RadiusKm)
	assert.Equal(t, 37.97, env.nearby.Center.Lat)
	near := decode[[]PropertyResponse](t, rec)
	require.Len(t, near, 1)
	require.NotNil(t, near[0].DistanceKm)
	assert.Equal(t, 1.5, *near[0].DistanceKm)

	rec = env.do(t, http.MethodGet, "/api/v1/properties/nearby?lng=abc", "", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode[ErrorResponse](t, rec).Fields
	assert.Equal(t, "is required", fields["lat"])
	assert.Equal(t, "must be a number", fields["lng"])
}

func TestAdminRoutesRequireAdminSession(t *testing.T) {
	env := newTestEnv()

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/admin/homepage-settings", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/admin/homepage-settings", "", map[string]string{"Authorization": "admin-token"}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/admin/homepage-settings", "", map[string]string{"Authorization": "Bearer forged"}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/v1/admin/homepage-settings", "", map[string]string{"Authorization": "Bearer user-token"}).Code)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/homepage-settings", "", asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"v4"`, rec.Header().Get("ETag"))
	settings := decode[HomepageSettingsDTO](t, rec)
	assert.Equal(t, "manual", settings.DisplayMode)
	assert.Equal(t, 6, settings.NumberOfProperties)
}

func TestSaveHomepageSettings(t *testing.T) {
	body := `{"displayMode":"most_viewed","numberOfProperties":8,"popularityPeriod":"week","filters":{"types":["villa"],"onlyActive":true}}`

	t.Run("if-match version is forwarded", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do(t, http.MethodPut, "/api/v1/admin/homepage-settings", body, map[string]string{
			"Authorization": "Bearer admin-token",
			"If-Match":      `"v4"`,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotNil(t, env.save.expected)
		assert.Equal(t, int64(4), *env.save.expected)
		assert.Equal(t, `"v5"`, rec.Header().Get("ETag"))
		assert.Equal(t, domain.PeriodWeek, env.save.settings.PopularityPeriod)
		assert.Equal(t, []string{}, env.save.settings.ManuallySelectedIDs)
		assert.Equal(t, "Марина", decode[HomepageSettingsDTO](t, rec).LastUpdatedBy)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do(t, http.MethodPut, "/api/v1/admin/homepage-settings",
			strings.Replace(body, "{", `{"version":3,`, 1), asAdmin)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("no version means last write wins", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do(t, http.MethodPut, "/api/v1/admin/homepage-settings", body, asAdmin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, env.save.expected)
	})

	t.Run("invalid body", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do(t, http.MethodPut, "/api/v1/admin/homepage-settings",
			`{"displayMode":"carousel","numberOfProperties":0,"filters":{"types":[""]}}`, asAdmin)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		fields := decode[ErrorResponse](t, rec).Fields
		assert.Contains(t, fields, "displayMode")
		assert.Contains(t, fields, "numberOfProperties")
		assert.Contains(t, fields, "filters.types[0]")
	})

	t.Run("bad if-match", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do(t, http.MethodPut, "/api/v1/admin/homepage-settings", body, map[string]string{
			"Authorization": "Bearer admin-token",
			"If-Match":      `"abc"`,
		})
		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	})
}

func TestSaveDraftStep(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPut, "/api/v1/admin/drafts/d1/steps/basic-info", `{"price":{"value":250000}}`, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StepLocation, decode[DraftResponse](t, rec).CurrentStep)

	rec = env.do(t, http.MethodPut, "/api/v1/admin/drafts/d1/steps/basic-info", `{"price":{"value":0}}`, asAdmin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[DraftStepErrorResponse](t, rec)
	assert.Equal(t, "basic-info", resp.Step)
	assert.Contains(t, resp.Fields, "price.value")
	require.NotNil(t, resp.Draft)
	assert.Equal(t, "d1", resp.Draft.ID)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/v1/admin/drafts/d1/steps/pricing", `{}`, asAdmin).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/v1/admin/drafts/zzz/steps/seo", `{}`, asAdmin).Code)
}

func TestChatAndLogin(t *testing.T) {
	env := newTestEnv()
	session := uuid.NewString()

	rec := env.do(t, http.MethodPost, "/api/v1/chat/messages", `{"sessionId":"`+session+`","message":"Какие документы нужны?"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	chat := decode[SendChatMessageResponse](t, rec)
	assert.True(t, chat.AIMessage.IsAI)
	assert.Equal(t, session, chat.UserMessage.SessionID)

	rec = env.do(t, http.MethodPost, "/api/v1/chat/messages", `{"sessionId":"abc","message":"привет"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "must be a UUID", decode[ErrorResponse](t, rec).Fields["sessionId"])

	rec = env.do(t, http.MethodPost, "/api/v1/chat/messages", `{"sessionId":"`+session+`","message":"   "}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@spainestates.es","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-token", decode[LoginResponse](t, rec).Token)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"admin@spainestates.es","password":"nope"}`, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email","password":"x"}`, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, http.MethodPost, "/api/v1/auth/login", `{`, nil).Code)
}

func TestParseIfMatch(t *testing.T) {
	v, err := parseIfMatch(`W/"v12"`)
	require.NoError(t, err)
	assert.Equal(t, int64(12), *v)

	v, err = parseIfMatch("*")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = parseIfMatch(`"v-1"`)
	assert.Error(t, err)
	assert.Equal(t, `"v0"`, settingsETag(0))
}
