package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"showcase-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draftFixture struct {
	drafts     *fakeDrafts
	properties *fakeProperties
	cache      *fakeCache
	save       *SaveDraftStepUseCase
	publish    *PublishDraftUseCase
	create     *CreateDraftUseCase
	edit       *StartEditSessionUseCase
}

func newDraftFixture() *draftFixture {
	f := &draftFixture{
		drafts:     newFakeDrafts(),
		properties: &fakeProperties{},
		cache:      &fakeCache{stored: true},
	}
	f.save = NewSaveDraftStepUseCase(f.drafts, fakeStepValidator{})
	f.publish = NewPublishDraftUseCase(f.drafts, f.properties, f.cache)
	f.create = NewCreateDraftUseCase(f.drafts)
	f.edit = NewStartEditSessionUseCase(f.properties, f.drafts)
	return f
}

func (f *draftFixture) step(t *testing.T, id string, step domain.FormStep, payload string) (*domain.PropertyDraft, error) {
	t.Helper()
	return f.save.Execute(context.Background(), id, step, json.RawMessage(payload))
}

func fillAllSteps(t *testing.T, f *draftFixture, id string) {
	t.Helper()
	steps := []struct {
		step    domain.FormStep
		payload string
	}{
		{domain.StepBasicInfo, `{"title":{"ru":"Вилла с бассейном","es":"","en":""},"type":"villa","price":{"value":540000,"currency":"EUR"},"status":"active"}`},
		{domain.StepLocation, `{"address":"Calle Azahar 3, Torrevieja","coordinates":{"lat":37.97,"lng":-0.68}}`},
		{domain.StepFeatures, `{"bedrooms":4,"bathrooms":3,"totalArea":210,"hasPool":true,"customFeatures":[]}`},
		{domain.StepImages, `{"images":[{"id":"i1","url":"https://cdn.example.com/1.jpg","thumbnailUrl":"https://cdn.example.com/1s.jpg"}]}`},
		{domain.StepHomepageDisplay, `{"showOnHomepage":true,"homepagePriority":8}`},
		{domain.StepSEO, `{"title":{"es":"Villa","en":"Villa","ru":"Вилла"},"description":{"es":"","en":"","ru":""},"keywords":{"es":"","en":"","ru":""}}`},
	}
	for _, s := range steps {
		_, err := f.step(t, id, s.step, s.payload)
		require.NoError(t, err, "step %s", s.step)
	}
}

func TestSaveDraftStep_AdvancesOnlyWhenValid(t *testing.T) {
	f := newDraftFixture()
	draft, err := f.create.Execute(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, "Марина", draft.CreatedBy)

	got, err := f.step(t, draft.ID, domain.StepBasicInfo, `{"title":{"ru":"","es":"","en":""},"type":"house","price":{"value":0}}`)
	vErr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.StepBasicInfo, vErr.Step)
	require.NotNil(t, got)
	assert.Equal(t, domain.StepBasicInfo, got.CurrentStep)

	// введенное сохранено, повторно вводить не нужно
	stored, err := f.drafts.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeHouse, stored.BasicInfo.Type)
	assert.False(t, stored.IsCompleted(domain.StepBasicInfo))

	got, err = f.step(t, draft.ID, domain.StepBasicInfo, `{"title":{"ru":"Дом","es":"","en":""},"type":"house","price":{"value":250000}}`)
	require.NoError(t, err)
	assert.Equal(t, domain.StepLocation, got.CurrentStep)
	assert.True(t, got.IsCompleted(domain.StepBasicInfo))
}

func TestSaveDraftStep_SchemaErrorsBlockCompletion(t *testing.T) {
	f := newDraftFixture()
	draft, err := f.create.Execute(context.Background(), adminSession)
	require.NoError(t, err)

	got, err := f.step(t, draft.ID, domain.StepHomepageDisplay, `{"showOnHomepage":true,"homepagePriority":1,"__invalid":1}`)
	vErr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "__invalid")
	assert.False(t, got.IsCompleted(domain.StepHomepageDisplay))
	assert.Equal(t, 1, f.drafts.items[draft.ID].HomepageDisplay.HomepagePriority)
}

func TestSaveDraftStep_MalformedPayload(t *testing.T) {
	f := newDraftFixture()
	draft, err := f.create.Execute(context.Background(), adminSession)
	require.NoError(t, err)

	_, err = f.step(t, draft.ID, domain.StepFeatures, `{"bedrooms":"two"}`)
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, f.drafts.updates)
}

func TestSaveDraftStep_UnknownDraft(t *testing.T) {
	f := newDraftFixture()
	_, err := f.step(t, "missing", domain.StepSEO, `{}`)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestPublishDraft_CreatesProperty(t *testing.T) {
	f := newDraftFixture()
	draft, err := f.create.Execute(context.Background(), adminSession)
	require.NoError(t, err)
	fillAllSteps(t, f, draft.ID)

	p, err := f.publish.Execute(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "torrevieja", p.Location.City)
	assert.Equal(t, "costa-blanca", p.Location.Region)
	assert.True(t, p.Images[0].IsMain)
	require.Len(t, f.properties.created, 1)
	assert.Equal(t, []string{draft.ID}, f.drafts.deleted)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestPublishDraft_IncompleteDraftIsRejected(t *testing.T) {
	f := newDraftFixture()
	draft, err := f.create.Execute(context.Background(), adminSession)
	require.NoError(t, err)

	_, err = f.publish.Execute(context.Background(), draft.ID)
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, f.drafts.items, draft.ID)
}

func TestEditSession_ReplacesAndKeepsViews(t *testing.T) {
	f := newDraftFixture()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.properties.items = []domain.Property{{
		ID:         "p1",
		Title:      domain.LocalizedText{Ru: "Старое название"},
		Type:       domain.TypeApartment,
		Price:      domain.Price{Value: 100000, Currency: domain.CurrencyEUR},
		Status:     domain.StatusActive,
		Location:   domain.Location{Address: "Alicante"},
		Features:   domain.Features{TotalArea: 50, CustomFeatures: []string{}},
		ViewsStats: domain.ViewsStats{TotalViews: 321},
		CreatedAt:  created,
	}}

	draft, err := f.edit.Execute(context.Background(), adminSession, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", draft.SourcePropertyID)

	_, err = f.step(t, draft.ID, domain.StepBasicInfo, `{"title":{"ru":"Новое название","es":"","en":""},"type":"apartment","price":{"value":95000},"status":"reserved"}`)
	require.NoError(t, err)

	p, err := f.publish.Execute(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Новое название", p.Title.Ru)
	assert.Equal(t, domain.StatusReserved, p.Status)
	assert.Equal(t, int64(321), p.ViewsStats.TotalViews)
	assert.Equal(t, created, p.CreatedAt)
	require.Len(t, f.properties.replaced, 1)
}

func TestEditSession_MissingPropertyDiscardsDraft(t *testing.T) {
	f := newDraftFixture()

	_, err := f.edit.Execute(context.Background(), adminSession, "ghost")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	// объект удалили во время редактирования
	f.properties.items = []domain.Property{{ID: "p2", Status: domain.StatusActive}}
	draft, err := f.edit.Execute(context.Background(), adminSession, "p2")
	require.NoError(t, err)
	fillAllSteps(t, f, draft.ID)
	f.properties.items = nil

	_, err = f.publish.Execute(context.Background(), draft.ID)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	assert.NotContains(t, f.drafts.items, draft.ID)
}
