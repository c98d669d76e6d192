package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHomepageSettings(t *testing.T) {
	s := DefaultHomepageSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, DisplayManual, s.DisplayMode)
	assert.Equal(t, 6, s.NumberOfProperties)
	assert.Equal(t, PeriodMonth, s.PopularityPeriod)
	assert.True(t, s.Filters.OnlyActive)
	assert.Equal(t, []string{TypeApartment, TypeHouse, TypeVilla}, s.Filters.Types)
}

func TestHomepageSettingsValidate(t *testing.T) {
	s := HomepageSettings{
		DisplayMode:         "carousel",
		NumberOfProperties:  0,
		ManuallySelectedIDs: []string{"1", "1"},
	}
	vErr, ok := AsValidationError(s.Validate())
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "displayMode")
	assert.Contains(t, vErr.Fields, "numberOfProperties")
	assert.Contains(t, vErr.Fields, "manuallySelectedIds")

	s = HomepageSettings{DisplayMode: DisplayMostViewed, NumberOfProperties: 3, PopularityPeriod: "year"}
	vErr, ok = AsValidationError(s.Validate())
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "popularityPeriod")

	// выбранных может быть больше лимита
	s = HomepageSettings{DisplayMode: DisplayManual, NumberOfProperties: 1, ManuallySelectedIDs: []string{"a", "b", "c"}}
	assert.NoError(t, s.Validate())
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	e := &ValidationError{Step: StepBasicInfo}
	e.Add("title", "is required")
	e.Add("price.value", "must be greater than zero")
	e.Add("title", "ignored duplicate")
	assert.Equal(t, "validation failed for step basic-info: price.value: must be greater than zero; title: is required", e.Error())
	assert.Nil(t, (&ValidationError{}).OrNil())
}

func TestInferCityRegion(t *testing.T) {
	cases := map[string]string{
		"TORREVIEJA, Alicante":       "torrevieja",
		"ул. Торревьеха 5":           "torrevieja",
		"т0ррeвьeха, playa del cura": "torrevieja",
		"toppeв, calle mayor":        "torrevieja",
		"Avenida de Alicante 4":      "alicante",
		"Málaga centro":              "malaga",
	}
	for addr, city := range cases {
		got, _, ok := InferCityRegion(addr)
		assert.True(t, ok, addr)
		assert.Equal(t, city, got, addr)
	}

	_, _, ok := InferCityRegion("Gran Via 1, Madrid")
	assert.False(t, ok)
}
