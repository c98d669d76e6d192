package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validBasicInfo() BasicInfo {
	return BasicInfo{
		Title:  LocalizedText{Ru: "Квартира у моря"},
		Type:   TypeApartment,
		Price:  Price{Value: 185000},
		Status: StatusActive,
	}
}

func TestParseFormStep(t *testing.T) {
	step, err := ParseFormStep("homepage-settings")
	require.NoError(t, err)
	assert.Equal(t, StepHomepageDisplay, step)

	_, err = ParseFormStep("pricing")
	assert.True(t, errors.Is(err, ErrUnknownStep))
}

func TestFormStep_Next(t *testing.T) {
	assert.Equal(t, StepLocation, StepBasicInfo.Next())
	assert.Equal(t, StepSEO, StepHomepageDisplay.Next())
	assert.Equal(t, StepSEO, StepSEO.Next())
}

func TestSetBasicInfo_ValidationKeepsData(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)

	err := d.SetBasicInfo(BasicInfo{Type: TypeVilla, Price: Price{Value: 0}})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, StepBasicInfo, vErr.Step)
	assert.Contains(t, vErr.Fields, "title")
	assert.Contains(t, vErr.Fields, "price.value")

	// введенное не теряется
	assert.Equal(t, TypeVilla, d.BasicInfo.Type)
	assert.Equal(t, CurrencyEUR, d.BasicInfo.Price.Currency)
	assert.Equal(t, StatusDraft, d.BasicInfo.Status)
	assert.False(t, d.IsCompleted(StepBasicInfo))

	require.NoError(t, d.SetBasicInfo(validBasicInfo()))
	assert.True(t, d.IsCompleted(StepBasicInfo))

	// повторная ошибка снимает отметку
	require.Error(t, d.SetBasicInfo(BasicInfo{}))
	assert.False(t, d.IsCompleted(StepBasicInfo))
}

func TestSetLocation_InfersCityAndRegion(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)

	require.NoError(t, d.SetLocation(Location{Address: "Calle Ramón Gallud 12, Torrevieja"}))
	assert.Equal(t, "torrevieja", d.Location.City)
	assert.Equal(t, "costa-blanca", d.Location.Region)

	require.NoError(t, d.SetLocation(Location{Address: "Аликанте, ул. Рамбла 3", City: "Alicante centro"}))
	assert.Equal(t, "Alicante centro", d.Location.City)
	assert.Equal(t, "costa-blanca", d.Location.Region)

	err := d.SetLocation(Location{Address: "  "})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "address")
}

func TestSetLocation_UnknownTownStillValid(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)
	require.NoError(t, d.SetLocation(Location{Address: "Rua Augusta 1, Lisboa"}))
	assert.Empty(t, d.Location.City)
	assert.True(t, d.IsCompleted(StepLocation))
}

func TestSetImages_NormalizesMainAndOrder(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)
	in := []Image{
		{ID: "a", URL: "https://cdn.example.com/a.jpg", Order: 7},
		{ID: "b", URL: "https://cdn.example.com/b.jpg", IsMain: true},
		{ID: "c", URL: "https://cdn.example.com/c.jpg", IsMain: true},
	}
	require.NoError(t, d.SetImages(Media{Images: in}))

	require.Len(t, d.Media.Images, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{d.Media.Images[0].Order, d.Media.Images[1].Order, d.Media.Images[2].Order})
	assert.False(t, d.Media.Images[0].IsMain)
	assert.True(t, d.Media.Images[1].IsMain)
	assert.False(t, d.Media.Images[2].IsMain)
	// вход не изменился
	assert.Equal(t, 7, in[0].Order)

	require.NoError(t, d.SetImages(Media{Images: []Image{{ID: "x", URL: "https://cdn.example.com/x.jpg"}}}))
	assert.True(t, d.Media.Images[0].IsMain)

	err := d.SetImages(Media{VirtualTourURL: "not a url"})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "virtualTourUrl")
}

func TestSetFeatures_Rules(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)
	floor, total := 5, 3
	built, renovated := 2010, 2000

	err := d.SetFeatures(Features{Bedrooms: -1, Floor: &floor, TotalFloors: &total, YearBuilt: &built, YearRenovated: &renovated})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "bedrooms")
	assert.Contains(t, vErr.Fields, "totalArea")
	assert.Contains(t, vErr.Fields, "floor")
	assert.Contains(t, vErr.Fields, "yearRenovated")
	assert.NotNil(t, d.Features.CustomFeatures)
}

func TestDraftToPropertyRoundTrip(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)
	require.NoError(t, d.SetBasicInfo(validBasicInfo()))
	require.NoError(t, d.SetLocation(Location{Address: "Torrevieja", Coordinates: Coordinates{Lat: 37.98, Lng: -0.68}}))
	require.NoError(t, d.SetFeatures(Features{Bedrooms: 2, Bathrooms: 1, TotalArea: 75}))
	require.NoError(t, d.SetHomepageDisplay(HomepageDisplay{ShowOnHomepage: true, HomepagePriority: 4}))
	require.NoError(t, d.SetSEO(SEOInfo{InternalNotes: "ключи у консьержа"}))
	require.NoError(t, d.Validate())

	p := d.ToProperty("p1", now)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, "torrevieja", p.Location.City)
	assert.Equal(t, 4, p.HomepageDisplay.HomepagePriority)
	assert.Equal(t, "ключи у консьержа", p.InternalNotes)

	edit := NewDraftFromProperty("d2", "admin", p, now)
	assert.Equal(t, "p1", edit.SourcePropertyID)
	for _, step := range FormSteps {
		assert.True(t, edit.IsCompleted(step), "step %s", step)
	}
	assert.Equal(t, p.Title, edit.BasicInfo.Title)
}

func TestDraftValidate_ReportsFirstFailingStep(t *testing.T) {
	d := NewPropertyDraft("d1", "admin", now)
	require.NoError(t, d.SetBasicInfo(validBasicInfo()))

	vErr, ok := AsValidationError(d.Validate())
	require.True(t, ok)
	assert.Equal(t, StepLocation, vErr.Step)
}
