package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FormStep - шаг мастера создания объекта
type FormStep string

const (
	StepBasicInfo       FormStep = "basic-info"
	StepLocation        FormStep = "location"
	StepFeatures        FormStep = "features"
	StepImages          FormStep = "images"
	StepHomepageDisplay FormStep = "homepage-settings"
	StepSEO             FormStep = "seo"
)

// FormSteps - шаги в порядке прохождения
var FormSteps = []FormStep{
	StepBasicInfo,
	StepLocation,
	StepFeatures,
	StepImages,
	StepHomepageDisplay,
	StepSEO,
}

// ParseFormStep разбирает идентификатор шага из URL
func ParseFormStep(s string) (FormStep, error) {
	for _, step := range FormSteps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// Next возвращает следующий шаг; для последнего - его же
func (s FormStep) Next() FormStep {
	for i, step := range FormSteps {
		if step == s && i+1 < len(FormSteps) {
			return FormSteps[i+1]
		}
	}
	return s
}

type BasicInfo struct {
	Title       LocalizedText  `json:"title"`
	Description LocalizedText  `json:"description"`
	Type        string         `json:"type"`
	Price       Price          `json:"price"`
	Status      PropertyStatus `json:"status"`
}

type Media struct {
	Images         []Image `json:"images"`
	VirtualTourURL string  `json:"virtualTourUrl,omitempty"`
}

type SEOInfo struct {
	Title         LocalizedText `json:"title"`
	Description   LocalizedText `json:"description"`
	Keywords      LocalizedText `json:"keywords"`
	InternalNotes string        `json:"internalNotes,omitempty"`
}

// PropertyDraft - черновик объекта, который администратор заполняет по шагам.
// Данные шага сохраняются даже если шаг не прошел проверку.
type PropertyDraft struct {
	ID string
	// SourcePropertyID заполнен, если черновик открыт для редактирования существующего объекта
	SourcePropertyID string

	BasicInfo       BasicInfo
	Location        Location
	Features        Features
	Media           Media
	HomepageDisplay HomepageDisplay
	SEO             SEOInfo

	CompletedSteps []FormStep
	CurrentStep    FormStep

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPropertyDraft создает пустой черновик со значениями формы по умолчанию
func NewPropertyDraft(id, createdBy string, now time.Time) *PropertyDraft {
	return &PropertyDraft{
		ID: id,
		BasicInfo: BasicInfo{
			Type:   TypeApartment,
			Price:  Price{Currency: CurrencyEUR},
			Status: StatusDraft,
		},
		Features:       Features{CustomFeatures: []string{}},
		Media:          Media{Images: []Image{}},
		CompletedSteps: []FormStep{},
		CurrentStep:    StepBasicInfo,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewDraftFromProperty открывает сессию редактирования существующего объекта
func NewDraftFromProperty(id, createdBy string, p Property, now time.Time) *PropertyDraft {
	d := NewPropertyDraft(id, createdBy, now)
	d.SourcePropertyID = p.ID
	d.BasicInfo = BasicInfo{
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		Price:       p.Price,
		Status:      p.Status,
	}
	d.Location = p.Location
	d.Features = p.Features
	d.Media = Media{Images: p.Images, VirtualTourURL: p.VirtualTourURL}
	d.HomepageDisplay = p.HomepageDisplay
	d.SEO = SEOInfo{
		Title:         p.SEO.Title,
		Description:   p.SEO.Description,
		Keywords:      p.SEO.Keywords,
		InternalNotes: p.InternalNotes,
	}
	if d.Features.CustomFeatures == nil {
		d.Features.CustomFeatures = []string{}
	}
	if d.Media.Images == nil {
		d.Media.Images = []Image{}
	}
	// сохраненный объект уже прошел все шаги
	d.CompletedSteps = append([]FormStep(nil), FormSteps...)
	return d
}

func (d *PropertyDraft) SetBasicInfo(info BasicInfo) error {
	info.Type = strings.TrimSpace(info.Type)
	if info.Price.Currency == "" {
		info.Price.Currency = CurrencyEUR
	}
	if info.Status == "" {
		info.Status = StatusDraft
	}
	d.BasicInfo = info
	return d.track(StepBasicInfo, validateBasicInfo(info))
}

// SetLocation сохраняет адрес; пустые город и регион выводятся из адреса
func (d *PropertyDraft) SetLocation(loc Location) error {
	loc.Address = strings.TrimSpace(loc.Address)
	if loc.Address != "" && (loc.City == "" || loc.Region == "") {
		if city, region, ok := InferCityRegion(loc.Address); ok {
			if loc.City == "" {
				loc.City = city
			}
			if loc.Region == "" {
				loc.Region = region
			}
		}
	}
	d.Location = loc
	return d.track(StepLocation, validateLocation(loc))
}

func (d *PropertyDraft) SetFeatures(f Features) error {
	if f.CustomFeatures == nil {
		f.CustomFeatures = []string{}
	}
	d.Features = f
	return d.track(StepFeatures, validateFeatures(f))
}

// SetImages нормализует порядок и главное изображение
func (d *PropertyDraft) SetImages(m Media) error {
	m.Images = append([]Image{}, m.Images...)
	hasMain := false
	for i := range m.Images {
		m.Images[i].Order = i
		if m.Images[i].IsMain {
			if hasMain {
				m.Images[i].IsMain = false
			}
			hasMain = true
		}
	}
	if !hasMain && len(m.Images) > 0 {
		m.Images[0].IsMain = true
	}
	d.Media = m
	return d.track(StepImages, validateMedia(m))
}

func (d *PropertyDraft) SetHomepageDisplay(h HomepageDisplay) error {
	d.HomepageDisplay = h
	vErr := &ValidationError{Step: StepHomepageDisplay}
	if h.HomepagePriority < 0 {
		vErr.Add("homepagePriority", "must not be negative")
	}
	return d.track(StepHomepageDisplay, vErr.OrNil())
}

func (d *PropertyDraft) SetSEO(s SEOInfo) error {
	d.SEO = s
	vErr := &ValidationError{Step: StepSEO}
	if len(s.Title.Es) > 70 || len(s.Title.En) > 70 || len(s.Title.Ru) > 140 {
		vErr.Add("title", "is too long for a search snippet")
	}
	return d.track(StepSEO, vErr.OrNil())
}

// MarkStepIncomplete снимает отметку о прохождении шага
func (d *PropertyDraft) MarkStepIncomplete(step FormStep) {
	_ = d.track(step, errStepIncomplete)
}

// IsCompleted сообщает, пройден ли шаг
func (d *PropertyDraft) IsCompleted(step FormStep) bool {
	for _, s := range d.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Validate проверяет все шаги, как перед публикацией
func (d *PropertyDraft) Validate() error {
	checks := []error{
		validateBasicInfo(d.BasicInfo),
		validateLocation(d.Location),
		validateFeatures(d.Features),
		validateMedia(d.Media),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if d.HomepageDisplay.HomepagePriority < 0 {
		return &ValidationError{Step: StepHomepageDisplay, Fields: map[string]string{"homepagePriority": "must not be negative"}}
	}
	return nil
}

// ToProperty собирает объект из черновика
func (d *PropertyDraft) ToProperty(id string, now time.Time) Property {
	p := Property{
		ID:              id,
		Title:           d.BasicInfo.Title,
		Description:     d.BasicInfo.Description,
		Type:            d.BasicInfo.Type,
		Location:        d.Location,
		Price:           d.BasicInfo.Price,
		Status:          d.BasicInfo.Status,
		Features:        d.Features,
		Images:          d.Media.Images,
		VirtualTourURL:  d.Media.VirtualTourURL,
		HomepageDisplay: d.HomepageDisplay,
		SEO: SEO{
			Title:       d.SEO.Title,
			Description: d.SEO.Description,
			Keywords:    d.SEO.Keywords,
		},
		InternalNotes: d.SEO.InternalNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return p
}

var errStepIncomplete = errors.New("step incomplete")

func (d *PropertyDraft) track(step FormStep, err error) error {
	filtered := d.CompletedSteps[:0]
	for _, s := range d.CompletedSteps {
		if s != step {
			filtered = append(filtered, s)
		}
	}
	d.CompletedSteps = filtered
	if err == nil {
		d.CompletedSteps = append(d.CompletedSteps, step)
	}
	return err
}

func validateBasicInfo(info BasicInfo) error {
	vErr := &ValidationError{Step: StepBasicInfo}
	if info.Title.IsEmpty() {
		vErr.Add("title", "is required")
	}
	if info.Type == "" {
		vErr.Add("type", "is required")
	}
	if info.Price.Value <= 0 {
		vErr.Add("price.value", "must be greater than zero")
	}
	if info.Price.Currency != CurrencyEUR {
		vErr.Add("price.currency", "only EUR is supported")
	}
	if !info.Status.IsValid() {
		vErr.Add("status", "must be one of active, sold, reserved, draft")
	}
	return vErr.OrNil()
}

func validateLocation(loc Location) error {
	vErr := &ValidationError{Step: StepLocation}
	if loc.Address == "" {
		vErr.Add("address", "is required")
	}
	if loc.Coordinates.Lat < -90 || loc.Coordinates.Lat > 90 {
		vErr.Add("coordinates.lat", "must be between -90 and 90")
	}
	if loc.Coordinates.Lng < -180 || loc.Coordinates.Lng > 180 {
		vErr.Add("coordinates.lng", "must be between -180 and 180")
	}
	return vErr.OrNil()
}

func validateFeatures(f Features) error {
	vErr := &ValidationError{Step: StepFeatures}
	if f.Bedrooms < 0 {
		vErr.Add("bedrooms", "must not be negative")
	}
	if f.Bathrooms < 0 {
		vErr.Add("bathrooms", "must not be negative")
	}
	if f.TotalArea <= 0 {
		vErr.Add("totalArea", "must be greater than zero")
	}
	if f.Floor != nil && f.TotalFloors != nil && *f.Floor > *f.TotalFloors {
		vErr.Add("floor", "must not exceed totalFloors")
	}
	if f.YearBuilt != nil && f.YearRenovated != nil && *f.YearRenovated < *f.YearBuilt {
		vErr.Add("yearRenovated", "must not be earlier than yearBuilt")
	}
	return vErr.OrNil()
}

func validateMedia(m Media) error {
	vErr := &ValidationError{Step: StepImages}
	for i, img := range m.Images {
		if img.URL == "" {
			vErr.Add(fmt.Sprintf("images[%d].url", i), "is required")
		}
	}
	if m.VirtualTourURL != "" {
		if u, err := url.Parse(m.VirtualTourURL); err != nil || u.Scheme == "" || u.Host == "" {
			vErr.Add("virtualTourUrl", "must be an absolute URL")
		}
	}
	return vErr.OrNil()
}
