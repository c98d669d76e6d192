package rest

import (
	"showcase-service/internal/core/domain"
	"time"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Step   string            `json:"step,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// PropertyResponse - объект недвижимости для сайта и админки
type PropertyResponse struct {
	ID              string                 `json:"id"`
	Title           domain.LocalizedText   `json:"title"`
	Description     domain.LocalizedText   `json:"description"`
	Type            string                 `json:"type"`
	Location        domain.Location        `json:"location"`
	Price           domain.Price           `json:"price"`
	Status          string                 `json:"status"`
	Features        domain.Features        `json:"features"`
	Images          []domain.Image         `json:"images"`
	VirtualTourURL  string                 `json:"virtualTourUrl,omitempty"`
	HomepageDisplay domain.HomepageDisplay `json:"homepageDisplay"`
	ViewsStats      domain.ViewsStats      `json:"viewsStats"`
	SEO             domain.SEO             `json:"seo"`
	InternalNotes   string                 `json:"internalNotes,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	DistanceKm      *float64               `json:"distanceKm,omitempty"`
}

// toPropertyResponse - withNotes только для админки
func toPropertyResponse(p domain.Property, withNotes bool) PropertyResponse {
	resp := PropertyResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Type:            p.Type,
		Location:        p.Location,
		Price:           p.Price,
		Status:          string(p.Status),
		Features:        p.Features,
		Images:          p.Images,
		VirtualTourURL:  p.VirtualTourURL,
		HomepageDisplay: p.HomepageDisplay,
		ViewsStats:      p.ViewsStats,
		SEO:             p.SEO,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []domain.Image{}
	}
	if resp.Features.CustomFeatures == nil {
		resp.Features.CustomFeatures = []string{}
	}
	if withNotes {
		resp.InternalNotes = p.InternalNotes
	}
	return resp
}

func toPropertyResponses(properties []domain.Property, withNotes bool) []PropertyResponse {
	out := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = toPropertyResponse(p, withNotes)
	}
	return out
}

type PaginatedPropertiesResponse struct {
	Data   []PropertyResponse `json:"data"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
}

// HomepageSettingsDTO - настройки витрины в формате админки
type HomepageSettingsDTO struct {
	DisplayMode         string             `json:"displayMode" validate:"required,oneof=manual most_viewed random"`
	NumberOfProperties  int                `json:"numberOfProperties" validate:"required,min=1,max=50"`
	ManuallySelectedIDs []string           `json:"manuallySelectedIds" validate:"omitempty,dive,required"`
	PopularityPeriod    string             `json:"popularityPeriod" validate:"omitempty,oneof=week month all_time"`
	Filters             HomepageFiltersDTO `json:"filters"`
	LastUpdated         *time.Time         `json:"lastUpdated,omitempty"`
	LastUpdatedBy       string             `json:"lastUpdatedBy,omitempty"`
	// Version - альтернатива If-Match для клиентов без доступа к заголовкам
	Version *int64 `json:"version,omitempty" validate:"omitempty,min=0"`
}

type HomepageFiltersDTO struct {
	Types      []string `json:"types" validate:"omitempty,dive,required"`
	OnlyActive bool     `json:"onlyActive"`
}

func (d HomepageSettingsDTO) toDomain() domain.HomepageSettings {
	ids := d.ManuallySelectedIDs
	if ids == nil {
		ids = []string{}
	}
	types := d.Filters.Types
	if types == nil {
		types = []string{}
	}
	period := domain.PopularityPeriod(d.PopularityPeriod)
	if period == "" {
		period = domain.PeriodMonth
	}
	return domain.HomepageSettings{
		DisplayMode:         domain.DisplayMode(d.DisplayMode),
		NumberOfProperties:  d.NumberOfProperties,
		ManuallySelectedIDs: ids,
		PopularityPeriod:    period,
		Filters:             domain.HomepageFilters{Types: types, OnlyActive: d.Filters.OnlyActive},
	}
}

func toHomepageSettingsDTO(s domain.HomepageSettings) HomepageSettingsDTO {
	version := s.Version
	dto := HomepageSettingsDTO{
		DisplayMode:         string(s.DisplayMode),
		NumberOfProperties:  s.NumberOfProperties,
		ManuallySelectedIDs: s.ManuallySelectedIDs,
		PopularityPeriod:    string(s.PopularityPeriod),
		Filters:             HomepageFiltersDTO{Types: s.Filters.Types, OnlyActive: s.Filters.OnlyActive},
		LastUpdatedBy:       s.LastUpdatedBy,
		Version:             &version,
	}
	if dto.ManuallySelectedIDs == nil {
		dto.ManuallySelectedIDs = []string{}
	}
	if dto.Filters.Types == nil {
		dto.Filters.Types = []string{}
	}
	if !s.LastUpdated.IsZero() {
		t := s.LastUpdated
		dto.LastUpdated = &t
	}
	return dto
}

// DraftResponse - состояние мастера создания/редактирования объекта
type DraftResponse struct {
	ID               string                 `json:"id"`
	SourcePropertyID string                 `json:"sourcePropertyId,omitempty"`
	BasicInfo        domain.BasicInfo       `json:"basicInfo"`
	Location         domain.Location        `json:"location"`
	Features         domain.Features        `json:"features"`
	Media            domain.Media           `json:"media"`
	HomepageDisplay  domain.HomepageDisplay `json:"homepageDisplay"`
	SEO              domain.SEOInfo         `json:"seo"`
	CompletedSteps   []domain.FormStep      `json:"completedSteps"`
	CurrentStep      domain.FormStep        `json:"currentStep"`
	CreatedBy        string                 `json:"createdBy"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func toDraftResponse(d *domain.PropertyDraft) DraftResponse {
	resp := DraftResponse{
		ID:               d.ID,
		SourcePropertyID: d.SourcePropertyID,
		BasicInfo:        d.BasicInfo,
		Location:         d.Location,
		Features:         d.Features,
		Media:            d.Media,
		HomepageDisplay:  d.HomepageDisplay,
		SEO:              d.SEO,
		CompletedSteps:   d.CompletedSteps,
		CurrentStep:      d.CurrentStep,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if resp.CompletedSteps == nil {
		resp.CompletedSteps = []domain.FormStep{}
	}
	return resp
}

// DraftStepErrorResponse - 422 при сохранении шага: ошибки полей и сохраненный черновик
type DraftStepErrorResponse struct {
	ErrorResponse
	Draft *DraftResponse `json:"draft,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active sold reserved draft"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  AdminUserResponse `json:"user"`
}

type SendChatMessageRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Message   string    `json:"message"`
	IsAI      bool      `json:"isAi"`
	CreatedAt time.Time `json:"createdAt"`
}

func toChatMessageResponse(m domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Message:   m.Message,
		IsAI:      m.IsAI,
		CreatedAt: m.CreatedAt,
	}
}

type SendChatMessageResponse struct {
	UserMessage ChatMessageResponse `json:"userMessage"`
	AIMessage   ChatMessageResponse `json:"aiMessage"`
}

type GeocodeResultResponse struct {
	DisplayName string             `json:"displayName"`
	Coordinates domain.Coordinates `json:"coordinates"`
	Location    domain.Location    `json:"location"`
}

func toGeocodeResultResponse(r domain.GeocodeResult) GeocodeResultResponse {
	return GeocodeResultResponse{
		DisplayName: r.DisplayName,
		Coordinates: r.Coordinates,
		Location:    r.ToLocation(),
	}
}

type DashboardStatsResponse struct {
	TotalProperties    int            `json:"totalProperties"`
	PropertiesByStatus map[string]int `json:"propertiesByStatus"`
	NewListings        int            `json:"newListings"`
	TotalViews         int64          `json:"totalViews"`
	Inquiries          int            `json:"inquiries"`
	ChatSessions       int            `json:"chatSessions"`
}

func toDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	byStatus := make(map[string]int, len(s.PropertiesByStatus))
	for status, n := range s.PropertiesByStatus {
		byStatus[string(status)] = n
	}
	return DashboardStatsResponse{
		TotalProperties:    s.TotalProperties,
		PropertiesByStatus: byStatus,
		NewListings:        s.NewListings,
		TotalViews:         s.TotalViews,
		Inquiries:          s.Inquiries,
		ChatSessions:       s.ChatSessions,
	}
}
