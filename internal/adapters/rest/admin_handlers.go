package rest

import (
	"encoding/json"
	"net/http"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"showcase-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// AdminUseCases - use case'ы админки
type AdminUseCases struct {
	Dashboard       usecases_port.GetDashboardStatsUseCasePort
	GetSettings     usecases_port.GetHomepageSettingsUseCasePort
	SaveSettings    usecases_port.SaveHomepageSettingsUseCasePort
	PreviewHomepage usecases_port.PreviewHomepageUseCasePort
	CreateDraft     usecases_port.CreateDraftUseCasePort
	GetDraft        usecases_port.GetDraftUseCasePort
	SaveDraftStep   usecases_port.SaveDraftStepUseCasePort
	PublishDraft    usecases_port.PublishDraftUseCasePort
	StartEdit       usecases_port.StartEditSessionUseCasePort
	UpdateStatus    usecases_port.UpdatePropertyStatusUseCasePort
	Geocode         usecases_port.GeocodeAddressUseCasePort
	ReverseGeocode  usecases_port.ReverseGeocodeUseCasePort
}

type AdminHandler struct {
	uc AdminUseCases
}

func NewAdminHandler(uc AdminUseCases) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// GetDashboard обрабатывает GET /api/v1/admin/dashboard
func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetDashboard"})

	stats, err := h.uc.Dashboard.Execute(r.Context())
	if err != nil {
		respondWithError(w, logger, err, "Failed to load dashboard stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDashboardStatsResponse(stats))
}

// GetHomepageSettings обрабатывает GET /api/v1/admin/homepage-settings
func (h *AdminHandler) GetHomepageSettings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetHomepageSettings"})

	settings, err := h.uc.GetSettings.Execute(r.Context())
	if err != nil {
		respondWithError(w, logger, err, "Failed to load homepage settings")
		return
	}
	w.Header().Set("ETag", settingsETag(settings.Version))
	RespondWithJSON(w, http.StatusOK, toHomepageSettingsDTO(*settings))
}

// SaveHomepageSettings обрабатывает PUT /api/v1/admin/homepage-settings.
// Ожидаемая версия берется из If-Match, иначе из поля version; без них - последняя запись побеждает.
func (h *AdminHandler) SaveHomepageSettings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SaveHomepageSettings"})

	session, ok := contextkeys.SessionFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	expectedVersion, err := parseIfMatch(r.Header.Get("If-Match"))
	if err != nil {
		WriteJSONError(w, http.StatusPreconditionFailed, err.Error())
		return
	}

	var req HomepageSettingsDTO
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}
	if expectedVersion == nil {
		expectedVersion = req.Version
	}

	saved, err := h.uc.SaveSettings.Execute(r.Context(), session, req.toDomain(), expectedVersion)
	if err != nil {
		respondWithError(w, logger, err, "Failed to save homepage settings")
		return
	}
	w.Header().Set("ETag", settingsETag(saved.Version))
	RespondWithJSON(w, http.StatusOK, toHomepageSettingsDTO(*saved))
}

// PreviewHomepage обрабатывает POST /api/v1/admin/homepage-settings/preview
func (h *AdminHandler) PreviewHomepage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PreviewHomepage"})

	var req HomepageSettingsDTO
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}

	properties, err := h.uc.PreviewHomepage.Execute(r.Context(), req.toDomain())
	if err != nil {
		respondWithError(w, logger, err, "Failed to build homepage preview")
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyResponses(properties, true))
}

// CreateDraft обрабатывает POST /api/v1/admin/drafts
func (h *AdminHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateDraft"})
	session, _ := contextkeys.SessionFromContext(r.Context())

	draft, err := h.uc.CreateDraft.Execute(r.Context(), session)
	if err != nil {
		respondWithError(w, logger, err, "Failed to create draft")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toDraftResponse(draft))
}

// GetDraft обрабатывает GET /api/v1/admin/drafts/{draftID}
func (h *AdminHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetDraft", "draft_id": draftID})

	draft, err := h.uc.GetDraft.Execute(r.Context(), draftID)
	if err != nil {
		respondWithError(w, logger, err, "Failed to load draft")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDraftResponse(draft))
}

// SaveDraftStep обрабатывает PUT /api/v1/admin/drafts/{draftID}/steps/{step}.
// При ошибках проверки отвечает 422, но введенные данные уже сохранены в черновике.
func (h *AdminHandler) SaveDraftStep(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":  "SaveDraftStep",
		"draft_id": draftID,
	})

	step, err := domain.ParseFormStep(chi.URLParam(r, "step"))
	if err != nil {
		respondWithError(w, logger, err, "")
		return
	}
	payload, err := readBody(r)
	if err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}

	draft, err := h.uc.SaveDraftStep.Execute(r.Context(), draftID, step, json.RawMessage(payload))
	if vErr, ok := domain.AsValidationError(err); ok {
		resp := DraftStepErrorResponse{
			ErrorResponse: ErrorResponse{Error: "validation failed", Step: string(vErr.Step), Fields: vErr.Fields},
		}
		if draft != nil {
			d := toDraftResponse(draft)
			resp.Draft = &d
		}
		RespondWithJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	if err != nil {
		respondWithError(w, logger, err, "Failed to save draft step, please retry")
		return
	}
	RespondWithJSON(w, http.StatusOK, toDraftResponse(draft))
}

// PublishDraft обрабатывает POST /api/v1/admin/drafts/{draftID}/publish
func (h *AdminHandler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PublishDraft", "draft_id": draftID})

	property, err := h.uc.PublishDraft.Execute(r.Context(), draftID)
	if err != nil {
		respondWithError(w, logger, err, "Failed to publish draft")
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyResponse(*property, true))
}

// StartEditSession обрабатывает POST /api/v1/admin/properties/{propertyID}/edit
func (h *AdminHandler) StartEditSession(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "StartEditSession", "property_id": propertyID})
	session, _ := contextkeys.SessionFromContext(r.Context())

	draft, err := h.uc.StartEdit.Execute(r.Context(), session, propertyID)
	if err != nil {
		respondWithError(w, logger, err, "Failed to open property for editing")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toDraftResponse(draft))
}

// UpdatePropertyStatus обрабатывает PUT /api/v1/admin/properties/{propertyID}/status
func (h *AdminHandler) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdatePropertyStatus", "property_id": propertyID})

	var req UpdateStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}

	if err := h.uc.UpdateStatus.Execute(r.Context(), propertyID, domain.PropertyStatus(req.Status)); err != nil {
		respondWithError(w, logger, err, "Failed to update property status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GeocodeSearch обрабатывает GET /api/v1/admin/geocode/search?q=
func (h *AdminHandler) GeocodeSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GeocodeSearch"})

	results, err := h.uc.Geocode.Execute(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithError(w, logger, err, "Address search is unavailable")
		return
	}

	out := make([]GeocodeResultResponse, len(results))
	for i, res := range results {
		out[i] = toGeocodeResultResponse(res)
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// ReverseGeocode обрабатывает GET /api/v1/admin/geocode/reverse?lat=&lng=
func (h *AdminHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ReverseGeocode"})
	query := r.URL.Query()

	vErr := &domain.ValidationError{}
	coords := domain.Coordinates{Lat: requireFloat(query, "lat", vErr), Lng: requireFloat(query, "lng", vErr)}
	if err := vErr.OrNil(); err != nil {
		respondWithError(w, logger, err, "")
		return
	}

	result, err := h.uc.ReverseGeocode.Execute(r.Context(), coords)
	if err != nil {
		respondWithError(w, logger, err, "Reverse geocoding is unavailable")
		return
	}
	RespondWithJSON(w, http.StatusOK, toGeocodeResultResponse(*result))
}
