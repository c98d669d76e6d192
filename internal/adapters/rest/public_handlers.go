package rest

import (
	"net/http"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"
	"showcase-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// PublicUseCases - use case'ы публичной части сайта
type PublicUseCases struct {
	Homepage       usecases_port.GetHomepagePropertiesUseCasePort
	FindProperties usecases_port.FindPropertiesUseCasePort
	Details        usecases_port.GetPropertyDetailsUseCasePort
	Nearby         usecases_port.FindNearbyPropertiesUseCasePort
	SendChat       usecases_port.SendChatMessageUseCasePort
	ChatHistory    usecases_port.GetChatHistoryUseCasePort
	Login          usecases_port.LoginAdminUseCasePort
}

type PublicHandler struct {
	uc PublicUseCases
}

func NewPublicHandler(uc PublicUseCases) *PublicHandler {
	return &PublicHandler{uc: uc}
}

// GetHomepageProperties обрабатывает GET /api/v1/homepage/properties
func (h *PublicHandler) GetHomepageProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetHomepageProperties"})

	properties, err := h.uc.Homepage.Execute(r.Context())
	if err != nil {
		respondWithError(w, logger, err, "Failed to load homepage properties")
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyResponses(properties, false))
}

// FindProperties обрабатывает GET /api/v1/properties
func (h *PublicHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindProperties"})
	query := r.URL.Query()

	filter := domain.PropertyFilter{
		Search:   parseString(query, "search"),
		Type:     parseString(query, "type"),
		Status:   domain.PropertyStatus(parseString(query, "status")),
		Region:   parseString(query, "region"),
		PriceMin: parseFloat(query, "priceMin"),
		PriceMax: parseFloat(query, "priceMax"),
		Limit:    parseInt(query, "limit"),
		Offset:   parseInt(query, "offset"),
	}

	properties, total, err := h.uc.FindProperties.Execute(r.Context(), filter)
	if err != nil {
		respondWithError(w, logger, err, "Failed to find properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, PaginatedPropertiesResponse{
		Data:   toPropertyResponses(properties, false),
		Total:  total,
		Offset: max(filter.Offset, 0),
	})
}

// GetPropertyDetails обрабатывает GET /api/v1/properties/{propertyID}
func (h *PublicHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPropertyDetails", "property_id": id})

	property, err := h.uc.Details.Execute(r.Context(), id)
	if err != nil {
		respondWithError(w, logger, err, "Failed to load property")
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyResponse(*property, false))
}

// FindNearby обрабатывает GET /api/v1/properties/nearby?lat=&lng=&radius=&limit=
func (h *PublicHandler) FindNearby(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindNearby"})
	query := r.URL.Query()

	vErr := &domain.ValidationError{}
	nearby := domain.NearbyQuery{
		Center: domain.Coordinates{
			Lat: requireFloat(query, "lat", vErr),
			Lng: requireFloat(query, "lng", vErr),
		},
		Limit: parseInt(query, "limit"),
	}
	if radius := parseFloat(query, "radius"); radius != nil {
		nearby.RadiusKm = *radius
	}
	if err := vErr.OrNil(); err != nil {
		respondWithError(w, logger, err, "")
		return
	}

	results, err := h.uc.Nearby.Execute(r.Context(), nearby)
	if err != nil {
		respondWithError(w, logger, err, "Failed to find nearby properties")
		return
	}

	out := make([]PropertyResponse, len(results))
	for i, res := range results {
		out[i] = toPropertyResponse(res.Property, false)
		distance := res.DistanceKm
		out[i].DistanceKm = &distance
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// SendChatMessage обрабатывает POST /api/v1/chat/messages
func (h *PublicHandler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SendChatMessage"})

	var req SendChatMessageRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}

	question, answer, err := h.uc.SendChat.Execute(r.Context(), req.SessionID, req.Message)
	if err != nil {
		respondWithError(w, logger, err, "Failed to get an answer, please try again")
		return
	}

	RespondWithJSON(w, http.StatusCreated, SendChatMessageResponse{
		UserMessage: toChatMessageResponse(*question),
		AIMessage:   toChatMessageResponse(*answer),
	})
}

// GetChatHistory обрабатывает GET /api/v1/chat/messages?session_id=
func (h *PublicHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetChatHistory"})

	messages, err := h.uc.ChatHistory.Execute(r.Context(), parseString(r.URL.Query(), "session_id"))
	if err != nil {
		respondWithError(w, logger, err, "Failed to load chat history")
		return
	}

	out := make([]ChatMessageResponse, len(messages))
	for i, m := range messages {
		out[i] = toChatMessageResponse(m)
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// Login обрабатывает POST /api/v1/auth/login
func (h *PublicHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, logger, err, "Failed to read request")
		return
	}

	user, token, err := h.uc.Login.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, logger, err, "Login failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  AdminUserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}
