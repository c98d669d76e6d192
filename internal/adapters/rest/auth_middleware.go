package rest

import (
	"net/http"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/port"
	"showcase-service/internal/core/port/usecases_port"
	"strings"
)

// SessionMiddleware проверяет Bearer-токен и кладет сессию в контекст
func SessionMiddleware(validateUC usecases_port.ValidateSessionUseCasePort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			session, err := validateUC.Execute(r.Context(), tokenString)
			if err != nil {
				respondWithError(w, contextkeys.LoggerFromContext(r.Context()), err, "Failed to validate session")
				return
			}

			ctx := contextkeys.ContextWithSession(r.Context(), session)
			logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"user_id": session.UserID})
			ctx = contextkeys.ContextWithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только сессии с ролью admin
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := contextkeys.SessionFromContext(r.Context())
		if !ok {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !session.IsAdmin() {
			WriteJSONError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
