// backend/src/handlers/auth_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/shipflow/backend/src/logger"
	"github.com/username/shipflow/backend/src/security"
	"github.com/username/shipflow/backend/src/utils"
)

type contextKey string

const clientContextKey = contextKey("client")

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleIssueToken exchanges the deployment API key for a short-lived access
// token.
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"apiKey"`
		Client string `json:"client"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	token, err := h.authService.ExchangeAPIKey(payload.APIKey, payload.Client)
	if err != nil {
		logger.L.Warn("API key exchange failed", "client", payload.Client, "error", err)
		utils.SendJSONError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
}

// AuthMiddleware validates the bearer token on protected routes and stores
// the client name in the request context.
func (h *AuthHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			logger.L.Debug("AuthMiddleware: Token string empty", "path", r.URL.Path)
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		client, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), clientContextKey, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetClientFromContext returns the authenticated client name, if any.
func GetClientFromContext(ctx context.Context) (string, bool) {
	client, ok := ctx.Value(clientContextKey).(string)
	return client, ok
}
