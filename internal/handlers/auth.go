package handlers

import (
	"net/http"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/services"
	"go.uber.org/zap"
)

// AuthHandler handles signup, login and session endpoints
type AuthHandler struct {
	identity *services.IdentityService
	tokens   *services.TokenIssuer
	logger   *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, tokens *services.TokenIssuer, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens, logger: logger}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.identity.Signup(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, user.Stripped())
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := services.Validate(req); err != nil {
		respondServiceError(w, h.logger, err, "Failed to sign in")
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to sign in")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Errorw("Failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	h.logger.Infow("User signed in", "id", user.ID, "role", user.Role)
	respondJSON(w, http.StatusOK, models.LoginResponse{User: user, Token: token})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
