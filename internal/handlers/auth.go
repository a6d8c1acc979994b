package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adityashravan/spendsavvy/internal/auth"
	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/models"
)

// AuthHandler owns the signup and login endpoints.
type AuthHandler struct {
	authenticator *auth.PasswordAuthenticator
	tokens        *auth.JWTManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authenticator *auth.PasswordAuthenticator, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

// Register attaches auth routes to the mux. These are the only API routes
// that do not require a token.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signup", h.handleSignup)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)}
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Email == "" {
		writeError(w, &ledger.ValidationError{Reason: "name and email are required"})
		return
	}
	role := models.Role(req.Role)
	if role != "" && role != models.RoleUser && role != models.RoleParent {
		writeError(w, &ledger.ValidationError{Reason: "role must be user or parent"})
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, &ledger.ValidationError{Reason: err.Error()})
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, &ledger.ConflictError{Reason: err.Error()})
		default:
			writeError(w, err)
		}
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, Token: token, User: toUserPayload(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, Token: token, User: toUserPayload(user)})
}
