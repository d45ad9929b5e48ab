package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/metrics"
)

// AuthHandler serves account registration and session endpoints.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// --- Input/Output types ---

// CredentialsPayload is an email and password pair.
type CredentialsPayload struct {
	Email    string `json:"email"    doc:"Account email"    format:"email"`
	Password string `json:"password" doc:"Account password" minLength:"8"`
}

// RegisterInput is the input for registration.
type RegisterInput struct {
	Body CredentialsPayload
}

// RegisterOutput is the response after registration.
type RegisterOutput struct {
	Body struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
}

// LoginInput is the input for login.
type LoginInput struct {
	Body CredentialsPayload
}

// LoginOutput is the response carrying a bearer token.
type LoginOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

// MeInput is the input for the current-user endpoint.
type MeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// MeOutput is the response identifying the current user.
type MeOutput struct {
	Body struct {
		UserID string `json:"user_id"`
	}
}

// LogoutInput is the input for logout.
type LogoutInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// --- Handlers ---

// Register creates a new account.
func (h *AuthHandler) Register(
	ctx context.Context,
	input *RegisterInput,
) (*RegisterOutput, error) {
	user, err := h.auth.Register(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return nil, huma.Error409Conflict("email already registered")
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		default:
			return nil, huma.Error500InternalServerError("failed to register", err)
		}
	}

	resp := &RegisterOutput{}
	resp.Body.ID = user.ID
	resp.Body.Email = user.Email
	resp.Body.CreatedAt = user.CreatedAt
	return resp, nil
}

// Login checks credentials and mints a session token.
func (h *AuthHandler) Login(
	ctx context.Context,
	input *LoginInput,
) (*LoginOutput, error) {
	session, err := h.auth.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.AuthLoginFailuresTotal.Inc()
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		return nil, huma.Error500InternalServerError("failed to log in", err)
	}

	resp := &LoginOutput{}
	resp.Body.Token = session.Token
	resp.Body.ExpiresAt = session.ExpiresAt
	return resp, nil
}

// Me returns the user behind the presented token.
func (h *AuthHandler) Me(ctx context.Context, input *MeInput) (*MeOutput, error) {
	token, ok := strings.CutPrefix(input.Authorization, "Bearer ")
	if !ok {
		return nil, huma.Error401Unauthorized("missing bearer token")
	}

	userID, err := h.auth.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, huma.Error401Unauthorized("invalid or expired token")
		}
		return nil, huma.Error500InternalServerError("failed to authenticate", err)
	}

	resp := &MeOutput{}
	resp.Body.UserID = userID
	return resp, nil
}

// Logout deletes the presented session. Unknown tokens are a no-op.
func (h *AuthHandler) Logout(
	ctx context.Context,
	input *LogoutInput,
) (*StatusOutput, error) {
	token, ok := strings.CutPrefix(input.Authorization, "Bearer ")
	if !ok {
		return nil, huma.Error401Unauthorized("missing bearer token")
	}

	if err := h.auth.Logout(ctx, token); err != nil {
		return nil, huma.Error500InternalServerError("failed to log out", err)
	}

	resp := &StatusOutput{}
	resp.Body.Status = "logged out"
	return resp, nil
}

// RegisterAuthRoutes registers account and session endpoints with the Huma
// API.
func RegisterAuthRoutes(api huma.API, h *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register an account",
		Description:   "Creates an account from an email and password.",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Description: "Checks credentials and returns a bearer token.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID: "auth-me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current user",
		Description: "Returns the account behind the presented token.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Me)

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Log out",
		Description: "Deletes the presented session token.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Logout)
}
