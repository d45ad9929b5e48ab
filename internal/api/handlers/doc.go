package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/internal/auth"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// StatusOutput wraps StatusResponse for Huma operations.
type StatusOutput struct {
	Body StatusResponse
}

// authorize validates a bearer token against the auth service. A nil
// service means the deployment runs open (local single-user mode).
func authorize(ctx context.Context, svc *auth.Service, header string) error {
	if svc == nil {
		return nil
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return huma.Error401Unauthorized("missing bearer token")
	}
	if _, err := svc.Authenticate(ctx, token); err != nil {
		return huma.Error401Unauthorized("invalid or expired token")
	}
	return nil
}
