package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/server/middleware"
)

// callerToken returns the verified caller or a 401.
func callerToken(ctx context.Context) (domain.AuthToken, error) {
	token, ok := middleware.TokenFromContext(ctx)
	if !ok || token.UserID == "" {
		return domain.AuthToken{}, huma.Error401Unauthorized("authentication required")
	}
	return token, nil
}

// toHTTPError maps domain errors onto problem responses. Denials carry no
// detail beyond the intent so nothing about the resource leaks.
func toHTTPError(err error, what string) error {
	var denied *domain.NotAuthorizedError
	switch {
	case errors.As(err, &denied):
		return huma.Error403Forbidden("not authorized for intent " + string(denied.Intent))
	case errors.Is(err, domain.ErrNotAuthorized):
		return huma.Error403Forbidden("not authorized")
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(what + " not found")
	case errors.Is(err, domain.ErrSchema):
		return huma.Error400BadRequest("malformed " + what, err)
	case errors.Is(err, domain.ErrUpstream):
		log.Warn().Err(err).Str("resource", what).Msg("api: upstream failure")
		return huma.Error502BadGateway("failed to read " + what)
	default:
		log.Error().Err(err).Str("resource", what).Msg("api: unexpected error")
		return huma.Error500InternalServerError("failed to read "+what, err)
	}
}
