package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/internal/auth"
	"github.com/mmynk/casesettle/internal/errs"
	"github.com/mmynk/casesettle/internal/middleware"
	"github.com/mmynk/casesettle/internal/models"
)

var errInternal = errors.New("internal error")

// toConnectError maps the workflow error taxonomy onto Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var code connect.Code
	switch errs.KindOf(err) {
	case errs.Validation:
		code = connect.CodeInvalidArgument
	case errs.InvalidState:
		code = connect.CodeFailedPrecondition
	case errs.Authorization:
		code = connect.CodePermissionDenied
	case errs.NotFound:
		code = connect.CodeNotFound
	case errs.Conflict:
		code = connect.CodeAborted
	default:
		// Storage and driver detail stays in the server log.
		slog.Error("Unclassified error", "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
	return connect.NewError(code, err)
}

// actorFrom returns the actor placed in ctx by the auth interceptor.
func actorFrom(ctx context.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		return models.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return actor, nil
}
