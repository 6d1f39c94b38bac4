package services

import (
	"errors"
	"net/http"

	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/internal/types"
)

// translateError maps engine errors onto API errors.
func translateError(err error) *types.Error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return typed
	}

	switch {
	case errors.Is(err, farming.ErrUnauthorized):
		return types.NewError(http.StatusForbidden, types.Forbidden, err)
	case errors.Is(err, farming.ErrPoolNotFound):
		return types.NewError(http.StatusNotFound, types.NotFound, err)
	case errors.Is(err, farming.ErrPoolInactive):
		return types.NewError(http.StatusConflict, types.Conflict, err)
	case errors.Is(err, farming.ErrInsufficientStake),
		errors.Is(err, farming.ErrInvalidAmount),
		errors.Is(err, farming.ErrInvalidWindow),
		errors.Is(err, farming.ErrInvalidAsset),
		errors.Is(err, farming.ErrInvalidFee),
		errors.Is(err, farming.ErrInvalidAddress):
		return types.NewValidationFailedError(err)
	case errors.Is(err, farming.ErrCommitFailed):
		return types.NewError(http.StatusServiceUnavailable, types.ServiceUnavailable, err)
	case errors.Is(err, farming.ErrTransferFailed),
		errors.Is(err, farming.ErrOverflow):
		return types.NewError(http.StatusUnprocessableEntity, types.Unprocessable, err)
	default:
		return types.NewInternalServiceError(err)
	}
}
