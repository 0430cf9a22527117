package httpadapter

import (
	"net/http"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrResultNotReady):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrIncompleteResult):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrStorageFailure):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrInferenceFailure):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
