package httpadapter

import (
	"net/http"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// A transient classifier outage is reported as 503 so clients retry; any
// other classifier failure is a bad upstream answer.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrCommunicationNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrClassification):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
