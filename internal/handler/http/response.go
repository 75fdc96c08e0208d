package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/menstyle/storefront/pkg/httputil"
	"github.com/menstyle/storefront/pkg/validator"
)

// writeServiceError routes service-layer failures to the right response
// shape: field-level validation errors keep their field map, everything else
// goes through the standard error writer.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, logger)
}
