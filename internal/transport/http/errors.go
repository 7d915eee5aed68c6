package http

import (
	"net/http"

	apierrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/internal/services"
)

// ErrorMappings binds the service sentinels to their problem responses
func ErrorMappings() []apierrors.ErrorMapping {
	return []apierrors.ErrorMapping{
		{Target: services.ErrDatasetNotFound, Status: http.StatusServiceUnavailable, Type: apierrors.TypeDatasetUnavailable, Title: "Dataset Unavailable"},
		{Target: services.ErrFeatureDisabled, Status: http.StatusNotFound, Type: apierrors.TypeFeatureDisabled, Title: "Feature Disabled"},
		{Target: services.ErrBillNotFound, Status: http.StatusNotFound, Type: apierrors.TypeBillNotFound, Title: "Bill Not Found"},
		{Target: services.ErrAuthorNotFound, Status: http.StatusNotFound, Type: apierrors.TypeAuthorNotFound, Title: "Author Not Found"},
		{Target: services.ErrInvalidInput, Status: http.StatusBadRequest, Type: apierrors.TypeValidation, Title: "Invalid Input"},
	}
}
