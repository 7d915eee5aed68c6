package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Validator checks decoded request structs against their validate tags.
// Field names in errors come from the query tag, then the json tag.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the dashboard's custom rules registered
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("preset", isValidPreset)
	_ = v.RegisterValidation("ymd", isYMD)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// Struct validates v. Failures come back as a 400 APIError listing every
// invalid field.
func (m *Validator) Struct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apperrors.NewValidationErrors(validationErrors)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "ymd":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "preset":
		return fmt.Sprintf("%s must be one of: %s", field, presetList())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isValidPreset(fl validator.FieldLevel) bool {
	return domain.DatePreset(fl.Field().String()).Valid()
}

// isYMD accepts an empty value; pair with required when the date is mandatory
func isYMD(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

func presetList() string {
	names := make([]string, 0, len(domain.Presets))
	for _, p := range domain.Presets {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// AllowedQueryParams rejects requests carrying query parameters outside the
// allowed set, so a misspelled filter fails loudly instead of being ignored
func AllowedQueryParams(errorHandler *apperrors.ErrorHandler, allowed ...string) func(next http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, p := range allowed {
		set[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var unknown []string
			for name := range r.URL.Query() {
				if _, ok := set[name]; !ok {
					unknown = append(unknown, name)
				}
			}
			if len(unknown) > 0 {
				sort.Strings(unknown)
				errs := make([]apperrors.ValidationError, 0, len(unknown))
				for _, name := range unknown {
					errs = append(errs, apperrors.ValidationError{
						Field:   name,
						Message: fmt.Sprintf("unknown query parameter %q", name),
					})
				}
				errorHandler.HandleError(w, r, apperrors.NewValidationErrors(errs))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
