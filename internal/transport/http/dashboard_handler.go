package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/internal/exporter"
	"github.com/fmaignacio/observatorio-tere/internal/middleware"
	"github.com/fmaignacio/observatorio-tere/internal/services"
)

// DashboardHandler exposes the dashboard views as JSON
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes. Views switched off in configuration
// are not mounted.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	filtered := r.With(middleware.AllowedQueryParams(h.errorHandler, FilterParams...))
	filtered.Get("/options", h.GetOptions)
	filtered.Get("/overview", h.GetOverview)
	filtered.Get("/events", h.GetEvents)
	filtered.Get("/authors/{author}", h.GetAuthor)

	exportParams := append(append([]string{}, FilterParams...), ParamFormat)
	r.With(middleware.AllowedQueryParams(h.errorHandler, exportParams...)).
		Get("/events/export", h.ExportEvents)

	r.With(middleware.AllowedQueryParams(h.errorHandler, ParamBill)).
		Get("/timeline", h.GetTimeline)

	features := h.service.Features()
	if features.Search {
		r.With(middleware.AllowedQueryParams(h.errorHandler, ParamSearch)).
			Get("/search", h.Search)
	}
	if features.AdvancedStats {
		filtered.Get("/stats", h.GetStats)
	}

	return r
}

// query parses and validates the filter parameters, answering 400 on failure
func (h *DashboardHandler) query(w http.ResponseWriter, r *http.Request) (services.Query, bool) {
	dq := ParseDashboardQuery(r.URL.Query())
	if err := h.validator.Struct(dq); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return services.Query{}, false
	}
	return dq.ServiceQuery(), true
}

func success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	opts, err := h.service.Options(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, opts)
}

// GetOverview handles GET /api/dashboard/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, overview)
}

// GetEvents handles GET /api/dashboard/events
func (h *DashboardHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	page, err := h.service.Events(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, page)
}

// ExportEvents handles GET /api/dashboard/events/export?format=csv|xlsx.
// The body is the file itself, not JSON.
func (h *DashboardHandler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get(ParamFormat))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(ParamFormat, err.Error()))
		return
	}

	q, ok := h.query(w, r)
	if !ok {
		return
	}

	result, err := h.service.Export(r.Context(), q, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "view exported",
		slog.String("format", string(format)),
		slog.Int("records", result.Records),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Export-Records", strconv.Itoa(result.Records))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// GetAuthor handles GET /api/dashboard/authors/{author}
func (h *DashboardHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if unescaped, err := url.PathUnescape(author); err == nil {
		author = unescaped
	}
	author = strings.TrimSpace(author)
	if author == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("author", "author is required"))
		return
	}

	q, ok := h.query(w, r)
	if !ok {
		return
	}
	view, err := h.service.Author(r.Context(), q, author)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, view)
}

// GetTimeline handles GET /api/dashboard/timeline?bill=
func (h *DashboardHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	bill := strings.TrimSpace(r.URL.Query().Get(ParamBill))
	if bill == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(ParamBill, "bill is required"))
		return
	}
	timeline, err := h.service.Timeline(r.Context(), bill)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, timeline)
}

// Search handles GET /api/dashboard/search?q=
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get(ParamSearch))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, result)
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	stats, err := h.service.AdvancedStats(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, stats)
}

// Reload handles POST /api/dataset/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	success(w, r, result)
}
