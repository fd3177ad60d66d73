package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/techchoose/backend/internal/domain"
	"github.com/techchoose/backend/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Recommender is the usecase surface the handlers depend on
type Recommender interface {
	Recommend(ctx context.Context, prefs *domain.Preferences) (*domain.Recommendation, error)
	Compare(ctx context.Context, req *domain.CompareRequest) (*domain.Comparison, error)
	Devices(ctx context.Context, prefs *domain.Preferences) (domain.Catalog, error)
	Presets() *usecase.Presets
}

// CatalogRefresher drops the cached catalog
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommender Recommender
	refresher   CatalogRefresher
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. refresher may be nil.
func NewHandler(recommender Recommender, refresher CatalogRefresher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		recommender: recommender,
		refresher:   refresher,
		logger:      logger.Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "techchoose-backend",
		"version": Version,
	})
}

// ListPersonas returns the persona, judge and importance tables
func (h *Handler) ListPersonas(c *gin.Context) {
	if h.recommender == nil {
		h.notConfigured(c)
		return
	}

	presets := h.recommender.Presets()
	c.JSON(http.StatusOK, gin.H{
		"personas":     presets.PersonaTable(),
		"judges":       presets.JudgeTable(),
		"importance":   presets.ImportanceTable(),
		"defaultJudge": usecase.DefaultJudge,
	})
}

// ListDevices returns the normalized catalog, optionally narrowed by the
// "os" and "budget" query parameters
func (h *Handler) ListDevices(c *gin.Context) {
	if h.recommender == nil {
		h.notConfigured(c)
		return
	}

	prefs := &domain.Preferences{OS: c.Query("os")}
	if raw := c.Query("budget"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be a number"})
			return
		}
		prefs.Budget = &budget
	}

	devices, err := h.recommender.Devices(c.Request.Context(), prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"devices": devices,
		"count":   len(devices),
	})
}

// Recommend ranks the catalog for a persona, explicit weights or importance
// labels. An empty body ranks with the default custom preferences.
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommender == nil {
		h.notConfigured(c)
		return
	}

	var prefs domain.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	rec, err := h.recommender.Recommend(c.Request.Context(), &prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Compare runs a head-to-head between two named devices
func (h *Handler) Compare(c *gin.Context) {
	if h.recommender == nil {
		h.notConfigured(c)
		return
	}

	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.recommender.Compare(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshCatalog drops the cached catalog so the next request refetches the sheet
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if h.refresher == nil {
		h.notConfigured(c)
		return
	}

	if err := h.refresher.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("catalog cache cleared", zap.String("request_id", c.GetString(RequestIDKey)))
	c.JSON(http.StatusAccepted, gin.H{"status": "catalog cache cleared"})
}

func (h *Handler) notConfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "recommendation service not configured",
	})
}

// respondError maps usecase errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err))
	}

	message := err.Error()
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		message = "cannot load data"
	}
	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidWeights),
		errors.Is(err, domain.ErrUnknownPersona),
		errors.Is(err, domain.ErrUnknownJudge),
		errors.Is(err, domain.ErrUnknownImportance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDeviceNotFound),
		errors.Is(err, domain.ErrNoMatches):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
