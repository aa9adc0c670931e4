package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/eczema-insights/internal/domain/dashboard"
	"github.com/yanqian/eczema-insights/internal/domain/progress"
	"github.com/yanqian/eczema-insights/internal/domain/records"
	apperrors "github.com/yanqian/eczema-insights/pkg/errors"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// HealthChecks names the probes reported by /healthz.
type HealthChecks map[string]HealthCheck

// Handler wires the HTTP transport to domain services.
type Handler struct {
	progressSvc  progress.Service
	dashboardSvc dashboard.Service
	checks       HealthChecks
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(progressSvc progress.Service, dashboardSvc dashboard.Service, checks HealthChecks, logger *slog.Logger) *Handler {
	return &Handler{
		progressSvc:  progressSvc,
		dashboardSvc: dashboardSvc,
		checks:       checks,
		logger:       logger.With("component", "http.handler"),
	}
}

// Progress returns the derived progress metrics for the caller.
func (h *Handler) Progress(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}
	var req progress.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.progressSvc.Metrics(c.Request.Context(), principal, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardStats returns headline counters.
func (h *Handler) DashboardStats(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}
	var req dashboard.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	stats, err := h.dashboardSvc.Stats(c.Request.Context(), principal, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DashboardActivity returns the recent scan and log feed.
func (h *Handler) DashboardActivity(c *gin.Context) {
	principal, ok := h.requirePrincipal(c)
	if !ok {
		return
	}
	var req dashboard.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	items, err := h.dashboardSvc.RecentActivity(c.Request.Context(), principal, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}

// Healthz reports process liveness plus the state of each registered dependency.
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", "check", name, "error", err)
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}

func (h *Handler) requirePrincipal(c *gin.Context) (records.Principal, bool) {
	principal, ok := getPrincipal(c)
	if !ok || principal.UserID == "" {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeInvalidToken, "authentication required", nil))
		return records.Principal{}, false
	}
	return principal, true
}
