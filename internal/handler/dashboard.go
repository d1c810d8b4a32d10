package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Get dashboard state
// @Description  Returns the full state: snapshot, signals, intervention note and notification flag
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.DashboardState
// @Router       /api/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	c.JSON(http.StatusOK, h.dash.State())
}

// @Summary      Get market snapshot
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.MarketSnapshot
// @Router       /api/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	c.JSON(http.StatusOK, h.dash.State().Snapshot)
}

// GetSignals returns the current signal set, optionally narrowed with ?asset=INDEX|DOLLAR.
//
// @Summary      Get trading signals
// @Tags         signals
// @Produce      json
// @Param        asset  query  string  false  "Asset filter (INDEX, DOLLAR)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/signals [get]
func (h *Handler) GetSignals(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-signals")
	defer span.End()

	signals := h.dash.State().Signals
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("asset"))); raw != "" {
		asset := domain.Asset(raw)
		span.SetAttributes(attribute.String("asset", raw))
		if !asset.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":            "unsupported asset: " + raw,
				"supported_assets": domain.TrackedAssets,
			})
			return
		}
		filtered := make([]domain.TradingSignal, 0, len(signals))
		for _, s := range signals {
			if s.Asset == asset {
				filtered = append(filtered, s)
			}
		}
		signals = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"signals": signals,
		"count":   len(signals),
	})
}

// @Summary      Get intervention analysis
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/intervention [get]
func (h *Handler) GetIntervention(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-intervention")
	defer span.End()

	state := h.dash.State()
	c.JSON(http.StatusOK, gin.H{
		"intervention":  state.InterventionText(),
		"dollar":        state.Snapshot.Dollar,
		"swapContracts": state.Snapshot.SwapContracts,
	})
}

// Refresh runs a cycle to completion even if the client disconnects.
//
// @Summary      Run a refresh cycle
// @Description  Fetches a new snapshot, then analyzes and narrates it
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.DashboardState
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx, span := h.tracer.Start(context.WithoutCancel(c.Request.Context()), "handler.refresh")
	defer span.End()

	state, err := h.dash.Refresh(ctx)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, state)
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		span.RecordError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "state": state})
	}
}

// @Summary      Dismiss the notification
// @Tags         notification
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/notification/dismiss [post]
func (h *Handler) DismissNotification(c *gin.Context) {
	h.dash.DismissNotification()
	c.JSON(http.StatusOK, gin.H{"notificationVisible": false})
}

// @Summary      Toggle the notification
// @Tags         notification
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/notification/toggle [post]
func (h *Handler) ToggleNotification(c *gin.Context) {
	visible := h.dash.ToggleNotification()
	c.JSON(http.StatusOK, gin.H{"notificationVisible": visible})
}
