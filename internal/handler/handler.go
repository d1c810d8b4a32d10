package handler

import (
	"context"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Dashboard is the orchestrator surface the HTTP layer needs.
type Dashboard interface {
	State() domain.DashboardState
	Refresh(ctx context.Context) (domain.DashboardState, error)
	DismissNotification()
	ToggleNotification() bool
	Subscribe() <-chan dashboard.Event
	Unsubscribe(ch <-chan dashboard.Event)
}

type Handler struct {
	tracer trace.Tracer
	dash   Dashboard
}

func New(tracer trace.Tracer, dash Dashboard) *Handler {
	return &Handler{
		tracer: tracer,
		dash:   dash,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplate)
	r.GET("/", h.Page)
	r.GET("/health", h.Health)
	r.GET("/ws", h.Stream)

	api := r.Group("/api")
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/snapshot", h.GetSnapshot)
	api.GET("/signals", h.GetSignals)
	api.GET("/intervention", h.GetIntervention)
	api.POST("/refresh", h.Refresh)
	api.POST("/notification/dismiss", h.DismissNotification)
	api.POST("/notification/toggle", h.ToggleNotification)
}
