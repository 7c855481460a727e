package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"officesim-backend/internal/layout"
	"officesim-backend/internal/office"
	"officesim-backend/internal/simulation"
	"officesim-backend/internal/store"
)

const defaultStreamInterval = 200 * time.Millisecond

// Handler holds shared dependencies for API handlers.
type Handler struct {
	sim            *simulation.Service
	store          store.Store
	webpush        *webpush.Options
	streamInterval time.Duration
	upgrader       websocket.Upgrader
}

// NewHandler creates a new API handler. s may be nil when persistence is off.
func NewHandler(sim *simulation.Service, s store.Store, webpushOptions *webpush.Options, streamInterval time.Duration) *Handler {
	if streamInterval <= 0 {
		streamInterval = defaultStreamInterval
	}
	return &Handler{
		sim:            sim,
		store:          s,
		webpush:        webpushOptions,
		streamInterval: streamInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) db() *gorm.DB {
	if h.store == nil {
		return nil
	}
	return h.store.DB()
}

// statusFor maps engine and service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, simulation.ErrInvalidCommand),
		errors.Is(err, office.ErrInvalidConfig),
		errors.Is(err, office.ErrInvalidLayout),
		errors.Is(err, layout.ErrSchema):
		return http.StatusBadRequest
	case errors.Is(err, office.ErrUnknownWorker):
		return http.StatusNotFound
	case errors.Is(err, office.ErrWorkerBusy),
		errors.Is(err, office.ErrNoUpcomingEvent):
		return http.StatusConflict
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
