package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/middleware"
	"github.com/classforge/classforge/internal/pkg/ws"
)

// NotificationController upgrades authenticated clients to the websocket
// channel that delivers upload summaries and other notifications.
type NotificationController struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewNotificationController creates a new NotificationController.
func NewNotificationController(hub *ws.Hub, logger zerolog.Logger) *NotificationController {
	return &NotificationController{hub: hub, logger: logger}
}

// Subscribe opens the notification stream
// @Summary Subscribe to notifications
// @Description Upgrades the connection to a websocket delivering the caller's notifications as JSON events.
// @Tags notifications
// @Success 101 "Switching protocols"
// @Security BearerAuth
// @Router /notifications/ws [get]
func (c *NotificationController) Subscribe(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	if err := c.hub.Serve(ctx, actor.UserID); err != nil {
		c.logger.Warn().Err(err).Int64("userID", actor.UserID).Msg("Websocket upgrade failed")
	}
}
