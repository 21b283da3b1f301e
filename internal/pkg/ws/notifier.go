package ws

import (
	"github.com/rs/zerolog"

	"github.com/classforge/classforge/internal/app/publish"
)

// PublishNotifier adapts the hub to the publish.Notifier interface. Every
// notification is also logged so a summary is never lost when the author
// has no open connection.
type PublishNotifier struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewPublishNotifier creates a PublishNotifier.
func NewPublishNotifier(hub *Hub, logger zerolog.Logger) *PublishNotifier {
	return &PublishNotifier{hub: hub, logger: logger}
}

// Notify delivers the upload summary notification to the authoring user.
func (n *PublishNotifier) Notify(userID int64, notification publish.Notification) {
	n.logger.Info().
		Int64("userId", userID).
		Str("severity", string(notification.Severity)).
		Str("message", notification.Message).
		Msg("Course publish notification")

	n.hub.Send(userID, Event{
		Type:     "course.publish",
		Severity: string(notification.Severity),
		Message:  notification.Message,
	})
}
