package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier pushes realtime events to connected clients. The websocket
// handler satisfies it; tests use a recording fake.
type Notifier interface {
	SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{})
	SendMarketplaceEvent(eventType string, data map[string]interface{})
}
