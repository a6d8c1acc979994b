package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags a notification so clients can render it appropriately.
type NotificationType string

const (
	NotificationExpenseAdded  NotificationType = "expense_added"
	NotificationSharePaid     NotificationType = "share_paid"
	NotificationFriendAdded   NotificationType = "friend_added"
	NotificationFriendRemoved NotificationType = "friend_removed"
	NotificationGroupAdded    NotificationType = "group_added"
)

// Notification is a fire-and-forget informational message for one user.
// There is no invariant beyond eventual read-state convergence; failures
// to deliver are logged, never propagated.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// UserID is the recipient.
	UserID string

	// Message is the display text.
	Message string

	// Type tags the notification kind.
	Type NotificationType

	// Data is an optional JSON payload with type-specific context
	// (expense ID, amount, counterparty, ...).
	Data string

	// IsRead marks the notification as seen.
	IsRead bool

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64
}

// NewNotification constructs a notification with a fresh ID and timestamp.
func NewNotification(userID, message string, typ NotificationType, data string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		Data:      data,
		CreatedAt: time.Now().Unix(),
	}
}
