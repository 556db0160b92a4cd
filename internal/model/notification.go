package model

import "time"

// Notification is an admin-authored broadcast message.
type Notification struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// UserNotification is a notification as delivered to one user.
type UserNotification struct {
	NotificationID int        `json:"notification_id"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

// CreateNotificationRequest is the admin payload for broadcasting a message.
type CreateNotificationRequest struct {
	Message string `json:"message" binding:"required,min=1,max=1000"`
}
