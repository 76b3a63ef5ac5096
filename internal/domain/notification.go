package domain

import "time"

// Notification types emitted by the registration flow.
const (
	NotificationRegistrationRequest  = "registration_request"
	NotificationRegistrationAccepted = "registration_accepted"
	NotificationRegistrationRejected = "registration_rejected"
)

// Notification is a message delivered to a user's inbox.
type Notification struct {
	ID                    string
	UserID                string
	Type                  string
	Title                 string
	Message               string
	RelatedUserID         string
	RelatedRegistrationID string
	RelatedDocumentID     string
	Read                  bool
	CreatedAt             time.Time
}
