package entities

import (
	"fmt"
	"time"
)

// NotificationType classifies persisted user notifications
type NotificationType string

const (
	NotificationClinicRequest NotificationType = "clinicRequest"
	NotificationAppointment   NotificationType = "appointment"
	NotificationSystem        NotificationType = "system"
)

// Notification is an entry in the signed-in user's notification list
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
}

// Validate checks the fields a stored notification must carry
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("id is required")
	}
	switch n.Type {
	case NotificationClinicRequest, NotificationAppointment, NotificationSystem:
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	return nil
}

// ToastVariant selects how a toast is rendered
type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is transient user feedback raised by a mutation
type Toast struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
}
