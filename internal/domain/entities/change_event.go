package entities

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ChangeEntity names the collection a change event refers to
type ChangeEntity string

const (
	ChangeEntityAppointment  ChangeEntity = "appointment"
	ChangeEntityClinic       ChangeEntity = "clinic"
	ChangeEntityClinicHours  ChangeEntity = "clinic_hours"
	ChangeEntityPrescription ChangeEntity = "prescription"
	ChangeEntityNotification ChangeEntity = "notification"
	ChangeEntitySession      ChangeEntity = "session"
	ChangeEntitySettings     ChangeEntity = "settings"
)

// ChangeAction represents what happened to the record
type ChangeAction string

const (
	ChangeActionCreated       ChangeAction = "created"
	ChangeActionUpdated       ChangeAction = "updated"
	ChangeActionStatusChanged ChangeAction = "status_changed"
	ChangeActionDeleted       ChangeAction = "deleted"
	ChangeActionReset         ChangeAction = "reset"
)

// ChangeEvent tells open views that a stored collection changed and should be reloaded
type ChangeEvent struct {
	ID        string       `json:"id"`
	Entity    ChangeEntity `json:"entity"`
	Action    ChangeAction `json:"action"`
	RecordID  string       `json:"record_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewChangeEvent creates a change event stamped with at
func NewChangeEvent(entity ChangeEntity, action ChangeAction, recordID string, at time.Time) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.NewString(),
		Entity:    entity,
		Action:    action,
		RecordID:  recordID,
		Timestamp: at,
	}
}

// IntID formats an integer record id for a change event
func IntID(id int) string {
	return strconv.Itoa(id)
}
