package entities

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the zero-padded ISO date used for every stored date; lexical order equals
// chronological order.
const DateLayout = "2006-01-02"

// TimeLayout is the HH:MM wall-clock time used for appointment and clinic times.
const TimeLayout = "15:04"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCanceled   AppointmentStatus = "canceled"
)

// AppointmentStatuses lists every status in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCanceled,
}

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInProgress, AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

// Label returns the Arabic label shown to clinic staff.
func (s AppointmentStatus) Label() string {
	switch s {
	case AppointmentStatusScheduled:
		return "مجدول"
	case AppointmentStatusInProgress:
		return "جاري"
	case AppointmentStatusCompleted:
		return "مكتمل"
	default:
		return "ملغي"
	}
}

// ParseAppointmentStatus converts raw input into a status
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return s, nil
}

// Appointment represents a scheduled patient visit
type Appointment struct {
	ID           int               `json:"id"`
	PatientName  string            `json:"patientName"`
	PatientPhone string            `json:"patientPhone"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Doctor       string            `json:"doctor"`
	Status       AppointmentStatus `json:"status"`
	ClinicName   string            `json:"clinicName"`
	Notes        string            `json:"notes,omitempty"`
}

// Validate checks the fields every stored appointment must carry. The id is not checked
// because new records get theirs assigned on add.
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.PatientName) == "" {
		return fmt.Errorf("patientName is required")
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", a.Date)
	}
	if _, err := time.Parse(TimeLayout, a.Time); err != nil {
		return fmt.Errorf("time %q must be HH:MM", a.Time)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("unknown appointment status %q", a.Status)
	}
	return nil
}

// AppointmentCounts is the per-status breakdown of today's appointments
type AppointmentCounts struct {
	Today      int `json:"today"`
	Scheduled  int `json:"scheduled"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Canceled   int `json:"canceled"`
}

// DateOf formats t as a stored date in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}
