package entities

import (
	"fmt"
	"strings"
	"time"
)

// ClinicStatus represents the lifecycle status of a clinic
type ClinicStatus string

const (
	ClinicStatusActive    ClinicStatus = "active"
	ClinicStatusPending   ClinicStatus = "pending"
	ClinicStatusSuspended ClinicStatus = "suspended"
)

// Valid reports whether s is a known clinic status
func (s ClinicStatus) Valid() bool {
	switch s {
	case ClinicStatusActive, ClinicStatusPending, ClinicStatusSuspended:
		return true
	}
	return false
}

// ParseClinicStatus converts raw input into a status
func ParseClinicStatus(raw string) (ClinicStatus, error) {
	s := ClinicStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown clinic status %q", raw)
	}
	return s, nil
}

// Clinic represents a registered medical practice
type Clinic struct {
	ID                    int          `json:"id"`
	RemoteID              string       `json:"remoteId,omitempty"`
	Name                  string       `json:"name"`
	Specialization        string       `json:"specialization"`
	Address               string       `json:"address"`
	Phone                 string       `json:"phone"`
	Email                 string       `json:"email,omitempty"`
	Description           string       `json:"description,omitempty"`
	DoctorName            string       `json:"doctorName,omitempty"`
	DoctorDescription     string       `json:"doctorDescription,omitempty"`
	DoctorExperienceYears int          `json:"doctorExperienceYears,omitempty"`
	StartTime             string       `json:"startTime,omitempty"`
	EndTime               string       `json:"endTime,omitempty"`
	PatientAverageTime    int          `json:"patientAverageTime,omitempty"`
	Status                ClinicStatus `json:"status"`
	Image                 string       `json:"image,omitempty"`
}

// Validate checks the fields every stored clinic must carry
func (c *Clinic) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !c.Status.Valid() {
		return fmt.Errorf("unknown clinic status %q", c.Status)
	}
	times := []struct{ field, value string }{
		{"startTime", c.StartTime},
		{"endTime", c.EndTime},
	}
	for _, t := range times {
		if t.value == "" {
			continue
		}
		if _, err := time.Parse(TimeLayout, t.value); err != nil {
			return fmt.Errorf("%s %q must be HH:MM", t.field, t.value)
		}
	}
	if c.PatientAverageTime < 0 || c.DoctorExperienceYears < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.Image != "" && !strings.HasPrefix(c.Image, "data:image/") &&
		!strings.HasPrefix(c.Image, "http://") && !strings.HasPrefix(c.Image, "https://") {
		return fmt.Errorf("image must be a data URL or an http(s) URL")
	}
	return nil
}

// ClinicCounts is the status breakdown over all clinics
type ClinicCounts struct {
	Active    int `json:"active"`
	Pending   int `json:"pending"`
	Suspended int `json:"suspended"`
	Total     int `json:"total"`
}
