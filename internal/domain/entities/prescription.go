package entities

import (
	"fmt"
	"strings"
)

// Medication is one line of a prescription
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is issued to a patient known from the appointment book
type Prescription struct {
	ID          string       `json:"id"`
	PatientID   string       `json:"patientId"`
	PatientName string       `json:"patientName"`
	DoctorName  string       `json:"doctorName"`
	ClinicName  string       `json:"clinicName"`
	Medications []Medication `json:"medications"`
	Notes       string       `json:"notes,omitempty"`
	Date        string       `json:"date"`
}

// Validate checks the fields every stored prescription must carry
func (p *Prescription) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.PatientName) == "" {
		return fmt.Errorf("patientName is required")
	}
	if len(p.Medications) == 0 {
		return fmt.Errorf("at least one medication is required")
	}
	for i, m := range p.Medications {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" {
			return fmt.Errorf("medication %d: name and dosage are required", i+1)
		}
	}
	return nil
}

// Patient is a person derived from the appointment book
type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	ClinicName string `json:"clinicName,omitempty"`
	DoctorName string `json:"doctorName,omitempty"`
}
