package services

import (
	"context"
	"strings"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// SuperAdminDashboard is the landing view of the super-admin
type SuperAdminDashboard struct {
	ClinicsCount      int                    `json:"clinicsCount"`
	AppointmentsToday int                    `json:"appointmentsToday"`
	UsersCount        int                    `json:"usersCount"`
	Clinics           entities.ClinicCounts  `json:"clinics"`
	Payments          entities.PaymentTotals `json:"payments"`
}

// StaffDashboard is the landing view of secretaries and sub-admins
type StaffDashboard struct {
	Counts       entities.AppointmentCounts `json:"counts"`
	NewPatients  int                        `json:"newPatients"`
	Appointments []entities.Appointment     `json:"appointments"`
}

// DashboardService assembles the role dashboards from the other services
type DashboardService struct {
	appointments *AppointmentService
	clinics      *ClinicService
	payments     *PaymentService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(appointments *AppointmentService, clinics *ClinicService, payments *PaymentService) *DashboardService {
	return &DashboardService{
		appointments: appointments,
		clinics:      clinics,
		payments:     payments,
	}
}

// SuperAdmin returns clinic, appointment, patient and payment totals
func (s *DashboardService) SuperAdmin(ctx context.Context) (*SuperAdminDashboard, error) {
	clinicCounts, err := s.clinics.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	appointmentCounts, err := s.appointments.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.payments.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &SuperAdminDashboard{
		ClinicsCount:      clinicCounts.Total,
		AppointmentsToday: appointmentCounts.Today,
		UsersCount:        len(patientsOf(all)),
		Clinics:           *clinicCounts,
		Payments:          *totals,
	}, nil
}

// Staff returns today's counts and appointments, narrowed by patient name when query is set
func (s *DashboardService) Staff(ctx context.Context, query string) (*StaffDashboard, error) {
	counts, err := s.appointments.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	todays, err := s.appointments.Today(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]entities.Appointment, 0, len(todays))
	for _, a := range todays {
		if q == "" || containsFold(q, a.PatientName) {
			filtered = append(filtered, a)
		}
	}

	return &StaffDashboard{
		Counts:       *counts,
		NewPatients:  newPatientsOn(all, s.appointments.today()),
		Appointments: filtered,
	}, nil
}

// newPatientsOn counts patients whose earliest appointment falls on day
func newPatientsOn(appointments []entities.Appointment, day string) int {
	first := make(map[string]string)
	for _, a := range appointments {
		key := patientKey(a)
		if key == "" {
			continue
		}
		if d, ok := first[key]; !ok || a.Date < d {
			first[key] = a.Date
		}
	}
	count := 0
	for _, d := range first {
		if d == day {
			count++
		}
	}
	return count
}
