package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func newPrescriptionService(f *fixture) (*services.PrescriptionService, *services.NotificationService) {
	notifications := services.NewNotificationService(storage.NewNotificationStore(f.store), f.feedback)
	return services.NewPrescriptionService(
		storage.NewPrescriptionStore(f.store),
		storage.NewAppointmentStore(f.store),
		notifications,
		f.feedback,
	), notifications
}

func TestPrescriptionService_Patients(t *testing.T) {
	f := newFixture()
	svc, _ := newPrescriptionService(f)

	patients, err := svc.Patients(context.Background())
	require.NoError(t, err)

	// appointments 3 and 6 share a phone number
	assert.Len(t, patients, 5)
	assert.Equal(t, "0555123456", patients[0].ID)
	assert.Equal(t, "محمد علي", patients[0].Name)
	assert.Equal(t, "د. أحمد الخالد", patients[0].DoctorName)
}

func TestPrescriptionService_Issue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc, notifications := newPrescriptionService(f)

	issued, err := svc.Issue(ctx, services.PrescriptionRequest{
		PatientID:   "0555789012",
		Medications: []entities.Medication{{Name: "Amoxicillin", Dosage: "500mg", Instructions: "3x daily"}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, "2025-04-07", issued.Date)
	assert.Equal(t, "سارة العبدالله", issued.PatientName)
	assert.Equal(t, "عيادة الجلدية", issued.ClinicName)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	inbox, err := notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, entities.NotificationAppointment, inbox[0].Type)
	assert.False(t, inbox[0].Read)
}

func TestPrescriptionService_Issue_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc, _ := newPrescriptionService(f)

	tests := []struct {
		name string
		req  services.PrescriptionRequest
	}{
		{name: "no patient", req: services.PrescriptionRequest{Medications: []entities.Medication{{Name: "a", Dosage: "b"}}}},
		{name: "no medications", req: services.PrescriptionRequest{PatientID: "0555789012"}},
		{name: "missing dosage", req: services.PrescriptionRequest{PatientID: "0555789012", Medications: []entities.Medication{{Name: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Issue(ctx, tt.req)
			assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
		})
	}

	_, err := svc.Issue(ctx, services.PrescriptionRequest{
		PatientID:   "nobody",
		Medications: []entities.Medication{{Name: "a", Dosage: "b"}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, f.notifier.count())
}
