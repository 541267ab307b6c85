package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/api/handlers"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// MockAppointmentService defines the mock service
type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) GetByID(ctx context.Context, id int) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Add(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error) {
	args := m.Called(ctx, appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Update(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error) {
	args := m.Called(ctx, appointment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, id int) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ChangeStatus(ctx context.Context, id int, status entities.AppointmentStatus) (*entities.Appointment, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) AllowedTransitions(ctx context.Context, id int) ([]entities.AppointmentStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]entities.AppointmentStatus), args.Error(1)
}

func (m *MockAppointmentService) Today(ctx context.Context) ([]entities.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) CountsByStatus(ctx context.Context) (*entities.AppointmentCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AppointmentCounts), args.Error(1)
}

func (m *MockAppointmentService) Filter(ctx context.Context, filter services.AppointmentFilter) ([]entities.Appointment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entities.Appointment), args.Error(1)
}

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) SendReminders(ctx context.Context, date string) (*services.ReminderReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReminderReport), args.Error(1)
}

func sampleAppointment() entities.Appointment {
	return entities.Appointment{
		ID:          7,
		PatientName: "Ahmed Saleh",
		Date:        "2025-04-07",
		Time:        "09:30",
		Doctor:      "د. أحمد الخالد",
		Status:      entities.AppointmentStatusScheduled,
		ClinicName:  "عيادة الأسنان",
	}
}

func TestAppointmentHandler_ListAppointments(t *testing.T) {
	t.Run("passes tab and filters to the service", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		expected := services.AppointmentFilter{Tab: services.AppointmentTabToday, Query: "Ahmed", ClinicName: "عيادة الأسنان"}
		mockService.On("Filter", mock.Anything, expected).Return([]entities.Appointment{sampleAppointment()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/appointments?tab=today&q=Ahmed&clinic=%D8%B9%D9%8A%D8%A7%D8%AF%D8%A9%20%D8%A7%D9%84%D8%A3%D8%B3%D9%86%D8%A7%D9%86", nil)
		w := httptest.NewRecorder()
		handler.ListAppointments(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []entities.Appointment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, 7, got[0].ID)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown tab is a bad request", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)
		mockService.On("Filter", mock.Anything, mock.Anything).
			Return([]entities.Appointment(nil), apperrors.NewValidationError(`unknown tab "archive"`))

		req := httptest.NewRequest(http.MethodGet, "/api/appointments?tab=archive", nil)
		w := httptest.NewRecorder()
		handler.ListAppointments(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown tab")
	})
}

func TestAppointmentHandler_CreateAppointment(t *testing.T) {
	t.Run("creates appointment", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		in := sampleAppointment()
		in.ID = 0
		created := sampleAppointment()
		mockService.On("Add", mock.Anything, mock.MatchedBy(func(a entities.Appointment) bool {
			return a.PatientName == "Ahmed Saleh" && a.Time == "09:30"
		})).Return(&created, nil)

		body, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.CreateAppointment(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("returns bad request for invalid payload", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBufferString("invalid-json"))
		w := httptest.NewRecorder()
		handler.CreateAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("returns internal error on store failure", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)
		mockService.On("Add", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

		body, _ := json.Marshal(sampleAppointment())
		req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.CreateAppointment(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk full")
	})
}

func TestAppointmentHandler_UpdateAppointment(t *testing.T) {
	t.Run("path id overrides body id", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		updated := sampleAppointment()
		mockService.On("Update", mock.Anything, mock.MatchedBy(func(a entities.Appointment) bool {
			return a.ID == 7
		})).Return(&updated, nil)

		in := sampleAppointment()
		in.ID = 99
		body, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPut, "/api/appointments/7", bytes.NewBuffer(body))
		req.SetPathValue("id", "7")
		w := httptest.NewRecorder()
		handler.UpdateAppointment(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)
		mockService.On("Update", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewNotFoundError("Appointment with ID 42 not found"))

		body, _ := json.Marshal(sampleAppointment())
		req := httptest.NewRequest(http.MethodPut, "/api/appointments/42", bytes.NewBuffer(body))
		req.SetPathValue("id", "42")
		w := httptest.NewRecorder()
		handler.UpdateAppointment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Appointment with ID 42 not found")
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/appointments/abc", bytes.NewBufferString("{}"))
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()
		handler.UpdateAppointment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAppointmentHandler_ChangeAppointmentStatus(t *testing.T) {
	t.Run("changes status", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		updated := sampleAppointment()
		updated.Status = entities.AppointmentStatusCompleted
		mockService.On("ChangeStatus", mock.Anything, 7, entities.AppointmentStatusCompleted).Return(&updated, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/appointments/7/status", bytes.NewBufferString(`{"status":"completed"}`))
		req.SetPathValue("id", "7")
		w := httptest.NewRecorder()
		handler.ChangeAppointmentStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown status is rejected before the service", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/appointments/7/status", bytes.NewBufferString(`{"status":"done"}`))
		req.SetPathValue("id", "7")
		w := httptest.NewRecorder()
		handler.ChangeAppointmentStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("policy conflict maps to 409", func(t *testing.T) {
		mockService := new(MockAppointmentService)
		handler := handlers.NewAppointmentHandler(mockService, nil)
		mockService.On("ChangeStatus", mock.Anything, 3, entities.AppointmentStatusScheduled).
			Return(nil, apperrors.NewConflictError("cannot change status from completed to scheduled"))

		req := httptest.NewRequest(http.MethodPatch, "/api/appointments/3/status", bytes.NewBufferString(`{"status":"scheduled"}`))
		req.SetPathValue("id", "3")
		w := httptest.NewRecorder()
		handler.ChangeAppointmentStatus(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAppointmentHandler_CancelAndTransitions(t *testing.T) {
	mockService := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(mockService, nil)

	canceled := sampleAppointment()
	canceled.Status = entities.AppointmentStatusCanceled
	mockService.On("Cancel", mock.Anything, 7).Return(&canceled, nil)
	mockService.On("AllowedTransitions", mock.Anything, 1).Return([]entities.AppointmentStatus{
		entities.AppointmentStatusInProgress, entities.AppointmentStatusCanceled,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/7/cancel", nil)
	req.SetPathValue("id", "7")
	w := httptest.NewRecorder()
	handler.CancelAppointment(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"canceled"`)

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/1/transitions", nil)
	req.SetPathValue("id", "1")
	w = httptest.NewRecorder()
	handler.GetTransitions(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"transitions":["in-progress","canceled"]}`, w.Body.String())
}

func TestAppointmentHandler_GetCounts(t *testing.T) {
	mockService := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(mockService, nil)
	mockService.On("CountsByStatus", mock.Anything).Return(&entities.AppointmentCounts{
		Today: 3, Scheduled: 1, InProgress: 1, Completed: 1,
	}, nil)

	w := httptest.NewRecorder()
	handler.GetCounts(w, httptest.NewRequest(http.MethodGet, "/api/appointments/counts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"today":3,"scheduled":1,"inProgress":1,"completed":1,"canceled":0}`, w.Body.String())
}

func TestAppointmentHandler_SendReminders(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		handler := handlers.NewAppointmentHandler(new(MockAppointmentService), nil)

		w := httptest.NewRecorder()
		handler.SendReminders(w, httptest.NewRequest(http.MethodPost, "/api/appointments/reminders", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("empty body targets the default date", func(t *testing.T) {
		reminders := new(MockReminderService)
		handler := handlers.NewAppointmentHandler(new(MockAppointmentService), reminders)
		reminders.On("SendReminders", mock.Anything, "").Return(&services.ReminderReport{
			Date: "2025-04-08", Sent: []int{4, 5},
		}, nil)

		w := httptest.NewRecorder()
		handler.SendReminders(w, httptest.NewRequest(http.MethodPost, "/api/appointments/reminders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"sent":[4,5]`)
		reminders.AssertExpectations(t)
	})

	t.Run("explicit date", func(t *testing.T) {
		reminders := new(MockReminderService)
		handler := handlers.NewAppointmentHandler(new(MockAppointmentService), reminders)
		reminders.On("SendReminders", mock.Anything, "2025-04-07").Return(&services.ReminderReport{Date: "2025-04-07"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/appointments/reminders", bytes.NewBufferString(`{"date":"2025-04-07"}`))
		w := httptest.NewRecorder()
		handler.SendReminders(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		reminders.AssertExpectations(t)
	})
}
