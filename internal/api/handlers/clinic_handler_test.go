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

type MockClinicService struct {
	mock.Mock
}

func (m *MockClinicService) clinicResult(args mock.Arguments) (*entities.Clinic, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clinic), args.Error(1)
}

func (m *MockClinicService) GetByID(ctx context.Context, id int) (*entities.Clinic, error) {
	return m.clinicResult(m.Called(ctx, id))
}

func (m *MockClinicService) Add(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	return m.clinicResult(m.Called(ctx, clinic))
}

func (m *MockClinicService) Register(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	return m.clinicResult(m.Called(ctx, clinic))
}

func (m *MockClinicService) Update(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	return m.clinicResult(m.Called(ctx, clinic))
}

func (m *MockClinicService) ChangeStatus(ctx context.Context, id int, status entities.ClinicStatus) (*entities.Clinic, error) {
	return m.clinicResult(m.Called(ctx, id, status))
}

func (m *MockClinicService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClinicService) CountsByStatus(ctx context.Context) (*entities.ClinicCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClinicCounts), args.Error(1)
}

func (m *MockClinicService) Filter(ctx context.Context, filter services.ClinicFilter) ([]entities.Clinic, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entities.Clinic), args.Error(1)
}

type MockClinicHoursService struct {
	mock.Mock
}

func (m *MockClinicHoursService) Get(ctx context.Context, clinicID int) ([]entities.ClinicHour, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).([]entities.ClinicHour), args.Error(1)
}

func (m *MockClinicHoursService) Save(ctx context.Context, clinicID int, hours []entities.ClinicHour) ([]entities.ClinicHour, error) {
	args := m.Called(ctx, clinicID, hours)
	return args.Get(0).([]entities.ClinicHour), args.Error(1)
}

func TestClinicHandler_ListClinics(t *testing.T) {
	mockService := new(MockClinicService)
	handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
	mockService.On("Filter", mock.Anything, services.ClinicFilter{Status: "pending", Query: "الشفاء"}).
		Return([]entities.Clinic{{ID: 3, Name: "عيادة الشفاء", Status: entities.ClinicStatusPending}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/clinics?status=pending&q=%D8%A7%D9%84%D8%B4%D9%81%D8%A7%D8%A1", nil)
	w := httptest.NewRecorder()
	handler.ListClinics(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []entities.Clinic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
	mockService.AssertExpectations(t)
}

func TestClinicHandler_RegisterClinic(t *testing.T) {
	t.Run("stores the remote id", func(t *testing.T) {
		mockService := new(MockClinicService)
		handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
		mockService.On("Register", mock.Anything, mock.MatchedBy(func(c entities.Clinic) bool {
			return c.Name == "عيادة النخبة"
		})).Return(&entities.Clinic{ID: 8, RemoteID: "r-77", Name: "عيادة النخبة", Status: entities.ClinicStatusPending}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/clinics/register", bytes.NewBufferString(`{"name":"عيادة النخبة"}`))
		w := httptest.NewRecorder()
		handler.RegisterClinic(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"remoteId":"r-77"`)
	})

	t.Run("remote failure maps to bad gateway", func(t *testing.T) {
		mockService := new(MockClinicService)
		handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
		mockService.On("Register", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewExternalError("لم يتم إضافة العيادة. الرجاء المحاولة مرة أخرى.", errors.New("503")))

		req := httptest.NewRequest(http.MethodPost, "/api/clinics/register", bytes.NewBufferString(`{"name":"x"}`))
		w := httptest.NewRecorder()
		handler.RegisterClinic(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "لم يتم إضافة العيادة")
	})
}

func TestClinicHandler_DeleteClinic(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		mockService := new(MockClinicService)
		handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
		mockService.On("Delete", mock.Anything, 2).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/clinics/2", nil)
		req.SetPathValue("id", "2")
		w := httptest.NewRecorder()
		handler.DeleteClinic(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockService := new(MockClinicService)
		handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
		mockService.On("Delete", mock.Anything, 99).Return(apperrors.NewNotFoundError("Clinic with ID 99 not found"))

		req := httptest.NewRequest(http.MethodDelete, "/api/clinics/99", nil)
		req.SetPathValue("id", "99")
		w := httptest.NewRecorder()
		handler.DeleteClinic(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClinicHandler_ChangeClinicStatus(t *testing.T) {
	mockService := new(MockClinicService)
	handler := handlers.NewClinicHandler(mockService, new(MockClinicHoursService))
	mockService.On("ChangeStatus", mock.Anything, 3, entities.ClinicStatusActive).
		Return(&entities.Clinic{ID: 3, Name: "عيادة الشفاء", Status: entities.ClinicStatusActive}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/clinics/3/status", bytes.NewBufferString(`{"status":"active"}`))
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()
	handler.ChangeClinicStatus(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPatch, "/api/clinics/3/status", bytes.NewBufferString(`{"status":"closed"}`))
	req.SetPathValue("id", "3")
	w = httptest.NewRecorder()
	handler.ChangeClinicStatus(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNumberOfCalls(t, "ChangeStatus", 1)
}

func TestClinicHandler_Hours(t *testing.T) {
	hoursService := new(MockClinicHoursService)
	handler := handlers.NewClinicHandler(new(MockClinicService), hoursService)

	week := []entities.ClinicHour{{Day: "السبت", OpenTime: "09:00", CloseTime: "17:00"}}
	hoursService.On("Get", mock.Anything, 1).Return(week, nil)
	hoursService.On("Save", mock.Anything, 1, week).Return(week, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/clinics/1/hours", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.GetHours(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(week)
	req = httptest.NewRequest(http.MethodPut, "/api/clinics/1/hours", bytes.NewBuffer(body))
	req.SetPathValue("id", "1")
	w = httptest.NewRecorder()
	handler.SaveHours(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	hoursService.AssertExpectations(t)
}
