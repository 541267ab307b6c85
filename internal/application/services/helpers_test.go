package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/clinicdesk/internal/adapters/events"
	"github.com/zatekoja/clinicdesk/internal/adapters/kvstore"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

var demoToday = time.Date(2025, time.April, 7, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []entities.Toast
}

func (n *recordingNotifier) Notify(_ context.Context, toast entities.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast)
}

func (n *recordingNotifier) last() entities.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return entities.Toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.toasts)
}

type fixture struct {
	store    *kvstore.MemoryStore
	bus      providers.EventBus
	notifier *recordingNotifier
	feedback services.Feedback
}

func newFixture() *fixture {
	notifier := &recordingNotifier{}
	bus := events.NewMemoryEventBus()
	return &fixture{
		store:    kvstore.NewMemoryStore(""),
		bus:      bus,
		notifier: notifier,
		feedback: services.Feedback{
			Notifier: notifier,
			Events:   bus,
			Clock:    providers.FixedClock{At: demoToday},
		},
	}
}

// MockAppointmentRepository is a testify mock of the appointment collection
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) GetAll(ctx context.Context) ([]entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) SaveAll(ctx context.Context, items []entities.Appointment) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// MockClinicRegistry is a testify mock of the remote clinic registry
type MockClinicRegistry struct {
	mock.Mock
}

func (m *MockClinicRegistry) Register(ctx context.Context, clinic *entities.Clinic) (string, error) {
	args := m.Called(ctx, clinic)
	return args.String(0), args.Error(1)
}

// MockAuthenticator is a testify mock of the credential check
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// MockTokenIssuer is a testify mock of the session token signer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *entities.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenIssuer) Verify(token string) (*providers.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.TokenClaims), args.Error(1)
}

// MockReminderSender is a testify mock of the patient messaging channel
type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) SendTemplate(ctx context.Context, to, templateName, languageCode string, parameters []string) (string, error) {
	args := m.Called(ctx, to, templateName, languageCode, parameters)
	return args.String(0), args.Error(1)
}

func (m *MockReminderSender) SendText(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

// MockClinicSearchIndex is a testify mock of the clinic full-text index
type MockClinicSearchIndex struct {
	mock.Mock
}

func (m *MockClinicSearchIndex) Index(ctx context.Context, clinic *entities.Clinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *MockClinicSearchIndex) Remove(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClinicSearchIndex) Search(ctx context.Context, query string, limit int) ([]int, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
