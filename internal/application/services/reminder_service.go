package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

const defaultReminderBody = "مرحباً {{patient_name}}، نذكرك بموعدك في {{clinic_name}} مع {{doctor}} يوم {{date}} الساعة {{time}}."

// ReminderContext contains all data needed to render a reminder
type ReminderContext struct {
	AppointmentID int
	PatientName   string
	PatientPhone  string
	ClinicName    string
	Doctor        string
	Date          string
	Time          string
	Notes         string
}

// ReminderFailure records one reminder that could not be delivered
type ReminderFailure struct {
	AppointmentID int    `json:"appointmentId"`
	Error         string `json:"error"`
}

// ReminderReport summarises one reminder run
type ReminderReport struct {
	Date     string            `json:"date"`
	Disabled bool              `json:"disabled,omitempty"`
	Sent     []int             `json:"sent"`
	Skipped  []int             `json:"skipped"`
	Failed   []ReminderFailure `json:"failed"`
}

// ReminderOptions configures the message format
type ReminderOptions struct {
	// TemplateName selects an approved WhatsApp template; free text is sent when empty
	TemplateName string
	Language     string
	// Body is the free text body with {{placeholders}}
	Body string
}

// ReminderService sends appointment reminders to patients
type ReminderService struct {
	appointments repositories.AppointmentRepository
	settings     repositories.DocumentRepository[entities.NotificationSettings]
	sender       providers.ReminderSender
	options      ReminderOptions
	feedback     Feedback
}

// NewReminderService creates a new reminder service
func NewReminderService(
	appointments repositories.AppointmentRepository,
	settings repositories.DocumentRepository[entities.NotificationSettings],
	sender providers.ReminderSender,
	options ReminderOptions,
	feedback Feedback,
) *ReminderService {
	if options.Body == "" {
		options.Body = defaultReminderBody
	}
	if options.Language == "" {
		options.Language = "ar"
	}
	return &ReminderService{
		appointments: appointments,
		settings:     settings,
		sender:       sender,
		options:      options,
		feedback:     feedback,
	}
}

// SendReminders messages every scheduled patient with an appointment on date. An empty date
// means tomorrow. Nothing is sent when appointment reminders are switched off.
func (s *ReminderService) SendReminders(ctx context.Context, date string) (*ReminderReport, error) {
	if date == "" {
		date = entities.DateOf(s.feedback.clock().Now().Add(24 * time.Hour))
	}
	if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("date %q must be YYYY-MM-DD", date))
	}

	report := &ReminderReport{Date: date, Sent: []int{}, Skipped: []int{}, Failed: []ReminderFailure{}}

	enabled, err := s.enabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		report.Disabled = true
		return report, nil
	}

	appointments, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	for _, a := range appointments {
		if a.Date != date || a.Status != entities.AppointmentStatusScheduled {
			continue
		}
		if strings.TrimSpace(a.PatientPhone) == "" {
			report.Skipped = append(report.Skipped, a.ID)
			continue
		}

		messageID, err := s.send(ctx, reminderContextOf(a))
		if err != nil {
			logger.Warn().Err(err).Int("appointment_id", a.ID).Msg("Failed to send reminder")
			report.Failed = append(report.Failed, ReminderFailure{AppointmentID: a.ID, Error: err.Error()})
			continue
		}
		logger.Debug().Int("appointment_id", a.ID).Str("message_id", messageID).Msg("Reminder sent")
		report.Sent = append(report.Sent, a.ID)
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم إرسال التذكيرات", "تم إرسال %d تذكير", len(report.Sent))
	return report, nil
}

func (s *ReminderService) enabled(ctx context.Context) (bool, error) {
	if s.sender == nil {
		return false, nil
	}
	settings, found, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}
	if !found {
		return entities.DefaultNotificationSettings().AppointmentReminders, nil
	}
	return settings.AppointmentReminders, nil
}

func (s *ReminderService) send(ctx context.Context, rc *ReminderContext) (string, error) {
	if s.options.TemplateName != "" {
		return s.sender.SendTemplate(ctx, rc.PatientPhone, s.options.TemplateName, s.options.Language, templateParameters(rc))
	}
	return s.sender.SendText(ctx, rc.PatientPhone, renderReminder(s.options.Body, rc))
}

func reminderContextOf(a entities.Appointment) *ReminderContext {
	return &ReminderContext{
		AppointmentID: a.ID,
		PatientName:   a.PatientName,
		PatientPhone:  a.PatientPhone,
		ClinicName:    a.ClinicName,
		Doctor:        a.Doctor,
		Date:          a.Date,
		Time:          a.Time,
		Notes:         a.Notes,
	}
}

// renderReminder replaces placeholders in body
func renderReminder(body string, rc *ReminderContext) string {
	return strings.NewReplacer(
		"{{patient_name}}", rc.PatientName,
		"{{clinic_name}}", rc.ClinicName,
		"{{doctor}}", rc.Doctor,
		"{{date}}", rc.Date,
		"{{time}}", rc.Time,
		"{{notes}}", rc.Notes,
	).Replace(body)
}

// templateParameters lists the body parameters of the approved template in order
func templateParameters(rc *ReminderContext) []string {
	params := []string{rc.PatientName, rc.Date, rc.Time, rc.ClinicName}
	if rc.Doctor != "" {
		params = append(params, rc.Doctor)
	}
	return params
}
