package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// SettingsService handles notification and system settings and the store reset
type SettingsService struct {
	repo     repositories.SettingsRepository
	store    providers.KeyValueStore
	feedback Feedback
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repositories.SettingsRepository, store providers.KeyValueStore, feedback Feedback) *SettingsService {
	return &SettingsService{
		repo:     repo,
		store:    store,
		feedback: feedback,
	}
}

// NotificationSettings returns the saved toggles or the defaults
func (s *SettingsService) NotificationSettings(ctx context.Context) (*entities.NotificationSettings, error) {
	settings, found, err := s.repo.Notifications.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		settings = entities.DefaultNotificationSettings()
	}
	return &settings, nil
}

// SaveNotificationSettings overwrites the toggles
func (s *SettingsService) SaveNotificationSettings(ctx context.Context, settings entities.NotificationSettings) error {
	if err := s.repo.Notifications.Save(ctx, settings); err != nil {
		return err
	}
	s.feedback.toast(ctx, entities.ToastDefault, "تم حفظ الإعدادات", "تم حفظ إعدادات الإشعارات بنجاح")
	s.feedback.publish(ctx, entities.ChangeEntitySettings, entities.ChangeActionUpdated, "notifications")
	return nil
}

// SystemSettings returns the saved site settings or the defaults
func (s *SettingsService) SystemSettings(ctx context.Context) (*entities.SystemSettings, error) {
	settings, found, err := s.repo.System.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		settings = entities.DefaultSystemSettings()
	}
	return &settings, nil
}

// SaveSystemSettings validates and overwrites the site settings
func (s *SettingsService) SaveSystemSettings(ctx context.Context, settings entities.SystemSettings) error {
	if strings.TrimSpace(settings.SiteName) == "" {
		return apperrors.NewValidationError("اسم الموقع مطلوب")
	}
	if settings.ContactEmail != "" {
		if _, err := mail.ParseAddress(settings.ContactEmail); err != nil {
			return apperrors.NewValidationError("البريد الإلكتروني غير صالح")
		}
	}
	if err := s.repo.System.Save(ctx, settings); err != nil {
		return err
	}
	s.feedback.toast(ctx, entities.ToastDefault, "تم حفظ الإعدادات", "تم حفظ إعدادات النظام بنجاح")
	s.feedback.publish(ctx, entities.ChangeEntitySettings, entities.ChangeActionUpdated, "system")
	return nil
}

// UserPhone returns the saved phone of the signed-in user, or ""
func (s *SettingsService) UserPhone(ctx context.Context) (string, error) {
	phone, _, err := s.repo.UserPhone.Get(ctx)
	return phone, err
}

// SaveUserPhone overwrites the signed-in user's phone
func (s *SettingsService) SaveUserPhone(ctx context.Context, phone string) error {
	return s.repo.UserPhone.Save(ctx, strings.TrimSpace(phone))
}

// Reset clears every stored key; the next access reseeds the demo collections
func (s *SettingsService) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return apperrors.NewInternalError("failed to reset store", err)
	}
	s.feedback.toast(ctx, entities.ToastDestructive, "تمت إعادة التعيين", "تم مسح جميع البيانات المحفوظة")
	s.feedback.publish(ctx, entities.ChangeEntitySettings, entities.ChangeActionReset, "")
	return nil
}
