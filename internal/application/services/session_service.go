package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	User      entities.User `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// PasswordChange is the change-password form
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionService handles the signed-in user, role switching and account forms
type SessionService struct {
	session   repositories.SessionRepository
	phone     repositories.DocumentRepository[string]
	auth      providers.Authenticator
	tokens    providers.TokenIssuer
	registrar providers.AccountRegistrar
	feedback  Feedback
}

// NewSessionService creates a new session service. A nil registrar accepts registrations locally.
func NewSessionService(
	session repositories.SessionRepository,
	phone repositories.DocumentRepository[string],
	auth providers.Authenticator,
	tokens providers.TokenIssuer,
	registrar providers.AccountRegistrar,
	feedback Feedback,
) *SessionService {
	return &SessionService{
		session:   session,
		phone:     phone,
		auth:      auth,
		tokens:    tokens,
		registrar: registrar,
		feedback:  feedback,
	}
}

// Login authenticates, persists the user and issues a session token.
// A pending role switch is cleared.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("الرجاء إدخال البريد الإلكتروني وكلمة المرور")
	}

	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.feedback.toast(ctx, entities.ToastDestructive, "فشل تسجيل الدخول", "البريد الإلكتروني أو كلمة المرور غير صحيحة")
		return nil, err
	}

	if err := s.session.Users.Save(ctx, *user); err != nil {
		return nil, err
	}
	if err := s.session.RequestedRole.Delete(ctx); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User signed in")
	s.feedback.toast(ctx, entities.ToastDefault, "تم تسجيل الدخول بنجاح", "مرحباً %s", user.Name)
	s.feedback.publish(ctx, entities.ChangeEntitySession, entities.ChangeActionCreated, user.ID)

	return &LoginResult{User: *user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout removes the session of userID. Logging out twice is not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.NewUnauthorizedError("not signed in")
	}
	if err := s.session.Users.Delete(ctx, userID); err != nil {
		return err
	}
	s.feedback.publish(ctx, entities.ChangeEntitySession, entities.ChangeActionDeleted, userID)
	return nil
}

// Current returns the signed-in user with userID
func (s *SessionService) Current(ctx context.Context, userID string) (*entities.User, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("not signed in")
	}
	user, found, err := s.session.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewUnauthorizedError("not signed in")
	}
	return &user, nil
}

// RequestedRole returns the role chosen before the last logout, if any
func (s *SessionService) RequestedRole(ctx context.Context) (entities.Role, bool, error) {
	return s.session.RequestedRole.Get(ctx)
}

// SwitchRole logs out so the user can sign in with another role. Choosing visitor just logs out;
// any other role is remembered for the login page.
func (s *SessionService) SwitchRole(ctx context.Context, userID string, role entities.Role) error {
	if !role.Valid() {
		return apperrors.NewValidationError("unknown role " + string(role))
	}
	if role != entities.RoleVisitor {
		if err := s.session.RequestedRole.Save(ctx, role); err != nil {
			return err
		}
	}
	return s.Logout(ctx, userID)
}

// UpdateProfile applies the non-nil fields to the signed-in user. Name and email must stay set.
func (s *SessionService) UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error) {
	user, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if user.Name == "" || user.Email == "" {
		return nil, apperrors.NewValidationError("الاسم والبريد الإلكتروني مطلوبان")
	}

	if err := s.session.Users.Save(ctx, *user); err != nil {
		return nil, err
	}
	if update.Phone != nil && s.phone != nil {
		if err := s.phone.Save(ctx, strings.TrimSpace(*update.Phone)); err != nil {
			return nil, err
		}
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم التحديث بنجاح", "تم تحديث الملف الشخصي بنجاح")
	s.feedback.publish(ctx, entities.ChangeEntitySession, entities.ChangeActionUpdated, user.ID)
	return user, nil
}

// Register validates a staff registration and submits it to the remote API when configured
func (s *SessionService) Register(ctx context.Context, reg entities.Registration) error {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" ||
		strings.TrimSpace(reg.Phone) == "" || reg.Password == "" {
		return apperrors.NewValidationError("الرجاء ملء جميع الحقول المطلوبة")
	}
	if reg.Password != reg.ConfirmPassword {
		return apperrors.NewValidationError("كلمات المرور غير متطابقة")
	}
	if reg.Role == "" {
		reg.Role = entities.RoleSecretary
	}
	if !reg.Role.Valid() || reg.Role == entities.RoleVisitor {
		return apperrors.NewValidationError("unknown role " + string(reg.Role))
	}

	if s.registrar != nil {
		if err := s.registrar.Register(ctx, &reg); err != nil {
			if !apperrors.Is(err, apperrors.ErrorTypeExternal) {
				err = apperrors.NewExternalError("فشل إنشاء الحساب", err)
			}
			s.feedback.toast(ctx, entities.ToastDestructive, "حدث خطأ", "%s", externalMessage(err))
			return err
		}
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم إنشاء الحساب بنجاح", "يمكنك الآن تسجيل الدخول")
	return nil
}

// ChangePassword verifies the current password and stores the new one when the authenticator
// supports it
func (s *SessionService) ChangePassword(ctx context.Context, userID string, change PasswordChange) error {
	if change.CurrentPassword == "" || change.NewPassword == "" || change.ConfirmPassword == "" {
		return apperrors.NewValidationError("الرجاء ملء جميع الحقول")
	}
	if change.NewPassword != change.ConfirmPassword {
		return apperrors.NewValidationError("كلمات المرور غير متطابقة")
	}

	user, err := s.Current(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.auth.Authenticate(ctx, user.Email, change.CurrentPassword); err != nil {
		return apperrors.NewUnauthorizedError("كلمة المرور الحالية غير صحيحة")
	}
	if changer, ok := s.auth.(providers.PasswordChanger); ok {
		if err := changer.ChangePassword(ctx, user.Email, change.NewPassword); err != nil {
			return err
		}
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم تغيير كلمة المرور", "تم تغيير كلمة المرور بنجاح")
	return nil
}
