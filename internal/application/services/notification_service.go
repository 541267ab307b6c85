package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// NotificationService handles the signed-in user's notification list
type NotificationService struct {
	repo     repositories.NotificationRepository
	feedback Feedback
	mu       sync.Mutex
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repositories.NotificationRepository, feedback Feedback) *NotificationService {
	return &NotificationService{
		repo:     repo,
		feedback: feedback,
	}
}

// List returns notifications newest first
func (s *NotificationService) List(ctx context.Context) ([]entities.Notification, error) {
	return s.repo.GetAll(ctx)
}

// Add prepends a notification, assigning id and timestamp when missing
func (s *NotificationService) Add(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.feedback.clock().Now()
	}
	if n.Type == "" {
		n.Type = entities.NotificationSystem
	}
	if err := n.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items = append([]entities.Notification{n}, items...)
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}

	s.feedback.publish(ctx, entities.ChangeEntityNotification, entities.ChangeActionCreated, n.ID)
	return &n, nil
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].Read {
			return nil
		}
		items[i].Read = true
		if err := s.repo.SaveAll(ctx, items); err != nil {
			return err
		}
		s.feedback.publish(ctx, entities.ChangeEntityNotification, entities.ChangeActionUpdated, id)
		return nil
	}
	return apperrors.NewNotFoundError("Notification " + id + " not found")
}

// Clear removes every notification
func (s *NotificationService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveAll(ctx, nil); err != nil {
		return err
	}
	s.feedback.publish(ctx, entities.ChangeEntityNotification, entities.ChangeActionDeleted, "")
	return nil
}

// UnreadCount counts notifications not yet read
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range items {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
