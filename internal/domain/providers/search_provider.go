package providers

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// ClinicSearchIndex defines the interface for an external clinic full-text index
type ClinicSearchIndex interface {
	// Index upserts a clinic document
	Index(ctx context.Context, clinic *entities.Clinic) error

	// Remove deletes a clinic document; removing an unknown id is not an error
	Remove(ctx context.Context, id int) error

	// Search returns the ids of matching clinics, best match first
	Search(ctx context.Context, query string, limit int) ([]int, error)
}
