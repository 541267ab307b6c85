package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	tsclient "github.com/zatekoja/clinicdesk/internal/infrastructure/clients/typesense"
)

const clinicQueryBy = "name,doctor_name,specialization,address"

// TypesenseClinicIndex implements clinic full-text search using Typesense
type TypesenseClinicIndex struct {
	client *tsclient.Client
}

// Ensure TypesenseClinicIndex implements ClinicSearchIndex
var _ providers.ClinicSearchIndex = (*TypesenseClinicIndex)(nil)

// NewTypesenseClinicIndex creates a new Typesense clinic index
func NewTypesenseClinicIndex(client *tsclient.Client) *TypesenseClinicIndex {
	return &TypesenseClinicIndex{client: client}
}

// Index upserts a clinic document
func (a *TypesenseClinicIndex) Index(ctx context.Context, clinic *entities.Clinic) error {
	_, err := a.client.Client().Collection(tsclient.ClinicsCollection).Documents().Upsert(ctx, clinicDocument(clinic))
	if err != nil {
		return fmt.Errorf("failed to index clinic: %w", err)
	}
	return nil
}

// Remove deletes a clinic from the index
func (a *TypesenseClinicIndex) Remove(ctx context.Context, id int) error {
	_, err := a.client.Client().Collection(tsclient.ClinicsCollection).Document(strconv.Itoa(id)).Delete(ctx)
	if err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete clinic from index: %w", err)
	}
	return nil
}

// Search returns matching clinic ids, best match first
func (a *TypesenseClinicIndex) Search(ctx context.Context, query string, limit int) ([]int, error) {
	if limit <= 0 {
		limit = 10
	}
	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String(clinicQueryBy),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ClinicsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search clinics: %w", err)
	}
	if result.Hits == nil {
		return []int{}, nil
	}
	return clinicIDsFromHits(*result.Hits), nil
}

func clinicDocument(c *entities.Clinic) map[string]interface{} {
	return map[string]interface{}{
		"id":             strconv.Itoa(c.ID),
		"clinic_id":      c.ID,
		"name":           c.Name,
		"doctor_name":    c.DoctorName,
		"specialization": c.Specialization,
		"address":        c.Address,
		"status":         string(c.Status),
	}
}

// clinicIDsFromHits reads clinic_id from each hit, falling back to the string document id
func clinicIDsFromHits(hits []api.SearchResultHit) []int {
	ids := make([]int, 0, len(hits))
	for _, hit := range hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		switch v := doc["clinic_id"].(type) {
		case float64:
			ids = append(ids, int(v))
			continue
		case int:
			ids = append(ids, v)
			continue
		}
		if s, ok := doc["id"].(string); ok {
			if id, err := strconv.Atoi(s); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
