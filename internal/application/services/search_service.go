package services

import (
	"context"
	"strings"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

const searchIndexLimit = 50

// SearchService runs the global search across clinics, appointments and prescriptions
type SearchService struct {
	clinics       repositories.ClinicRepository
	appointments  repositories.AppointmentRepository
	prescriptions repositories.PrescriptionRepository
	index         providers.ClinicSearchIndex
}

// NewSearchService creates a new search service. When index is set, clinic matches come from it.
func NewSearchService(
	clinics repositories.ClinicRepository,
	appointments repositories.AppointmentRepository,
	prescriptions repositories.PrescriptionRepository,
	index providers.ClinicSearchIndex,
) *SearchService {
	return &SearchService{
		clinics:       clinics,
		appointments:  appointments,
		prescriptions: prescriptions,
		index:         index,
	}
}

// PerformSearch returns clinics, then appointments, then prescriptions matching query.
// A blank query returns no results.
func (s *SearchService) PerformSearch(ctx context.Context, query string) (*entities.SearchResults, error) {
	results := &entities.SearchResults{Query: query, Results: []entities.SearchResult{}}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return results, nil
	}

	clinics, err := s.searchClinics(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range clinics {
		c := clinics[i]
		results.Results = append(results.Results, entities.SearchResult{
			Type:     entities.SearchResultClinic,
			ID:       entities.IntID(c.ID),
			Title:    c.Name,
			Subtitle: c.Specialization,
			Clinic:   &c,
		})
	}

	appointments, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		a := appointments[i]
		if !containsFold(q, a.PatientName, a.ClinicName, a.Doctor) {
			continue
		}
		results.Results = append(results.Results, entities.SearchResult{
			Type:        entities.SearchResultAppointment,
			ID:          entities.IntID(a.ID),
			Title:       a.PatientName,
			Subtitle:    a.Date + " " + a.Time,
			Appointment: &a,
		})
	}

	prescriptions, err := s.prescriptions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range prescriptions {
		p := prescriptions[i]
		if !prescriptionMatches(q, p) {
			continue
		}
		results.Results = append(results.Results, entities.SearchResult{
			Type:         entities.SearchResultPrescription,
			ID:           p.ID,
			Title:        p.PatientName,
			Subtitle:     p.Date,
			Prescription: &p,
		})
	}

	results.Total = len(results.Results)
	return results, nil
}

// searchClinics asks the index first and falls back to a substring scan when it fails
func (s *SearchService) searchClinics(ctx context.Context, q string) ([]entities.Clinic, error) {
	all, err := s.clinics.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, q, searchIndexLimit)
		if err == nil {
			byID := make(map[int]entities.Clinic, len(all))
			for _, c := range all {
				byID[c.ID] = c
			}
			out := make([]entities.Clinic, 0, len(ids))
			for _, id := range ids {
				if c, ok := byID[id]; ok {
					out = append(out, c)
				}
			}
			return out, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Clinic index search failed, scanning store")
	}

	out := make([]entities.Clinic, 0)
	for _, c := range all {
		if containsFold(q, c.Name, c.DoctorName, c.Specialization) {
			out = append(out, c)
		}
	}
	return out, nil
}

func prescriptionMatches(q string, p entities.Prescription) bool {
	if containsFold(q, p.PatientName, p.DoctorName) {
		return true
	}
	for _, m := range p.Medications {
		if containsFold(q, m.Name) {
			return true
		}
	}
	return false
}
