package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
)

const indexSyncTimeout = 5 * time.Second

// ClinicIndexSyncService keeps the clinic search index in step with the clinic store by
// listening for clinic change events
type ClinicIndexSyncService struct {
	clinics  repositories.ClinicRepository
	index    providers.ClinicSearchIndex
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewClinicIndexSyncService creates a new index sync service
func NewClinicIndexSyncService(clinics repositories.ClinicRepository, index providers.ClinicSearchIndex, eventBus providers.EventBus) *ClinicIndexSyncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ClinicIndexSyncService{
		clinics:  clinics,
		index:    index,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for clinic and reset events
func (s *ClinicIndexSyncService) Start() error {
	clinicEvents, err := s.eventBus.Subscribe(s.ctx, providers.GetEntityChannel(entities.ChangeEntityClinic))
	if err != nil {
		return fmt.Errorf("failed to subscribe to clinic changes: %w", err)
	}
	settingsEvents, err := s.eventBus.Subscribe(s.ctx, providers.GetEntityChannel(entities.ChangeEntitySettings))
	if err != nil {
		return fmt.Errorf("failed to subscribe to settings changes: %w", err)
	}

	go s.processEvents(clinicEvents, settingsEvents)
	log.Info().Msg("Clinic index sync service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *ClinicIndexSyncService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("Clinic index sync service stopped")
}

func (s *ClinicIndexSyncService) processEvents(clinicEvents, settingsEvents <-chan *entities.ChangeEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-clinicEvents:
			if !ok {
				return
			}
			s.handleClinicEvent(event)
		case event, ok := <-settingsEvents:
			if !ok {
				return
			}
			if event.Action == entities.ChangeActionReset {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := s.Reindex(ctx); err != nil {
					log.Warn().Err(err).Msg("Failed to reindex clinics after reset")
				}
				cancel()
			}
		}
	}
}

func (s *ClinicIndexSyncService) handleClinicEvent(event *entities.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), indexSyncTimeout)
	defer cancel()

	id, err := strconv.Atoi(event.RecordID)
	if err != nil {
		log.Warn().Str("record_id", event.RecordID).Msg("Ignoring clinic event without numeric id")
		return
	}

	if event.Action == entities.ChangeActionDeleted {
		if err := s.index.Remove(ctx, id); err != nil {
			log.Warn().Err(err).Int("clinic_id", id).Msg("Failed to remove clinic from index")
		}
		return
	}

	clinics, err := s.clinics.GetAll(ctx)
	if err != nil {
		log.Warn().Err(err).Int("clinic_id", id).Msg("Failed to load clinics for indexing")
		return
	}
	i := indexOfClinic(clinics, id)
	if i < 0 {
		return
	}
	if err := s.index.Index(ctx, &clinics[i]); err != nil {
		log.Warn().Err(err).Int("clinic_id", id).Msg("Failed to index clinic")
		return
	}
	log.Debug().Int("clinic_id", id).Str("action", string(event.Action)).Msg("Clinic indexed")
}

// Reindex pushes every stored clinic into the index and returns how many were indexed
func (s *ClinicIndexSyncService) Reindex(ctx context.Context) (int, error) {
	clinics, err := s.clinics.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	for i := range clinics {
		if err := s.index.Index(ctx, &clinics[i]); err != nil {
			return i, fmt.Errorf("failed to index clinic %d: %w", clinics[i].ID, err)
		}
	}
	log.Info().Int("count", len(clinics)).Msg("Clinic index rebuilt")
	return len(clinics), nil
}
