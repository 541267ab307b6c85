package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

func TestClinicIndexSyncService(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	clinicStore := storage.NewClinicStore(f.store)

	indexed := make(chan int, 10)
	removed := make(chan int, 10)
	index := new(MockClinicSearchIndex)
	index.On("Index", mock.Anything, mock.AnythingOfType("*entities.Clinic")).
		Run(func(args mock.Arguments) { indexed <- args.Get(1).(*entities.Clinic).ID }).
		Return(nil)
	index.On("Remove", mock.Anything, mock.AnythingOfType("int")).
		Run(func(args mock.Arguments) { removed <- args.Int(1) }).
		Return(nil)

	sync := services.NewClinicIndexSyncService(clinicStore, index, f.bus)
	require.NoError(t, sync.Start())
	defer sync.Stop()

	clinics := services.NewClinicService(clinicStore, nil, f.feedback)

	_, err := clinics.ChangeStatus(ctx, 3, entities.ClinicStatusActive)
	require.NoError(t, err)
	select {
	case id := <-indexed:
		assert.Equal(t, 3, id)
	case <-time.After(2 * time.Second):
		t.Fatal("clinic was not indexed")
	}

	require.NoError(t, clinics.Delete(ctx, 4))
	select {
	case id := <-removed:
		assert.Equal(t, 4, id)
	case <-time.After(2 * time.Second):
		t.Fatal("clinic was not removed from the index")
	}
}

func TestClinicIndexSyncService_Reindex(t *testing.T) {
	f := newFixture()
	index := new(MockClinicSearchIndex)
	index.On("Index", mock.Anything, mock.Anything).Return(nil)

	sync := services.NewClinicIndexSyncService(storage.NewClinicStore(f.store), index, f.bus)
	count, err := sync.Reindex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, count)
	index.AssertNumberOfCalls(t, "Index", 7)
}
