package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func TestPaymentService(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := services.NewPaymentService(storage.NewPaymentStore(f.store))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	totals, err := svc.Totals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1450.0, totals.Completed, 0.001)
	assert.InDelta(t, 275.0, totals.Pending, 0.001)

	completed, err := svc.Filter(ctx, "completed", "")
	require.NoError(t, err)
	assert.Len(t, completed, 3)

	byName, err := svc.Filter(ctx, "all", "محمد")
	require.NoError(t, err)
	assert.Len(t, byName, 3)

	byClinic, err := svc.Filter(ctx, "", "عيادة الشفاء")
	require.NoError(t, err)
	require.Len(t, byClinic, 1)
	assert.Equal(t, 2, byClinic[0].ID)

	_, err = svc.Filter(ctx, "refunded", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}
