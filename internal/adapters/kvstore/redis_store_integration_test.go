//go:build integration

package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	redisclient "github.com/zatekoja/clinicdesk/internal/infrastructure/clients/redis"
)

func newIntegrationRedis(t *testing.T) *redisclient.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	return redisclient.NewClientFromRedis(rdb)
}

func TestRedisStore_RoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	client := newIntegrationRedis(t)
	store := NewRedisStore(client, "clinicdesk-test:")
	defer store.Close()
	require.NoError(t, store.Clear(ctx))

	_, err := store.Get(ctx, "appointments")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "appointments", []byte(`[{"id":1}]`)))
	require.NoError(t, store.Set(ctx, "clinics", []byte(`[]`)))

	value, err := store.Get(ctx, "appointments")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(value))

	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx, "clinics")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)
}
