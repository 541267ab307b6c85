package notify

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

func TestMulti(t *testing.T) {
	var got []string
	record := func(name string) providers.Notifier {
		return providers.NotifierFunc(func(_ context.Context, toast entities.Toast) {
			got = append(got, name+":"+toast.Title)
		})
	}

	Multi(record("a"), nil, record("b")).Notify(context.Background(), entities.Toast{Title: "saved"})
	assert.Equal(t, []string{"a:saved", "b:saved"}, got)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	LogNotifier{}.Notify(context.Background(), entities.Toast{
		Title: "تم الحذف بنجاح", Description: "تم حذف عيادة الرحمة بنجاح", Variant: entities.ToastDestructive,
	})

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "تم حذف عيادة الرحمة بنجاح")
}

func TestHub(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	sub := hub.Subscribe(ctx)
	assert.Equal(t, 1, hub.Subscribers())

	hub.Notify(context.Background(), entities.Toast{Title: "hello"})
	select {
	case toast := <-sub:
		assert.Equal(t, "hello", toast.Title)
	case <-time.After(time.Second):
		t.Fatal("toast not delivered")
	}

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-sub
	assert.False(t, open)
}
