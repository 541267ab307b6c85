package handlers_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/adapters/events"
	"github.com/zatekoja/clinicdesk/internal/adapters/notify"
	"github.com/zatekoja/clinicdesk/internal/api/handlers"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

// readUntil scans SSE lines until one starts with prefix and returns it
func readUntil(t *testing.T, scanner *bufio.Scanner, prefix string) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Fatalf("stream ended before %q", prefix)
	return ""
}

func openStream(t *testing.T, ctx context.Context, url string) (*http.Response, *bufio.Scanner) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp, bufio.NewScanner(resp.Body)
}

func TestSSEHandler_StreamChanges(t *testing.T) {
	bus := events.NewMemoryEventBus()
	hub := notify.NewHub()
	handler := handlers.NewSSEHandler(bus, hub)
	server := httptest.NewServer(http.HandlerFunc(handler.StreamChanges))
	defer server.Close()

	t.Run("streams change events and toasts", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp, scanner := openStream(t, ctx, server.URL)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
		assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

		readUntil(t, scanner, "event: connected")
		assert.Equal(t, 1, handler.ActiveClients(providers.EventChannelChanges))

		event := entities.NewChangeEvent(entities.ChangeEntityClinic, entities.ChangeActionDeleted, "2", time.Now())
		require.NoError(t, bus.Publish(ctx, providers.EventChannelChanges, event))
		readUntil(t, scanner, "event: change")
		data := readUntil(t, scanner, "data: ")
		assert.Contains(t, data, `"entity":"clinic"`)
		assert.Contains(t, data, `"record_id":"2"`)

		hub.Notify(ctx, entities.Toast{Title: "تم الحذف بنجاح", Variant: entities.ToastDestructive})
		readUntil(t, scanner, "event: toast")
		data = readUntil(t, scanner, "data: ")
		assert.Contains(t, data, `"variant":"destructive"`)
	})

	t.Run("entity filter uses the entity channel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, scanner := openStream(t, ctx, server.URL+"?entity=appointment")
		data := readUntil(t, scanner, "data: ")
		assert.Contains(t, data, providers.GetEntityChannel(entities.ChangeEntityAppointment))

		event := entities.NewChangeEvent(entities.ChangeEntityAppointment, entities.ChangeActionCreated, "7", time.Now())
		require.NoError(t, bus.Publish(ctx, providers.GetEntityChannel(entities.ChangeEntityAppointment), event))
		readUntil(t, scanner, "event: change")
	})

	t.Run("unknown entity is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.StreamChanges(w, httptest.NewRequest(http.MethodGet, "/api/stream/changes?entity=invoices", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSSEHandler_Heartbeat(t *testing.T) {
	handler := handlers.NewSSEHandler(events.NewMemoryEventBus(), nil).WithHeartbeat(20 * time.Millisecond)
	server := httptest.NewServer(http.HandlerFunc(handler.StreamChanges))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, scanner := openStream(t, ctx, server.URL)
	readUntil(t, scanner, "event: connected")
	readUntil(t, scanner, "event: heartbeat")
}

func TestSSEHandler_ClientDisconnect(t *testing.T) {
	handler := handlers.NewSSEHandler(events.NewMemoryEventBus(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/stream/changes", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamChanges(w, req)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return handler.ActiveClients(providers.EventChannelChanges) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}
	assert.Equal(t, 0, handler.ActiveClients(providers.EventChannelChanges))
}
