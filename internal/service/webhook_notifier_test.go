package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"context-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(url string) *WebhookNotifier {
	n := NewWebhookNotifier(url, nil, NewMockLogger())
	n.wait = time.Millisecond
	return n
}

func TestWebhookNotifier_Payload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).NotifyStatus(context.Background(), "ds1", domain.DatasetStatusReady)
	require.NoError(t, err)

	assert.Equal(t, float64(0), got["status"])
	data := got["data"].(map[string]interface{})
	assert.Equal(t, "ds1", data["api_dataset_id"])
	assert.Equal(t, float64(0), data["status"])
}

func TestWebhookNotifier_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).NotifyStatus(context.Background(), "ds1", domain.DatasetStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookNotifier_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).NotifyStatus(context.Background(), "ds1", domain.DatasetStatusReady)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(webhookAttempts), atomic.LoadInt32(&calls))
}
