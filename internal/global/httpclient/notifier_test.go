package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifierSignsBody(t *testing.T) {
	var gotBody []byte
	var gotSig, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature")
		gotType = r.Header.Get("X-Event-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(resty.New(), srv.URL, "s3cr3t")
	err := n.Notify(context.Background(), Event{
		Type:       "enrollment.created",
		OccurredAt: time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC),
		Data:       map[string]any{"enrollmentId": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "enrollment.created", gotType)
	assert.Equal(t, Sign("s3cr3t", gotBody), gotSig)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &ev))
	assert.Equal(t, "enrollment.created", ev["type"])
}

func TestWebhookNotifierReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(resty.New(), srv.URL, "")
	assert.Error(t, n.Notify(context.Background(), Event{Type: "x"}))
}
