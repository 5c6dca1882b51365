package loveracing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCalendarEvents(t *testing.T) {
	t.Run("posts the window and unwraps the envelope", func(t *testing.T) {
		var gotBody map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			inner := `[{"DayID":"4821","RaceDate":"/Date(1767225600000)/","Racecourse":"Te Rapa","Club":"Waikato RC"}]`
			json.NewEncoder(w).Encode(map[string]string{"d": inner})
		}))
		defer server.Close()

		events, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"start": "2026-01-01", "end": "2026-01-31"}, gotBody)
		require.Len(t, events, 1)
		assert.Equal(t, FlexString("4821"), events[0].DayID)
		assert.Equal(t, "Te Rapa", events[0].Racecourse)
	})

	t.Run("numeric day ids are accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner := `[{"DayID":4821,"RaceDate":"/Date(1767225600000)/","Racecourse":"Te Rapa"}]`
			json.NewEncoder(w).Encode(map[string]string{"d": inner})
		}))
		defer server.Close()

		events, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, FlexString("4821"), events[0].DayID)
	})

	t.Run("empty envelope yields no events", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"d": ""})
		}))
		defer server.Close()

		events, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		require.Error(t, err)
		var malformed *MalformedPayloadError
		assert.False(t, errors.As(err, &malformed))
	})

	t.Run("non-JSON body is a malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		var malformed *MalformedPayloadError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "response is not a JSON envelope", malformed.Reason)
	})

	t.Run("envelope holding a non-array string is a malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"d": "oops"})
		}))
		defer server.Close()

		_, err := NewClient(server.URL).FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		var malformed *MalformedPayloadError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "envelope body is not a JSON array", malformed.Reason)
	})

	t.Run("unreachable endpoint is a transport error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")

		_, err := client.FetchCalendarEvents(context.Background(), "2026-01-01", "2026-01-31")
		require.Error(t, err)
		var malformed *MalformedPayloadError
		assert.False(t, errors.As(err, &malformed))
	})
}
