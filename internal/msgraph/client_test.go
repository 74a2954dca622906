package msgraph_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/trivial-timesheet/internal/logging"
	"github.com/Tiliavir/trivial-timesheet/internal/msgraph"
)

func TestGetCalendarView_FollowsNextLink(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `outlook.timezone="Europe/Berlin"`, r.Header.Get("Prefer"))
		body := map[string]any{}
		if r.URL.Query().Get("page") == "" {
			assert.Equal(t, "/me/calendarView", r.URL.Path)
			assert.Equal(t, "2026-02-27T00:00:00Z", r.URL.Query().Get("startDateTime"))
			body["value"] = []msgraph.CalendarEvent{makeEvent("a", "First", "2026-02-27T09:00:00", "2026-02-27T10:00:00")}
			body["@odata.nextLink"] = srv.URL + "/me/calendarView?page=2"
		} else {
			body["value"] = []msgraph.CalendarEvent{makeEvent("b", "Second", "2026-02-27T11:00:00", "2026-02-27T12:00:00")}
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := client.GetCalendarView(context.Background(), from, from.Add(24*time.Hour), "Europe/Berlin")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Subject)
	assert.Equal(t, "Second", events[1].Subject)
}

func TestGetCalendarView_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := msgraph.NewClientWithHTTP(srv.Client(), srv.URL)
	_, err := client.GetCalendarView(context.Background(), time.Now(), time.Now(), "")
	assert.ErrorContains(t, err, "graph API error 401")
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store := msgraph.NewTokenStore(t.TempDir())

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)

	want := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", Expiry: time.Now().Add(time.Hour).Round(time.Second)}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", got.AccessToken)
	assert.Equal(t, "def", got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))
}

func TestAuthenticate_UsesValidSavedToken(t *testing.T) {
	store := msgraph.NewTokenStore(t.TempDir())
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "saved", Expiry: time.Now().Add(time.Hour)}))

	cfg := msgraph.OAuth2Config("common", "client")
	tok, err := msgraph.Authenticate(context.Background(), cfg, store, nil, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "saved", tok.AccessToken)
}
