package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mixdown/internal/shared"
)

func newTestClient(t *testing.T, handler http.Handler) (*SpotifyClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewSpotifyClient(context.Background(), SpotifyOpts{
		BaseURL:     srv.URL,
		Throttle:    time.Millisecond,
		HTTPClient:  srv.Client(),
		StaticToken: "test-token",
	})
	if err != nil {
		t.Fatalf("NewSpotifyClient failed: %v", err)
	}
	return client, srv
}

func TestNewSpotifyClient(t *testing.T) {
	t.Run("requires credentials without static token", func(t *testing.T) {
		_, err := NewSpotifyClient(context.Background(), SpotifyOpts{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("static token bypasses credential check", func(t *testing.T) {
		client, err := NewSpotifyClient(context.Background(), SpotifyOpts{StaticToken: "tok"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client == nil {
			t.Fatal("expected client to be created")
		}
	})
}

func TestSpotifyClientRequests(t *testing.T) {
	t.Run("SearchTracks", func(t *testing.T) {
		var gotAuth, gotQuery string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotQuery = r.URL.Query().Get("q")
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{
						{"id": "t1", "name": "Test Me", "uri": "spotify:track:t1", "popularity": 61},
					},
				},
			})
		}))

		tracks, err := client.SearchTracks(context.Background(), "The xx Test Me", 5)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t1" {
			t.Fatalf("unexpected tracks: %+v", tracks)
		}
		if gotAuth != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", gotAuth)
		}
		if gotQuery != "The xx Test Me" {
			t.Errorf("unexpected query %q", gotQuery)
		}
	})

	t.Run("Track not found maps to ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.Track(context.Background(), "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed payload maps to ErrMalformedResponse", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "{not json")
		}))

		_, err := client.Track(context.Background(), "t1")
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("AlbumTracks follows pagination", func(t *testing.T) {
		var srv *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/albums/a1/tracks", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("offset") == "1" {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{{"id": "t2", "name": "Two"}},
					"next":  nil,
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"id": "t1", "name": "One"}},
				"next":  srv.URL + "/albums/a1/tracks?offset=1",
			})
		})

		client, s := newTestClient(t, mux)
		srv = s

		tracks, err := client.AlbumTracks(context.Background(), "a1")
		if err != nil {
			t.Fatalf("AlbumTracks failed: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks across pages, got %d", len(tracks))
		}
		if tracks[0].ID != "t1" || tracks[1].ID != "t2" {
			t.Errorf("page order not preserved: %+v", tracks)
		}
	})

	t.Run("PlaylistTracks honors limit and skips empty entries", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"track": map[string]any{"id": "t1", "name": "One"}},
					{"track": map[string]any{"id": "", "name": "local file"}},
					{"track": map[string]any{"id": "t2", "name": "Two"}},
					{"track": map[string]any{"id": "t3", "name": "Three"}},
				},
				"next": nil,
			})
		}))

		tracks, err := client.PlaylistTracks(context.Background(), "p1", 0)
		if err != nil {
			t.Fatalf("PlaylistTracks failed: %v", err)
		}
		if len(tracks) != 3 {
			t.Fatalf("expected 3 usable tracks, got %d", len(tracks))
		}
	})

	t.Run("RelatedArtists", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"artists": []map[string]any{
					{"id": "a1", "name": "Beach House"},
					{"id": "a2", "name": "Warpaint"},
				},
			})
		}))

		artists, err := client.RelatedArtists(context.Background(), "seed")
		if err != nil {
			t.Fatalf("RelatedArtists failed: %v", err)
		}
		if len(artists) != 2 || artists[1].Name != "Warpaint" {
			t.Errorf("unexpected artists: %+v", artists)
		}
	})
}
