package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy-catalog/internal/apierr"
)

func TestNewDefaults(t *testing.T) {
	c := New("acct", "tok", "sub", nil)
	if c.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", c.BaseURL)
	}
	if c.HTTP.Timeout != 10*time.Second {
		t.Errorf("Expected 10s default timeout, got %s", c.HTTP.Timeout)
	}
}

func newTestStreamClient(serverURL string) *Client {
	c := New("acct-1", "stream-token", "customer-xyz.cloudflarestream.com", nil)
	c.BaseURL = serverURL
	return c
}

func streamPage(uids []string, page, totalPages int) map[string]any {
	result := make([]map[string]any, 0, len(uids))
	for _, uid := range uids {
		result = append(result, map[string]any{
			"uid":      uid,
			"duration": 90.5,
			"meta":     map[string]any{"name": "Video " + uid},
		})
	}
	return map[string]any{
		"success": true,
		"result":  result,
		"result_info": map[string]any{
			"page":        page,
			"per_page":    100,
			"total_pages": totalPages,
		},
	}
}

func TestFetchAllEntriesPaginates(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/accounts/acct-1/stream" {
			t.Errorf("Expected stream listing path, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer stream-token" {
			t.Errorf("Expected bearer token header, got %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("Expected per_page 100, got %q", got)
		}
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(streamPage([]string{"uid-1", "uid-2"}, 1, 3))
		case "2":
			json.NewEncoder(w).Encode(streamPage([]string{"uid-3"}, 2, 3))
		case "3":
			json.NewEncoder(w).Encode(streamPage([]string{"uid-4"}, 3, 3))
		default:
			t.Fatalf("Unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := newTestStreamClient(server.URL)
	entries, err := client.FetchAllEntries(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 page requests, got %d", calls)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	if entries[0].UID != "uid-1" || entries[3].UID != "uid-4" {
		t.Errorf("Expected page order preserved, got %s ... %s", entries[0].UID, entries[3].UID)
	}
}

func TestFetchAllEntriesSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(streamPage([]string{"uid-1"}, 1, 1))
	}))
	defer server.Close()

	client := newTestStreamClient(server.URL)
	entries, err := client.FetchAllEntries(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
}

func TestFetchAllEntriesMissingConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		client *Client
	}{
		{"no account", New("", "tok", "sub", nil)},
		{"no token", New("acct", "", "sub", nil)},
		{"no subdomain", New("acct", "tok", "", nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.client.FetchAllEntries(context.Background())
			if !apierr.IsConfiguration(err) {
				t.Fatalf("Expected configuration error, got %v", err)
			}
		})
	}
}

func TestFetchAllEntriesAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestStreamClient(server.URL)
	_, err := client.FetchAllEntries(context.Background())
	if !apierr.IsAuth(err) {
		t.Fatalf("Expected auth error on 401, got %v", err)
	}
}

func TestFetchAllEntriesEnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"errors":[{"code":10000,"message":"authentication error"}],"result":[]}`)
	}))
	defer server.Close()

	client := newTestStreamClient(server.URL)
	_, err := client.FetchAllEntries(context.Background())
	if err == nil {
		t.Fatal("Expected error for success=false envelope")
	}
}

func TestPlaybackURLs(t *testing.T) {
	client := New("acct", "tok", "customer-xyz.cloudflarestream.com", nil)

	if got := client.ManifestURL("uid-1"); got != "https://customer-xyz.cloudflarestream.com/uid-1/manifest/video.m3u8" {
		t.Errorf("Unexpected manifest URL %s", got)
	}
	if got := client.ThumbnailURL(StreamEntry{UID: "uid-1"}); got != "https://customer-xyz.cloudflarestream.com/uid-1/thumbnails/thumbnail.jpg" {
		t.Errorf("Unexpected derived thumbnail URL %s", got)
	}
	if got := client.ThumbnailURL(StreamEntry{UID: "uid-1", Thumbnail: "https://cdn/thumb.jpg"}); got != "https://cdn/thumb.jpg" {
		t.Errorf("Expected reported thumbnail preferred, got %s", got)
	}
}
