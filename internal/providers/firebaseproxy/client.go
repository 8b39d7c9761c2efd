// Package firebaseproxy talks to the trusted Cloud Functions backend that
// fronts the YouTube Data API. It mirrors the direct client's capability set
// so the two are interchangeable behind the fallback combinator, and doubles
// as the preferred token source.
package firebaseproxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/httpx"
	"academy-catalog/internal/providers"
)

// assumedTokenTTL applies to proxy-issued tokens, which arrive without an
// expires_in field. Google access tokens live one hour.
const assumedTokenTTL = time.Hour

// Client calls the Cloud Functions endpoints. BaseURL empty means the proxy
// is not configured; every call then fails with a configuration error so the
// fallback chain moves to the direct client.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

func (c *Client) logger() *zap.Logger {
	if c.Log != nil {
		return c.Log
	}
	return zap.NewNop()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Configured reports whether a functions URL is set.
func (c *Client) Configured() bool { return c.BaseURL != "" }

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if !c.Configured() {
		return apierr.Configuration(op, "FIREBASE_FUNCTIONS_URL")
	}
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}
	if err := httpx.DoJSON(ctx, c.httpClient(), build, out, httpx.SingleAttempt()); err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return apierr.FromStatus(op, herr.StatusCode, herr)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// proxyPlaylist mirrors the Data API playlist resource shape the proxy
// forwards verbatim.
type proxyPlaylist struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnails  struct {
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		ItemCount int `json:"itemCount"`
	} `json:"contentDetails"`
}

func (p proxyPlaylist) info() providers.PlaylistInfo {
	thumb := p.Snippet.Thumbnails.High.URL
	if thumb == "" {
		thumb = p.Snippet.Thumbnails.Medium.URL
	}
	if thumb == "" {
		thumb = p.Snippet.Thumbnails.Default.URL
	}
	return providers.PlaylistInfo{
		ID:           p.ID,
		Title:        p.Snippet.Title,
		Description:  p.Snippet.Description,
		ChannelTitle: p.Snippet.ChannelTitle,
		Thumbnail:    thumb,
		ItemCount:    p.ContentDetails.ItemCount,
	}
}

type proxyVideo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Duration    int    `json:"duration"`
	Order       int    `json:"order"`
	Thumbnail   string `json:"thumbnail"`
}

// FetchChannelPlaylists lists the channel playlists through the proxy. The
// proxy uses its own credentials when channelID is empty, which includes
// unlisted playlists.
func (c *Client) FetchChannelPlaylists(ctx context.Context, channelID string) ([]providers.PlaylistInfo, error) {
	const op = "firebaseproxy: list channel playlists"

	params := url.Values{}
	if channelID != "" {
		params.Set("channelId", channelID)
	}
	var resp struct {
		Playlists []proxyPlaylist `json:"playlists"`
	}
	if err := c.get(ctx, op, "/getChannelPlaylists", params, &resp); err != nil {
		return nil, err
	}
	playlists := make([]providers.PlaylistInfo, 0, len(resp.Playlists))
	for _, p := range resp.Playlists {
		playlists = append(playlists, p.info())
	}
	return playlists, nil
}

// FetchPlaylistVideos returns the playlist videos already normalized by the
// proxy. IDs are namespaced here in case the proxy sends raw video ids.
func (c *Client) FetchPlaylistVideos(ctx context.Context, playlistID string) ([]domain.Video, error) {
	const op = "firebaseproxy: list playlist videos"

	params := url.Values{}
	params.Set("playlistId", playlistID)
	var resp struct {
		Videos []proxyVideo `json:"videos"`
	}
	if err := c.get(ctx, op, "/getPlaylistVideos", params, &resp); err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(resp.Videos))
	for i, v := range resp.Videos {
		id := v.ID
		if !strings.HasPrefix(id, "yt-") {
			id = "yt-" + id
		}
		order := v.Order
		if order == 0 {
			order = i + 1
		}
		videos = append(videos, domain.Video{
			ID:          id,
			Title:       v.Title,
			Description: v.Description,
			URL:         v.URL,
			Duration:    v.Duration,
			Order:       order,
			Thumbnail:   v.Thumbnail,
		})
	}
	return videos, nil
}

// FetchPlaylistInfo returns playlist metadata, or (nil, nil) when the proxy
// reports no such playlist.
func (c *Client) FetchPlaylistInfo(ctx context.Context, playlistID string) (*providers.PlaylistInfo, error) {
	const op = "firebaseproxy: playlist info"

	params := url.Values{}
	params.Set("playlistId", playlistID)
	var resp struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnail   string `json:"thumbnail"`
		VideoCount  int    `json:"videoCount"`
	}
	err := c.get(ctx, op, "/getPlaylistInfo", params, &resp)
	if apierr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Title == "" && resp.VideoCount == 0 {
		return nil, nil
	}
	return &providers.PlaylistInfo{
		ID:          playlistID,
		Title:       resp.Title,
		Description: resp.Description,
		Thumbnail:   resp.Thumbnail,
		ItemCount:   resp.VideoCount,
	}, nil
}

// FetchPlaylistByID resolves one playlist through the credentialed channel
// listing. The proxy has no per-id endpoint; unlisted playlists of the
// proxy's own channel resolve this way.
func (c *Client) FetchPlaylistByID(ctx context.Context, playlistID string) (*providers.PlaylistInfo, error) {
	playlists, err := c.FetchChannelPlaylists(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if p.ID == playlistID {
			return &p, nil
		}
	}
	c.logger().Warn("playlist not in the proxy channel listing",
		zap.String("playlist_id", playlistID))
	return nil, nil
}

// Name implements the token source interface.
func (c *Client) Name() string { return "firebase" }

// Fetch obtains a YouTube access token from the proxy. The response carries
// no expiry, so a one hour lifetime is assumed.
func (c *Client) Fetch(ctx context.Context) (domain.AccessToken, error) {
	const op = "firebaseproxy: access token"

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.get(ctx, op, "/getYouTubeToken", nil, &resp); err != nil {
		return domain.AccessToken{}, err
	}
	if resp.AccessToken == "" {
		return domain.AccessToken{}, fmt.Errorf("%s: empty access_token in response", op)
	}
	return domain.AccessToken{
		Value:  resp.AccessToken,
		Expiry: time.Now().Add(assumedTokenTTL),
		Source: domain.TokenSourceFirebase,
	}, nil
}
