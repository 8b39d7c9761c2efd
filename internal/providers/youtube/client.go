// Package youtube talks to the YouTube Data API v3 and exposes channel
// playlists as courses. Calls authenticate with an OAuth bearer token when the
// broker can produce one, otherwise with the public API key.
package youtube

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
	"academy-catalog/internal/normalize"
	"academy-catalog/internal/providers"
	"academy-catalog/internal/token"
)

const (
	// DefaultBaseURL is the Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// pageSize is the API maximum for list endpoints.
	pageSize = "50"
)

// Client is a thin Data API v3 client. Broker is optional; without it every
// call falls back to API-key auth.
type Client struct {
	BaseURL string
	APIKey  string
	Broker  *token.Broker

	// UnlistedPlaylistIDs are playlists that key-based channel listings omit.
	// They are fetched individually and merged into the channel results.
	UnlistedPlaylistIDs []string

	HTTP *http.Client
	Log  *zap.Logger
}

// New returns a Client against the public API endpoint.
func New(apiKey string, broker *token.Broker, log *zap.Logger) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		Broker:  broker,
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

// bearer returns the brokered access token, or "" when none is available.
func (c *Client) bearer(ctx context.Context) string {
	if c.Broker == nil {
		return ""
	}
	tok, ok := c.Broker.Token(ctx)
	if !ok {
		return ""
	}
	return tok.Value
}

// get performs a single-attempt GET and maps HTTP failures onto the error
// taxonomy. Transient failures are not retried here; the caller's fallback
// chain decides what happens next.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, bearer string, out any) error {
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + path + "?" + params.Encode()
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
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

// FetchChannelPlaylists lists every playlist of the channel, following page
// tokens until exhaustion. With a bearer token it lists the authenticated
// channel's playlists, which includes unlisted ones; with an API key it lists
// the public playlists of channelID and merges the registered unlisted
// playlists on top.
func (c *Client) FetchChannelPlaylists(ctx context.Context, channelID string) ([]providers.PlaylistInfo, error) {
	const op = "youtube: list channel playlists"

	bearer := c.bearer(ctx)
	if bearer == "" {
		if c.APIKey == "" {
			return nil, apierr.Configuration(op, "YOUTUBE_API_KEY")
		}
		if channelID == "" {
			return nil, apierr.Configuration(op, "YOUTUBE_CHANNEL_ID")
		}
	}

	var playlists []providers.PlaylistInfo
	seen := make(map[string]bool)
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("maxResults", pageSize)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		if bearer != "" {
			params.Set("mine", "true")
		} else {
			params.Set("channelId", channelID)
			params.Set("key", c.APIKey)
		}

		var resp playlistListResponse
		if err := c.get(ctx, op, "/playlists", params, bearer, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			playlists = append(playlists, toPlaylistInfo(item))
			seen[item.ID] = true
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	for _, id := range c.UnlistedPlaylistIDs {
		if id == "" || seen[id] {
			continue
		}
		info, err := c.FetchPlaylistByID(ctx, id)
		if err != nil {
			c.logger().Warn("unlisted playlist lookup failed",
				zap.String("playlist_id", id),
				zap.Error(err))
			continue
		}
		if info == nil {
			continue
		}
		playlists = append(playlists, *info)
		seen[id] = true
	}
	return playlists, nil
}

// FetchPlaylistVideos returns the playable videos of a playlist in playlist
// order. Durations come from a batched /videos lookup; items whose detail is
// missing (deleted or private videos) are dropped.
func (c *Client) FetchPlaylistVideos(ctx context.Context, playlistID string) ([]domain.Video, error) {
	const op = "youtube: list playlist videos"

	bearer := c.bearer(ctx)
	if bearer == "" && c.APIKey == "" {
		return nil, apierr.Configuration(op, "YOUTUBE_API_KEY")
	}

	var videos []domain.Video
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("maxResults", pageSize)
		params.Set("playlistId", playlistID)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		if bearer == "" {
			params.Set("key", c.APIKey)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, op, "/playlistItems", params, bearer, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}

		details, err := c.fetchVideoDetails(ctx, bearer, resp.Items)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			videoID := item.ContentDetails.VideoID
			if videoID == "" {
				continue
			}
			detail, ok := details[videoID]
			if !ok {
				c.logger().Debug("skipping playlist item without video detail",
					zap.String("video_id", videoID))
				continue
			}
			videos = append(videos, domain.Video{
				ID:          "yt-" + videoID,
				Title:       firstNonEmpty(item.Snippet.Title, detail.Snippet.Title, "Untitled video"),
				Description: firstNonEmpty(item.Snippet.Description, detail.Snippet.Description),
				URL:         "https://www.youtube.com/watch?v=" + videoID,
				Duration:    normalize.ParseISODuration(detail.ContentDetails.Duration),
				Order:       int(item.Snippet.Position) + 1,
				Thumbnail:   firstNonEmpty(item.Snippet.Thumbnails.best(), detail.Snippet.Thumbnails.best()),
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return videos, nil
}

// fetchVideoDetails batches a /videos lookup for the given playlist items and
// indexes the results by video id.
func (c *Client) fetchVideoDetails(ctx context.Context, bearer string, items []playlistItemResource) (map[string]videoResource, error) {
	const op = "youtube: video details"

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ContentDetails.VideoID != "" {
			ids = append(ids, item.ContentDetails.VideoID)
		}
	}
	if len(ids) == 0 {
		return map[string]videoResource{}, nil
	}

	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("id", strings.Join(ids, ","))
	if bearer == "" {
		params.Set("key", c.APIKey)
	}

	var resp videoListResponse
	if err := c.get(ctx, op, "/videos", params, bearer, &resp); err != nil {
		return nil, err
	}
	details := make(map[string]videoResource, len(resp.Items))
	for _, v := range resp.Items {
		details[v.ID] = v
	}
	return details, nil
}

// FetchPlaylistInfo returns playlist metadata, or (nil, nil) when the API
// reports no such playlist.
func (c *Client) FetchPlaylistInfo(ctx context.Context, playlistID string) (*providers.PlaylistInfo, error) {
	return c.FetchPlaylistByID(ctx, playlistID)
}

// FetchPlaylistByID looks up a single playlist regardless of channel
// membership. Unlisted playlists resolve here even when channel listings
// omit them.
func (c *Client) FetchPlaylistByID(ctx context.Context, playlistID string) (*providers.PlaylistInfo, error) {
	const op = "youtube: playlist lookup"

	bearer := c.bearer(ctx)
	if bearer == "" && c.APIKey == "" {
		return nil, apierr.Configuration(op, "YOUTUBE_API_KEY")
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", playlistID)
	if bearer == "" {
		params.Set("key", c.APIKey)
	}

	var resp playlistListResponse
	if err := c.get(ctx, op, "/playlists", params, bearer, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	info := toPlaylistInfo(resp.Items[0])
	return &info, nil
}

func toPlaylistInfo(item playlistResource) providers.PlaylistInfo {
	return providers.PlaylistInfo{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		Thumbnail:    item.Snippet.Thumbnails.best(),
		ItemCount:    item.ContentDetails.ItemCount,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
