// Package cloudflare reads a Stream account's video library and exposes it as
// catalog courses. The account has no native course structure, so everything
// collapses into one synthetic course until entries start carrying course
// metadata.
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/httpx"
)

const (
	// DefaultBaseURL is the Cloudflare v4 API root.
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"

	// perPage is the Stream listing page size.
	perPage = 100
)

// StreamMeta holds the free-form metadata keys of a Stream entry. Course,
// Module and the module fields are read by the grouping logic but nothing
// uploads them yet.
type StreamMeta struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Course      string `json:"course"`
	Module      string `json:"module"`
	ModuleTitle string `json:"moduleTitle"`
	ModuleOrder string `json:"moduleOrder"`
	Order       string `json:"order"`
}

// StreamEntry is one video in the Stream library.
type StreamEntry struct {
	UID       string     `json:"uid"`
	Duration  float64    `json:"duration"` // seconds, fractional
	Thumbnail string     `json:"thumbnail"`
	Created   string     `json:"created"`
	Meta      StreamMeta `json:"meta"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type listResponse struct {
	Success    bool          `json:"success"`
	Errors     []apiMessage  `json:"errors"`
	Result     []StreamEntry `json:"result"`
	ResultInfo struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalPages int `json:"total_pages"`
		TotalCount int `json:"total_count"`
	} `json:"result_info"`
}

// Client lists the Stream library of one account.
type Client struct {
	BaseURL   string
	AccountID string
	Token     string

	// Subdomain is the customer playback subdomain, e.g.
	// "customer-xyz.cloudflarestream.com". Needed to build manifest URLs.
	Subdomain string

	HTTP *http.Client
	Log  *zap.Logger
}

func New(accountID, token, subdomain string, log *zap.Logger) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		AccountID: accountID,
		Token:     token,
		Subdomain: subdomain,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		Log:       log,
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

// checkConfig fails before any network call when the account is not fully
// configured. Unlike the token chain there is no fallback behind this client.
func (c *Client) checkConfig(op string) error {
	switch {
	case c.AccountID == "":
		return apierr.Configuration(op, "CLOUDFLARE_ACCOUNT_ID")
	case c.Token == "":
		return apierr.Configuration(op, "CLOUDFLARE_STREAM_TOKEN")
	case c.Subdomain == "":
		return apierr.Configuration(op, "CLOUDFLARE_STREAM_SUBDOMAIN")
	}
	return nil
}

// FetchAllEntries pages through the whole Stream library and returns every
// entry. Pages are requested sequentially until page >= total_pages.
func (c *Client) FetchAllEntries(ctx context.Context) ([]StreamEntry, error) {
	const op = "cloudflare: list stream entries"

	if err := c.checkConfig(op); err != nil {
		return nil, err
	}

	var entries []StreamEntry
	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, op, page)
		if err != nil {
			return nil, err
		}
		entries = append(entries, resp.Result...)
		c.logger().Debug("fetched stream page",
			zap.Int("page", page),
			zap.Int("entries", len(resp.Result)),
			zap.Int("total_pages", resp.ResultInfo.TotalPages))
		if page >= resp.ResultInfo.TotalPages {
			break
		}
	}
	return entries, nil
}

func (c *Client) fetchPage(ctx context.Context, op string, page int) (*listResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	endpoint := fmt.Sprintf("%s/accounts/%s/stream?%s",
		strings.TrimSuffix(c.BaseURL, "/"), c.AccountID, params.Encode())

	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	var resp listResponse
	if err := httpx.DoJSON(ctx, c.httpClient(), build, &resp, httpx.SingleAttempt()); err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return nil, apierr.FromStatus(op, herr.StatusCode, herr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.Success {
		msg := "request not successful"
		if len(resp.Errors) > 0 {
			msg = fmt.Sprintf("code %d: %s", resp.Errors[0].Code, resp.Errors[0].Message)
		}
		return nil, fmt.Errorf("%s: %s", op, msg)
	}
	return &resp, nil
}

// ManifestURL returns the HLS playback URL of an entry.
func (c *Client) ManifestURL(uid string) string {
	return fmt.Sprintf("https://%s/%s/manifest/video.m3u8", c.Subdomain, uid)
}

// ThumbnailURL returns the default thumbnail URL of an entry, preferring the
// one the API reported.
func (c *Client) ThumbnailURL(e StreamEntry) string {
	if e.Thumbnail != "" {
		return e.Thumbnail
	}
	return fmt.Sprintf("https://%s/%s/thumbnails/thumbnail.jpg", c.Subdomain, e.UID)
}
