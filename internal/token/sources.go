package token

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/httpx"
)

// GoogleTokenURL is the direct OAuth refresh-token exchange endpoint.
const GoogleTokenURL = "https://oauth2.googleapis.com/token"

// Proxy token responses do not carry expires_in; Google tokens live one hour.
const assumedTokenTTL = time.Hour

// BackendSource fetches a token from a local backend server that holds the
// refresh secret.
type BackendSource struct {
	BaseURL string
	HTTP    *http.Client
}

func (s *BackendSource) Name() string { return "backend" }

func (s *BackendSource) Fetch(ctx context.Context) (domain.AccessToken, error) {
	if s.BaseURL == "" {
		return domain.AccessToken{}, apierr.Configuration("backend: token", "BACKEND_URL")
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := httpx.DoJSON(ctx, s.HTTP, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet,
			strings.TrimRight(s.BaseURL, "/")+"/api/youtube/token", nil)
	}, &out, httpx.SingleAttempt())
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("backend: token request: %w", err)
	}
	if out.AccessToken == "" {
		return domain.AccessToken{}, fmt.Errorf("backend: token response missing access_token")
	}

	return domain.AccessToken{
		Value:  out.AccessToken,
		Expiry: time.Now().Add(assumedTokenTTL),
		Source: domain.TokenSourceBackend,
	}, nil
}

// OAuthSource exchanges a locally configured refresh token for an access
// token directly against Google. Development-only path: production setups
// keep the refresh secret behind one of the broker backends.
type OAuthSource struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string // defaults to GoogleTokenURL
	HTTP         *http.Client
}

func (s *OAuthSource) Name() string { return "oauth" }

func (s *OAuthSource) Fetch(ctx context.Context) (domain.AccessToken, error) {
	// Misconfiguration short-circuits to the next source without touching
	// the network.
	switch {
	case s.RefreshToken == "":
		return domain.AccessToken{}, apierr.Configuration("oauth: refresh", "YOUTUBE_REFRESH_TOKEN")
	case s.ClientID == "":
		return domain.AccessToken{}, apierr.Configuration("oauth: refresh", "GOOGLE_CLIENT_ID")
	case s.ClientSecret == "":
		return domain.AccessToken{}, apierr.Configuration("oauth: refresh", "GOOGLE_CLIENT_SECRET")
	}

	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = GoogleTokenURL
	}

	form := url.Values{
		"client_id":     {s.ClientID},
		"client_secret": {s.ClientSecret},
		"refresh_token": {s.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	err := httpx.DoJSON(ctx, s.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, &out, httpx.SingleAttempt())
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("oauth: token exchange: %w", err)
	}
	if out.AccessToken == "" {
		return domain.AccessToken{}, fmt.Errorf("oauth: token response missing access_token")
	}

	ttl := time.Duration(out.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = assumedTokenTTL
	}

	return domain.AccessToken{
		Value:  out.AccessToken,
		Expiry: time.Now().Add(ttl),
		Source: domain.TokenSourceOAuth,
	}, nil
}
