package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Environment: "development" or "production". In development the local
	// Firebase Functions URL wins unless FIREBASE_USE_PRODUCTION forces the
	// production one.
	Env string

	// HTTPTimeout bounds every external call.
	HTTPTimeout time.Duration

	// YouTube
	YouTubeAPIKey       string
	YouTubeChannelID    string
	GoogleClientID      string
	GoogleClientSecret  string
	YouTubeRefreshToken string
	// UnlistedPlaylistIDs are manually registered playlists merged into the
	// channel listing when they are not returned by it.
	UnlistedPlaylistIDs []string

	// Token / proxy backends
	FirebaseFunctionsURL string // resolved, empty when not configured
	BackendURL           string

	// Cloudflare Stream
	CloudflareAccountID       string
	CloudflareStreamToken     string
	CloudflareStreamSubdomain string

	// SFTP delivery of catalog exports
	SFTPHost      string
	SFTPPort      int
	SFTPUser      string
	SFTPPass      string
	SFTPRemoteDir string
}

func Load() Config {
	env := getenv("APP_ENV", "production")

	return Config{
		Env:         env,
		HTTPTimeout: time.Duration(getenvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		// YouTube
		YouTubeAPIKey:       os.Getenv("YOUTUBE_API_KEY"),
		YouTubeChannelID:    os.Getenv("YOUTUBE_CHANNEL_ID"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		YouTubeRefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
		UnlistedPlaylistIDs: splitCSV(os.Getenv("UNLISTED_PLAYLIST_IDS")),

		FirebaseFunctionsURL: resolveFirebaseURL(env),
		BackendURL:           os.Getenv("BACKEND_URL"),

		// Cloudflare
		CloudflareAccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		CloudflareStreamToken:     os.Getenv("CLOUDFLARE_STREAM_TOKEN"),
		CloudflareStreamSubdomain: os.Getenv("CLOUDFLARE_STREAM_SUBDOMAIN"),

		// SFTP
		SFTPHost:      os.Getenv("SFTP_HOST"),
		SFTPPort:      getenvInt("SFTP_PORT", 22),
		SFTPUser:      os.Getenv("SFTP_USER"),
		SFTPPass:      os.Getenv("SFTP_PASS"),
		SFTPRemoteDir: getenv("SFTP_REMOTE_DIR", "/"),
	}
}

// resolveFirebaseURL picks the Firebase Functions base URL. Production always
// uses FIREBASE_FUNCTIONS_URL; development prefers the local emulator URL
// unless FIREBASE_USE_PRODUCTION=true or no local URL is set.
func resolveFirebaseURL(env string) string {
	prod := os.Getenv("FIREBASE_FUNCTIONS_URL")
	if env != "development" {
		return prod
	}
	if getenvBool("FIREBASE_USE_PRODUCTION", false) {
		return prod
	}
	if local := os.Getenv("FIREBASE_FUNCTIONS_URL_LOCAL"); local != "" {
		return local
	}
	return prod
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
