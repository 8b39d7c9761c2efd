package aggregate

import (
	"net/http"

	"go.uber.org/zap"

	"academy-catalog/internal/config"
	"academy-catalog/internal/providers"
	"academy-catalog/internal/providers/cloudflare"
	"academy-catalog/internal/providers/firebaseproxy"
	"academy-catalog/internal/providers/youtube"
	"academy-catalog/internal/token"
)

// System is the fully wired object graph the CLIs run on.
type System struct {
	Facade *Facade
	Broker *token.Broker
}

// FromConfig wires the token fallback chain, the proxy-first playlist API and
// both catalog providers from the environment configuration.
func FromConfig(cfg config.Config, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	proxy := firebaseproxy.New(cfg.FirebaseFunctionsURL, log.Named("firebaseproxy"))
	proxy.HTTP = httpClient

	// Token sources in strict priority order. Unconfigured sources fail fast
	// with a configuration error and the broker moves on.
	broker := token.NewBroker([]token.Source{
		proxy,
		&token.BackendSource{BaseURL: cfg.BackendURL, HTTP: httpClient},
		&token.OAuthSource{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.YouTubeRefreshToken,
			HTTP:         httpClient,
		},
	}, log.Named("token"))

	direct := youtube.New(cfg.YouTubeAPIKey, broker, log.Named("youtube"))
	direct.HTTP = httpClient
	direct.UnlistedPlaylistIDs = cfg.UnlistedPlaylistIDs

	playlistAPI := providers.NewFallbackAPI(log.Named("fallback"))
	if proxy.Configured() {
		playlistAPI.Add("firebase", proxy)
	}
	playlistAPI.Add("youtube", direct)

	ytProvider := &youtube.Provider{
		API:       playlistAPI,
		ChannelID: cfg.YouTubeChannelID,
		Log:       log.Named("youtube"),
	}
	stream := cloudflare.New(cfg.CloudflareAccountID, cfg.CloudflareStreamToken,
		cfg.CloudflareStreamSubdomain, log.Named("cloudflare"))
	stream.HTTP = httpClient
	cfProvider := &cloudflare.Provider{
		API: stream,
		Log: log.Named("cloudflare"),
	}

	return &System{
		Facade: NewFacade([]providers.CatalogProvider{ytProvider, cfProvider}, log.Named("aggregate")),
		Broker: broker,
	}
}
