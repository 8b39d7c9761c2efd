package providers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"academy-catalog/internal/domain"
)

// FallbackAPI evaluates an ordered list of PlaylistAPI candidates and keeps
// the first success. The priority policy stays declarative: configured secure
// backend first, then direct key/credential access. One call is always served
// end to end by a single candidate; sources are never mixed mid-call.
type FallbackAPI struct {
	candidates []named
	log        *zap.Logger
}

type named struct {
	name string
	api  PlaylistAPI
}

func NewFallbackAPI(log *zap.Logger) *FallbackAPI {
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackAPI{log: log}
}

// Add appends a candidate; nil APIs are ignored so callers can pass
// unconfigured clients without branching.
func (f *FallbackAPI) Add(name string, api PlaylistAPI) *FallbackAPI {
	if api != nil {
		f.candidates = append(f.candidates, named{name: name, api: api})
	}
	return f
}

var errNoCandidates = errors.New("providers: no playlist API configured")

func (f *FallbackAPI) FetchChannelPlaylists(ctx context.Context, channelID string) ([]PlaylistInfo, error) {
	return tryEach(ctx, f, "channel playlists", func(ctx context.Context, api PlaylistAPI) ([]PlaylistInfo, error) {
		return api.FetchChannelPlaylists(ctx, channelID)
	})
}

func (f *FallbackAPI) FetchPlaylistVideos(ctx context.Context, playlistID string) ([]domain.Video, error) {
	return tryEach(ctx, f, "playlist videos", func(ctx context.Context, api PlaylistAPI) ([]domain.Video, error) {
		return api.FetchPlaylistVideos(ctx, playlistID)
	})
}

func (f *FallbackAPI) FetchPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	return tryEach(ctx, f, "playlist info", func(ctx context.Context, api PlaylistAPI) (*PlaylistInfo, error) {
		return api.FetchPlaylistInfo(ctx, playlistID)
	})
}

func (f *FallbackAPI) FetchPlaylistByID(ctx context.Context, playlistID string) (*PlaylistInfo, error) {
	return tryEach(ctx, f, "playlist by id", func(ctx context.Context, api PlaylistAPI) (*PlaylistInfo, error) {
		return api.FetchPlaylistByID(ctx, playlistID)
	})
}

// tryEach runs op against each candidate in priority order and returns the
// first success; only when every candidate fails does the last error surface.
func tryEach[R any](ctx context.Context, f *FallbackAPI, op string, call func(context.Context, PlaylistAPI) (R, error)) (R, error) {
	var zero R
	if len(f.candidates) == 0 {
		return zero, errNoCandidates
	}

	var lastErr error
	for _, c := range f.candidates {
		out, err := call(ctx, c.api)
		if err == nil {
			return out, nil
		}
		lastErr = err
		f.log.Warn("playlist source failed, trying next",
			zap.String("op", op),
			zap.String("source", c.name),
			zap.Error(err))
	}
	return zero, lastErr
}
