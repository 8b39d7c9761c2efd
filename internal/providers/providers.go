package providers

import (
	"context"

	"academy-catalog/internal/domain"
)

// CatalogProvider is the capability set every content source implements.
// All operations are read-only; no provider-side state is ever mutated.
type CatalogProvider interface {
	Name() string

	// Owns reports whether a unified course ID belongs to this provider,
	// based on its ID namespace prefix.
	Owns(courseID string) bool

	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListChapters(ctx context.Context, courseID string) ([]domain.Chapter, error)
	ListVideos(ctx context.Context, courseID string) ([]domain.Video, error)
}

// PlaylistInfo is the provider-neutral shape of a YouTube playlist, shared by
// the direct Data API client and the Firebase proxy client.
type PlaylistInfo struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	Thumbnail    string
	ItemCount    int
}

// PlaylistAPI is the playlist capability set behind the YouTube provider.
// Implemented by the direct Data API client and by the Firebase proxy client
// so the provider can prefer the trusted backend and fall back transparently.
type PlaylistAPI interface {
	FetchChannelPlaylists(ctx context.Context, channelID string) ([]PlaylistInfo, error)
	FetchPlaylistVideos(ctx context.Context, playlistID string) ([]domain.Video, error)
	// FetchPlaylistInfo returns nil without error when the playlist does
	// not exist.
	FetchPlaylistInfo(ctx context.Context, playlistID string) (*PlaylistInfo, error)
	FetchPlaylistByID(ctx context.Context, playlistID string) (*PlaylistInfo, error)
}
