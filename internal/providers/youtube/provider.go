package youtube

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/concurrency"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/normalize"
	"academy-catalog/internal/providers"
)

const (
	videoPrefix  = "yt-"
	coursePrefix = "yt-course-"
)

// Provider maps channel playlists onto courses. API is normally a fallback
// chain with the proxy preferred and the direct client behind it.
type Provider struct {
	API       providers.PlaylistAPI
	ChannelID string

	// Workers bounds concurrent per-playlist video fetches during ListCourses.
	Workers int

	Log *zap.Logger
}

func (p *Provider) logger() *zap.Logger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop()
}

func (p *Provider) Name() string { return "youtube" }

func (p *Provider) Owns(courseID string) bool {
	return strings.HasPrefix(courseID, videoPrefix)
}

// ListCourses returns one course per channel playlist. Durations require a
// video listing per playlist, so those are fetched in parallel; a playlist
// whose videos cannot be fetched still yields a course, with zero duration.
func (p *Provider) ListCourses(ctx context.Context) ([]domain.Course, error) {
	playlists, err := p.API.FetchChannelPlaylists(ctx, p.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("youtube: list courses: %w", err)
	}

	courses, _ := concurrency.ProcessParallel(ctx, playlists,
		concurrency.Options{MaxWorkers: p.Workers},
		func(ctx context.Context, _ int, pl providers.PlaylistInfo) (domain.Course, error) {
			course := p.courseFromPlaylist(pl)
			videos, err := p.API.FetchPlaylistVideos(ctx, pl.ID)
			if err != nil {
				p.logger().Warn("playlist videos unavailable, listing course without duration",
					zap.String("playlist_id", pl.ID),
					zap.Error(err))
				return course, nil
			}
			course.Recompute(videos)
			return course, nil
		})
	return courses, nil
}

// ListChapters returns the single synthetic chapter every playlist-backed
// course gets.
func (p *Provider) ListChapters(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	if _, err := p.playlistID(courseID); err != nil {
		return nil, err
	}
	return []domain.Chapter{normalize.SyntheticChapter(courseID)}, nil
}

// ListVideos returns the course videos in playlist order, attached to the
// synthetic chapter.
func (p *Provider) ListVideos(ctx context.Context, courseID string) ([]domain.Video, error) {
	playlistID, err := p.playlistID(courseID)
	if err != nil {
		return nil, err
	}
	videos, err := p.API.FetchPlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("youtube: list videos: %w", err)
	}
	chapter := normalize.SyntheticChapter(courseID)
	for i := range videos {
		videos[i].CourseID = courseID
		videos[i].ChapterID = chapter.ID
	}
	normalize.SortVideos(videos)
	return videos, nil
}

func (p *Provider) playlistID(courseID string) (string, error) {
	playlistID := strings.TrimPrefix(courseID, coursePrefix)
	if playlistID == courseID || playlistID == "" {
		return "", apierr.New(apierr.KindNotFound, "youtube: resolve course",
			fmt.Errorf("unknown course id %q", courseID))
	}
	return playlistID, nil
}

func (p *Provider) courseFromPlaylist(pl providers.PlaylistInfo) domain.Course {
	description := pl.Description
	if description == "" {
		description = "No description available"
	}
	return domain.Course{
		ID:                 coursePrefix + pl.ID,
		Title:              pl.Title,
		Description:        description,
		Instructor:         pl.ChannelTitle,
		Category:           "YouTube",
		Difficulty:         domain.DifficultyIntermediate,
		CoverImage:         pl.Thumbnail,
		ProviderPlaylistID: pl.ID,
	}
}
