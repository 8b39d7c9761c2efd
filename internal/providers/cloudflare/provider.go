package cloudflare

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/normalize"
)

const (
	idPrefix     = "cf-"
	coursePrefix = "cf-course-"
	modulePrefix = "cf-module-"

	// DefaultCourseID names the single synthetic course every Stream entry
	// belongs to while entries carry no course metadata.
	DefaultCourseID  = coursePrefix + "introduction"
	defaultChapterID = modulePrefix + "introduction"

	defaultCourseTitle = "Introduction"
)

// StreamAPI is the slice of Client the provider needs. Satisfied by *Client.
type StreamAPI interface {
	FetchAllEntries(ctx context.Context) ([]StreamEntry, error)
	ManifestURL(uid string) string
	ThumbnailURL(e StreamEntry) string
}

// Provider maps the Stream library onto the catalog model.
type Provider struct {
	API StreamAPI
	Log *zap.Logger
}

func (p *Provider) logger() *zap.Logger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop()
}

func (p *Provider) Name() string { return "cloudflare" }

func (p *Provider) Owns(courseID string) bool {
	return strings.HasPrefix(courseID, idPrefix)
}

// ListCourses collapses the whole library into the one synthetic course. An
// empty library yields no courses at all, not an empty course. Entries with
// course metadata would form their own courses, but no uploader sets that
// metadata yet, so the grouped branch stays dormant below.
func (p *Provider) ListCourses(ctx context.Context) ([]domain.Course, error) {
	entries, err := p.API.FetchAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: list courses: %w", err)
	}
	if len(entries) == 0 {
		p.logger().Warn("no stream entries found, listing no courses")
		return []domain.Course{}, nil
	}

	course := domain.Course{
		ID:          DefaultCourseID,
		Title:       defaultCourseTitle,
		Description: "Introductory course with every video available on Cloudflare Stream",
		Instructor:  "Dr. Mobilitas",
		Category:    "Advanced",
		Difficulty:  domain.DifficultyAdvanced,
		CoverImage:  p.API.ThumbnailURL(entries[0]),
	}
	course.Recompute(p.videosFrom(entries, DefaultCourseID, defaultChapterID))
	return []domain.Course{course}, nil
}

// ListChapters returns the synthetic chapter for the default course. For a
// metadata-backed course it groups the matching entries by their module key.
func (p *Provider) ListChapters(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	if courseID == DefaultCourseID {
		return []domain.Chapter{{
			ID:       defaultChapterID,
			Title:    normalize.DefaultChapterTitle,
			Order:    1,
			CourseID: courseID,
		}}, nil
	}

	entries, err := p.courseEntries(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var chapters []domain.Chapter
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Meta.Module == "" {
			continue
		}
		id := chapterIDFor(e.Meta.Module)
		if seen[id] {
			continue
		}
		seen[id] = true
		title := e.Meta.ModuleTitle
		if title == "" {
			title = e.Meta.Module
		}
		chapters = append(chapters, domain.Chapter{
			ID:       id,
			Title:    title,
			Order:    atoiOrZero(e.Meta.ModuleOrder),
			CourseID: courseID,
		})
	}
	normalize.SortChapters(chapters)
	return chapters, nil
}

// ListVideos returns the course videos in order.
func (p *Provider) ListVideos(ctx context.Context, courseID string) ([]domain.Video, error) {
	if courseID == DefaultCourseID {
		entries, err := p.API.FetchAllEntries(ctx)
		if err != nil {
			return nil, fmt.Errorf("cloudflare: list videos: %w", err)
		}
		videos := p.videosFrom(entries, courseID, defaultChapterID)
		normalize.SortVideos(videos)
		return videos, nil
	}

	entries, err := p.courseEntries(ctx, courseID)
	if err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(entries))
	for i, e := range entries {
		v := p.videoFrom(e, i)
		v.CourseID = courseID
		v.ChapterID = chapterIDFor(e.Meta.Module)
		videos = append(videos, v)
	}
	normalize.SortVideos(videos)
	return videos, nil
}

// courseEntries resolves a metadata-backed course id to its entries.
func (p *Provider) courseEntries(ctx context.Context, courseID string) ([]StreamEntry, error) {
	const op = "cloudflare: resolve course"

	key := strings.TrimPrefix(courseID, coursePrefix)
	if key == courseID || key == "" {
		return nil, apierr.New(apierr.KindNotFound, op,
			fmt.Errorf("unknown course id %q", courseID))
	}
	all, err := p.API.FetchAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var entries []StreamEntry
	for _, e := range all {
		if e.Meta.Course == key {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, apierr.New(apierr.KindNotFound, op,
			fmt.Errorf("no entries for course %q", key))
	}
	return entries, nil
}

func (p *Provider) videosFrom(entries []StreamEntry, courseID, chapterID string) []domain.Video {
	videos := make([]domain.Video, 0, len(entries))
	for i, e := range entries {
		v := p.videoFrom(e, i)
		v.CourseID = courseID
		v.ChapterID = chapterID
		videos = append(videos, v)
	}
	return videos
}

func (p *Provider) videoFrom(e StreamEntry, index int) domain.Video {
	title := e.Meta.Title
	if title == "" {
		title = e.Meta.Name
	}
	if title == "" {
		title = fmt.Sprintf("Video %d", index+1)
	}
	order := index + 1
	if e.Meta.Order != "" {
		if n, err := strconv.Atoi(e.Meta.Order); err == nil && n > 0 {
			order = n
		}
	}
	return domain.Video{
		ID:          idPrefix + e.UID,
		Title:       title,
		Description: e.Meta.Description,
		URL:         p.API.ManifestURL(e.UID),
		Duration:    int(e.Duration),
		Order:       order,
		Thumbnail:   p.API.ThumbnailURL(e),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func chapterIDFor(module string) string {
	if module == "" {
		return defaultChapterID
	}
	return modulePrefix + module
}
