package domain

import "math"

// Course is the canonical representation of a course inside this service.
// All providers map into this model. IDs are provider-prefixed ("yt-course-...",
// "cf-course-...") so the unified id space never collides across providers.
type Course struct {
	ID          string
	Title       string
	Description string
	Instructor  string

	// Duration is in minutes and always derived from the course videos,
	// never stored independently. See Recompute.
	Duration int

	// CompletionPercentage is 0-100, derived from the completed-video ratio.
	CompletionPercentage int

	Category   string
	Difficulty Difficulty
	CoverImage string

	// ProviderPlaylistID links back to the source playlist or stream query,
	// when the provider has one.
	ProviderPlaylistID string
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Chapter groups videos inside a course. Providers without a native grouping
// concept get one synthetic chapter per course.
type Chapter struct {
	ID       string // unique within the owning course
	Title    string
	Order    int // 1-based sort key, ties broken by insertion order
	CourseID string
}

type Video struct {
	ID       string // provider-prefixed
	Title    string
	URL      string // playable URI or manifest URL
	Duration int    // seconds, >= 0

	CourseID  string
	ChapterID string
	Order     int

	// IsCompleted is a caller-owned concern; this service never persists it.
	IsCompleted bool

	Thumbnail   string
	Description string
}

// DurationMinutes returns the rounded total duration of videos in minutes.
func DurationMinutes(videos []Video) int {
	total := 0
	for _, v := range videos {
		if v.Duration > 0 {
			total += v.Duration
		}
	}
	return int(math.Round(float64(total) / 60.0))
}

// CompletionPercentage returns the rounded completed ratio, 0 for no videos.
func CompletionPercentage(videos []Video) int {
	if len(videos) == 0 {
		return 0
	}
	completed := 0
	for _, v := range videos {
		if v.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(videos))))
}

// Recompute refreshes the derived fields from the course videos.
func (c *Course) Recompute(videos []Video) {
	c.Duration = DurationMinutes(videos)
	c.CompletionPercentage = CompletionPercentage(videos)
}
