package aggregate

import (
	"context"
	"errors"
	"sync"

	"academy-catalog/internal/domain"
)

// ErrStale is returned when a load finishes after a newer load for different
// parameters has already started. The stale result is discarded, never stored.
var ErrStale = errors.New("aggregate: load superseded by a newer request")

// View is a latest-wins snapshot of one course's videos. In-flight requests
// are not aborted at the transport level; their results are checked for
// staleness on arrival instead, so a slow early response can never overwrite
// a newer one.
type View struct {
	facade *Facade

	mu         sync.Mutex
	generation uint64
	courseID   string
	videos     []domain.Video
	loaded     bool
}

func NewView(facade *Facade) *View {
	return &View{facade: facade}
}

// LoadVideos fetches the course videos and stores them unless a newer load
// started meanwhile. Returns the fetched videos either way so the caller can
// distinguish "discarded" (ErrStale) from transport failures.
func (v *View) LoadVideos(ctx context.Context, courseID string) ([]domain.Video, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.mu.Unlock()

	videos, err := v.facade.ListVideos(ctx, courseID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return videos, ErrStale
	}
	if err != nil {
		return nil, err
	}
	v.courseID = courseID
	v.videos = videos
	v.loaded = true
	return videos, nil
}

// Videos returns the current snapshot: the loaded videos, the course they
// belong to, and whether any load has completed.
func (v *View) Videos() ([]domain.Video, string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.videos, v.courseID, v.loaded
}
