package aggregate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"academy-catalog/internal/domain"
	"academy-catalog/internal/providers"
)

type slowProvider struct {
	prefix string
	delay  map[string]time.Duration
}

func (s *slowProvider) Name() string        { return "slow" }
func (s *slowProvider) Owns(id string) bool { return strings.HasPrefix(id, s.prefix) }

func (s *slowProvider) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return nil, nil
}

func (s *slowProvider) ListChapters(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	return []domain.Chapter{{ID: courseID + "-chapter-1", Order: 1}}, nil
}

func (s *slowProvider) ListVideos(ctx context.Context, courseID string) ([]domain.Video, error) {
	time.Sleep(s.delay[courseID])
	return []domain.Video{{
		ID:        courseID + "-video",
		CourseID:  courseID,
		ChapterID: courseID + "-chapter-1",
		Order:     1,
	}}, nil
}

func TestViewStoresLatestLoad(t *testing.T) {
	p := &slowProvider{prefix: "yt-course-", delay: map[string]time.Duration{}}
	view := NewView(NewFacade([]providers.CatalogProvider{p}, nil))

	videos, err := view.LoadVideos(context.Background(), "yt-course-a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(videos) != 1 || videos[0].CourseID != "yt-course-a" {
		t.Fatalf("Unexpected videos %+v", videos)
	}

	stored, courseID, loaded := view.Videos()
	if !loaded || courseID != "yt-course-a" || len(stored) != 1 {
		t.Errorf("Expected snapshot stored, got loaded=%v courseID=%q videos=%d",
			loaded, courseID, len(stored))
	}
}

func TestViewDiscardsSupersededLoad(t *testing.T) {
	p := &slowProvider{prefix: "yt-course-", delay: map[string]time.Duration{
		"yt-course-slow": 60 * time.Millisecond,
		"yt-course-fast": 0,
	}}
	view := NewView(NewFacade([]providers.CatalogProvider{p}, nil))

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = view.LoadVideos(context.Background(), "yt-course-slow")
	}()

	// Let the slow load start before superseding it.
	time.Sleep(10 * time.Millisecond)
	if _, err := view.LoadVideos(context.Background(), "yt-course-fast"); err != nil {
		t.Fatalf("Expected fast load to succeed, got %v", err)
	}
	wg.Wait()

	if !errors.Is(slowErr, ErrStale) {
		t.Fatalf("Expected slow load marked stale, got %v", slowErr)
	}

	_, courseID, loaded := view.Videos()
	if !loaded || courseID != "yt-course-fast" {
		t.Errorf("Expected fast result kept, got courseID=%q loaded=%v", courseID, loaded)
	}
}

func TestViewNeverLoaded(t *testing.T) {
	view := NewView(NewFacade(nil, nil))

	videos, courseID, loaded := view.Videos()
	if loaded || courseID != "" || videos != nil {
		t.Errorf("Expected empty snapshot, got %v %q %v", videos, courseID, loaded)
	}
}
