// Package aggregate composes the configured providers behind one read-only
// query surface.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"academy-catalog/internal/apierr"
	"academy-catalog/internal/concurrency"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/normalize"
	"academy-catalog/internal/providers"
)

// Selector picks which providers a ListCourses call uses.
type Selector string

const (
	SelectAll Selector = "all"
)

// Facade fans catalog queries out to the registered providers and merges the
// results. It never mutates provider-side state.
type Facade struct {
	providers []providers.CatalogProvider
	log       *zap.Logger

	// Workers bounds the provider fan-out in ListCourses.
	Workers int
}

func NewFacade(provs []providers.CatalogProvider, log *zap.Logger) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Facade{providers: provs, log: log}
}

// Providers returns the registered provider names, in registration order.
func (f *Facade) Providers() []string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}
	return names
}

func (f *Facade) selected(sel Selector) []providers.CatalogProvider {
	if sel == "" || sel == SelectAll {
		return f.providers
	}
	var out []providers.CatalogProvider
	for _, p := range f.providers {
		if Selector(p.Name()) == sel {
			out = append(out, p)
		}
	}
	return out
}

// ListCourses returns the unified course list of the selected providers,
// assembled in registration order. One failing provider degrades the result
// and is logged; the call errors only when every selected provider failed.
func (f *Facade) ListCourses(ctx context.Context, sel Selector) ([]domain.Course, error) {
	selected := f.selected(sel)
	if len(selected) == 0 {
		return nil, fmt.Errorf("aggregate: no provider matches selector %q", sel)
	}

	type slice struct {
		courses []domain.Course
	}
	results, errs := concurrency.ProcessParallel(ctx, selected,
		concurrency.Options{MaxWorkers: f.Workers},
		func(ctx context.Context, _ int, p providers.CatalogProvider) (slice, error) {
			courses, err := p.ListCourses(ctx)
			if err != nil {
				return slice{}, fmt.Errorf("%s: %w", p.Name(), err)
			}
			return slice{courses: courses}, nil
		})

	if len(errs) == len(selected) {
		return nil, fmt.Errorf("aggregate: every provider failed: %w", errors.Join(errs...))
	}
	for _, err := range errs {
		f.log.Warn("provider degraded, listing without it", zap.Error(err))
	}

	var courses []domain.Course
	for _, r := range results {
		courses = append(courses, r.courses...)
	}
	return courses, nil
}

// ListChapters routes to the provider owning the course id.
func (f *Facade) ListChapters(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	p, err := f.owner(courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := p.ListChapters(ctx, courseID)
	if err != nil {
		return nil, err
	}
	normalize.SortChapters(chapters)
	return chapters, nil
}

// ListVideos returns the course videos concatenated in chapter order.
func (f *Facade) ListVideos(ctx context.Context, courseID string) ([]domain.Video, error) {
	p, err := f.owner(courseID)
	if err != nil {
		return nil, err
	}
	chapters, err := p.ListChapters(ctx, courseID)
	if err != nil {
		return nil, err
	}
	normalize.SortChapters(chapters)
	videos, err := p.ListVideos(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// One fetch per course; the chapter loop only decides concatenation order.
	byChapter := make(map[string][]domain.Video, len(chapters))
	for _, v := range videos {
		byChapter[v.ChapterID] = append(byChapter[v.ChapterID], v)
	}
	ordered := make([]domain.Video, 0, len(videos))
	for _, ch := range chapters {
		ordered = append(ordered, byChapter[ch.ID]...)
		delete(byChapter, ch.ID)
	}
	// Videos pointing at no listed chapter still belong to the course.
	for _, v := range videos {
		if _, ok := byChapter[v.ChapterID]; ok {
			ordered = append(ordered, byChapter[v.ChapterID]...)
			delete(byChapter, v.ChapterID)
		}
	}
	return ordered, nil
}

func (f *Facade) owner(courseID string) (providers.CatalogProvider, error) {
	for _, p := range f.providers {
		if p.Owns(courseID) {
			return p, nil
		}
	}
	return nil, apierr.New(apierr.KindNotFound, "aggregate: route course",
		fmt.Errorf("no provider owns course id %q", courseID))
}
