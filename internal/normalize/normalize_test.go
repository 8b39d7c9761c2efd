package normalize

import (
	"testing"

	"academy-catalog/internal/domain"
)

func TestParseISODuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"PT4M13S", 253},
		{"PT1H2M30S", 3750},
		{"PT1H", 3600},
		{"PT1H30M", 5400},
		{"PT45S", 45},
		{"PT0S", 0},
		{"PT", 0},
		{"", 0},
		{"P1DT1H", 0}, // day components are outside the PT#H#M#S grammar
		{"invalid", 0},
	}

	for _, tc := range testCases {
		result := ParseISODuration(tc.input)
		if result != tc.expected {
			t.Errorf("ParseISODuration(%q) = %d, want %d", tc.input, result, tc.expected)
		}
	}
}

func TestSyntheticChapter(t *testing.T) {
	ch := SyntheticChapter("yt-course-PL123")

	if ch.ID != "yt-course-PL123-chapter-1" {
		t.Errorf("Expected chapter ID 'yt-course-PL123-chapter-1', got %q", ch.ID)
	}
	if ch.Order != 1 {
		t.Errorf("Expected chapter order 1, got %d", ch.Order)
	}
	if ch.CourseID != "yt-course-PL123" {
		t.Errorf("Expected CourseID 'yt-course-PL123', got %q", ch.CourseID)
	}
	if ch.Title != DefaultChapterTitle {
		t.Errorf("Expected title %q, got %q", DefaultChapterTitle, ch.Title)
	}
}

func TestSortVideosStable(t *testing.T) {
	videos := []domain.Video{
		{ID: "c", Order: 2},
		{ID: "a", Order: 1},
		{ID: "b", Order: 1}, // tie with "a", must keep insertion order
		{ID: "d", Order: 3},
	}

	SortVideos(videos)

	expected := []string{"a", "b", "c", "d"}
	for i, id := range expected {
		if videos[i].ID != id {
			t.Errorf("Expected videos[%d].ID to be %q, got %q", i, id, videos[i].ID)
		}
	}
}

func TestSortChapters(t *testing.T) {
	chapters := []domain.Chapter{
		{ID: "late", Order: 5},
		{ID: "early", Order: 1},
		{ID: "mid", Order: 3},
	}

	SortChapters(chapters)

	expected := []string{"early", "mid", "late"}
	for i, id := range expected {
		if chapters[i].ID != id {
			t.Errorf("Expected chapters[%d].ID to be %q, got %q", i, id, chapters[i].ID)
		}
	}
}
