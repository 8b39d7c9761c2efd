// Package normalize holds the provider-independent pieces of catalog
// normalization: ISO-8601 duration parsing, synthetic chapter generation
// and video ordering.
package normalize

import (
	"regexp"
	"sort"
	"strconv"

	"academy-catalog/internal/domain"
)

// DefaultChapterTitle names the single synthetic chapter generated for
// providers without a native grouping concept.
const DefaultChapterTitle = "Course videos"

var isoDuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO-8601 duration like "PT4M13S" into whole
// seconds. Absent components count as zero, so "PT" parses to 0 rather than
// failing; anything that does not match at all is 0 as well.
func ParseISODuration(s string) int {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	h := atoi(m[1])
	min := atoi(m[2])
	sec := atoi(m[3])
	return h*3600 + min*60 + sec
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// SyntheticChapter builds the single stand-in chapter for a course whose
// provider has no module/chapter structure. Order is always 1.
func SyntheticChapter(courseID string) domain.Chapter {
	return domain.Chapter{
		ID:       courseID + "-chapter-1",
		Title:    DefaultChapterTitle,
		Order:    1,
		CourseID: courseID,
	}
}

// SortVideos orders videos by their Order field ascending. The sort is
// stable: ties keep the provider-returned order.
func SortVideos(videos []domain.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Order < videos[j].Order
	})
}

// SortChapters orders chapters by Order ascending, stable on ties.
func SortChapters(chapters []domain.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Order < chapters[j].Order
	})
}
