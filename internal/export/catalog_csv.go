package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"academy-catalog/internal/domain"
)

// Catalog snapshot column set. Keep header order EXACT, downstream imports
// match by position.
var catalogHeader = []string{
	"COURSE_ID",
	"TITLE",
	"DESCRIPTION",
	"INSTRUCTOR",
	"DURATION_MINUTES",
	"COMPLETION_PERCENT",
	"CATEGORY",
	"DIFFICULTY",
	"COVER_IMAGE",
	"PLAYLIST_ID",
}

// WriteCatalogCSV writes a course snapshot in the catalog import format.
func WriteCatalogCSV(w io.Writer, courses []domain.Course) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, c := range courses {
		if err := cw.Write(toCatalogRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toCatalogRow(c domain.Course) []string {
	return []string{
		c.ID,
		cleanField(c.Title),
		cleanField(c.Description),
		cleanField(c.Instructor),
		strconv.Itoa(c.Duration),
		strconv.Itoa(c.CompletionPercentage),
		c.Category,
		string(c.Difficulty),
		c.CoverImage,
		c.ProviderPlaylistID,
	}
}

func cleanField(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
