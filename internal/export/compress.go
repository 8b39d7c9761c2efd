package export

import (
	"io"

	"github.com/andybalholm/brotli"

	"academy-catalog/internal/domain"
)

// WriteCatalogCSVBrotli writes the CSV snapshot brotli-compressed. Snapshots
// are mostly repeated URLs and category strings, they compress well.
func WriteCatalogCSVBrotli(w io.Writer, courses []domain.Course) error {
	bw := brotli.NewWriterLevel(w, brotli.BestCompression)
	if err := WriteCatalogCSV(bw, courses); err != nil {
		bw.Close()
		return err
	}
	return bw.Close()
}
