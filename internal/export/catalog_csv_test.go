package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"

	"academy-catalog/internal/domain"
)

func sampleCourses() []domain.Course {
	return []domain.Course{
		{
			ID:                   "yt-course-pl-go",
			Title:                "Go Basics",
			Description:          "Intro\nto Go",
			Instructor:           "Academy",
			Duration:             42,
			CompletionPercentage: 50,
			Category:             "YouTube",
			Difficulty:           domain.DifficultyIntermediate,
			CoverImage:           "https://img/go.jpg",
			ProviderPlaylistID:   "pl-go",
		},
		{
			ID:         "cf-course-introduction",
			Title:      "Introduction",
			Category:   "Cloudflare",
			Difficulty: domain.DifficultyBeginner,
		},
	}
}

func TestWriteCatalogCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, sampleCourses()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Expected parseable CSV, got %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "COURSE_ID" || records[0][4] != "DURATION_MINUTES" {
		t.Errorf("Unexpected header %v", records[0])
	}

	row := records[1]
	if row[0] != "yt-course-pl-go" || row[1] != "Go Basics" {
		t.Errorf("Unexpected first row %v", row)
	}
	if row[2] != "Intro to Go" {
		t.Errorf("Expected newline flattened, got %q", row[2])
	}
	if row[4] != "42" || row[5] != "50" {
		t.Errorf("Expected numeric fields stringified, got %q / %q", row[4], row[5])
	}
	if row[7] != "Intermediate" {
		t.Errorf("Expected difficulty string, got %q", row[7])
	}

	if records[2][0] != "cf-course-introduction" || records[2][4] != "0" {
		t.Errorf("Unexpected second row %v", records[2])
	}
}

func TestWriteCatalogCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalogCSV(&buf, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("Expected header only, got %d lines", got)
	}
}

func TestWriteCatalogCSVBrotliRoundTrip(t *testing.T) {
	var plain, compressed bytes.Buffer
	courses := sampleCourses()

	if err := WriteCatalogCSV(&plain, courses); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := WriteCatalogCSVBrotli(&compressed, courses); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	decompressed, err := io.ReadAll(brotli.NewReader(&compressed))
	if err != nil {
		t.Fatalf("Expected decompressable output, got %v", err)
	}
	if !bytes.Equal(decompressed, plain.Bytes()) {
		t.Error("Expected decompressed output to match plain CSV")
	}
}
