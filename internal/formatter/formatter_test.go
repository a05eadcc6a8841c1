package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/shared"
	th "github.com/desertthunder/trackbrowse/internal/testing"
)

func sampleListing() *Listing {
	tracks := th.SampleTracks(3)
	tracks[0].Name = "Pipe | Dream"
	tracks[1].AlreadyOrdered = true

	rows := make([]browse.TrackRow, len(tracks))
	for i, tr := range tracks {
		rows[i] = browse.TrackRow{Track: tr, Invoiced: i == 2}
	}

	return &Listing{
		Filter:      "contains(name,'')",
		CurrentPage: 2,
		PageSize:    3,
		TotalItems:  8,
		TotalPages:  3,
		Rows:        rows,
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleListing())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Composer,Album,Artist,Genre,Price,Ordered,Invoiced") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2,Track 2,Composer,Album 1,Artist,Jazz,0.99,true,false") {
			t.Errorf("CSV missing track 2 record, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 4 {
			t.Errorf("expected 4 lines, got %d", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleListing())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "**Page**: 2 of 3 (8 tracks)") {
			t.Errorf("Markdown missing page summary, got: %s", output)
		}
		if !strings.Contains(output, `Pipe \| Dream`) {
			t.Error("Markdown should escape pipes in cells")
		}
		if !strings.Contains(output, "| ordered |") || !strings.Contains(output, "| invoiced |") {
			t.Errorf("Markdown missing status cells, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleListing())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "4. Artist - Pipe | Dream [Rock] $0.99\n") {
			t.Errorf("text should number rows from the page offset, got: %s", output)
		}
		if !strings.Contains(output, "5. Artist - Track 2 [Jazz] $0.99 (ordered)") {
			t.Errorf("text missing ordered status, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(&Listing{Filter: "contains(name,'')", CurrentPage: 1})
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		tracks, ok := decoded["tracks"].([]any)
		if !ok || len(tracks) != 0 {
			t.Errorf("expected empty tracks array, got %v", decoded["tracks"])
		}
	})

	t.Run("Render", func(t *testing.T) {
		for _, format := range append(Formats, "markdown", "text", "") {
			if _, err := Render(format, sampleListing()); err != nil {
				t.Errorf("Render(%q) failed: %v", format, err)
			}
		}

		if _, err := Render("xml", sampleListing()); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag for unknown format, got %v", err)
		}
	})

	t.Run("WriteExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.csv")
		if err := WriteExport(sampleListing(), FormatCSV, path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "ID,Name") {
			t.Errorf("unexpected file content: %s", content)
		}

		missing := filepath.Join(t.TempDir(), "nope", "tracks.csv")
		if err := WriteExport(sampleListing(), FormatCSV, missing); err == nil {
			t.Error("expected error writing into a missing directory")
		}
		if _, err := os.Stat(missing); !os.IsNotExist(err) {
			t.Error("expected no file to be written")
		}
	})

	t.Run("Status", func(t *testing.T) {
		row := browse.TrackRow{Invoiced: true}
		row.AlreadyOrdered = true
		if got := Status(row); got != "ordered, invoiced" {
			t.Errorf("unexpected status %q", got)
		}
		if got := Status(browse.TrackRow{}); got != "" {
			t.Errorf("expected empty status, got %q", got)
		}
	})
}
