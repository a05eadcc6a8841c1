// package formatter renders track listings as CSV, JSON, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/shared"
)

// Supported output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// Formats lists every format accepted by [Render].
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// Listing is one page of a browse result, ready for output.
type Listing struct {
	Filter      string            `json:"filter"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	TotalItems  int               `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
	Rows        []browse.TrackRow `json:"tracks"`
}

// NewListing builds a [Listing] from a session's current state.
func NewListing(s *browse.Session, filter string) *Listing {
	st := s.Snapshot()
	return &Listing{
		Filter:      filter,
		CurrentPage: st.Pagination.CurrentPage,
		PageSize:    st.Pagination.PageSize,
		TotalItems:  st.Pagination.TotalItems,
		TotalPages:  s.TotalPages(),
		Rows:        s.Rows(),
	}
}

// Render encodes listing in the named format.
func Render(format string, listing *Listing) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return ExportToJSON(listing)
	case FormatCSV:
		return ExportToCSV(listing)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(listing)
	case FormatText, "text", "":
		return ExportToText(listing)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// ExportToJSON encodes listing as indented JSON
func ExportToJSON(listing *Listing) ([]byte, error) {
	rows := listing.Rows
	if rows == nil {
		rows = []browse.TrackRow{}
	}
	out := *listing
	out.Rows = rows

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts a listing to CSV with columns: ID, Name, Composer, Album, Artist, Genre, Price, Ordered, Invoiced
func ExportToCSV(listing *Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Composer", "Album", "Artist", "Genre", "Price", "Ordered", "Invoiced"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range listing.Rows {
		record := []string{
			strconv.Itoa(row.ID),
			row.Name,
			row.Composer,
			row.Album.Title,
			row.Album.Artist.Name,
			row.Genre.Name,
			row.UnitPrice.String(),
			strconv.FormatBool(row.AlreadyOrdered),
			strconv.FormatBool(row.Invoiced),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a listing to a Markdown table
func ExportToMarkdown(listing *Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Tracks\n\n")
	fmt.Fprintf(&buf, "**Filter**: `%s`\n\n", listing.Filter)
	fmt.Fprintf(&buf, "**Page**: %d of %d (%d tracks)\n\n", listing.CurrentPage, listing.TotalPages, listing.TotalItems)

	buf.WriteString("| # | Name | Artist | Album | Genre | Price | Status |\n")
	buf.WriteString("|---|------|--------|-------|-------|-------|--------|\n")
	for _, row := range listing.Rows {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s | %s |\n",
			row.ID,
			escapeCell(row.Name),
			escapeCell(row.Album.Artist.Name),
			escapeCell(row.Album.Title),
			escapeCell(row.Genre.Name),
			FormatPrice(float64(row.UnitPrice)),
			Status(row),
		)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a listing to plain text, one track per line
func ExportToText(listing *Listing) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Filter: %s\n", listing.Filter)
	fmt.Fprintf(&buf, "Page %d of %d, %d tracks\n\n", listing.CurrentPage, listing.TotalPages, listing.TotalItems)

	offset := (listing.CurrentPage - 1) * listing.PageSize
	for i, row := range listing.Rows {
		line := fmt.Sprintf("%d. %s - %s [%s] %s", offset+i+1, row.Album.Artist.Name, row.Name, row.Genre.Name, FormatPrice(float64(row.UnitPrice)))
		if status := Status(row); status != "" {
			line += " (" + status + ")"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// Status summarizes a row's order and invoice flags.
func Status(row browse.TrackRow) string {
	var parts []string
	if row.AlreadyOrdered {
		parts = append(parts, "ordered")
	}
	if row.Invoiced {
		parts = append(parts, "invoiced")
	}
	return strings.Join(parts, ", ")
}

// WriteExport renders listing and writes it to path.
func WriteExport(listing *Listing, format, path string) error {
	data, err := Render(format, listing)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
