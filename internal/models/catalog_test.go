package models

import (
	"encoding/json"
	"testing"
)

func TestTrackDecoding(t *testing.T) {
	t.Run("Full Track", func(t *testing.T) {
		payload := `{
			"ID": 42,
			"name": "Paranoid",
			"composer": "Iommi",
			"unitPrice": 0.99,
			"genre": {"ID": 3, "name": "Metal"},
			"album": {"title": "Paranoid", "artist": {"name": "Black Sabbath"}},
			"alreadyOrdered": true
		}`

		var track Track
		if err := json.Unmarshal([]byte(payload), &track); err != nil {
			t.Fatalf("failed to decode track: %v", err)
		}

		if track.ID != 42 || track.Name != "Paranoid" {
			t.Errorf("unexpected track identity: %+v", track)
		}
		if track.Genre.ID != 3 || track.Genre.Name != "Metal" {
			t.Errorf("unexpected genre: %+v", track.Genre)
		}
		if track.Album.Artist.Name != "Black Sabbath" {
			t.Errorf("unexpected artist: %q", track.Album.Artist.Name)
		}
		if !track.AlreadyOrdered {
			t.Error("expected alreadyOrdered to be true")
		}
		if track.UnitPrice.String() != "0.99" {
			t.Errorf("expected price 0.99, got %s", track.UnitPrice)
		}
	})

	t.Run("Price Encodings", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
			want Price
		}{
			{"number", `1.99`, 1.99},
			{"string", `"1.99"`, 1.99},
			{"integer", `2`, 2},
			{"null", `null`, 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var p Price
				if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p != tt.want {
					t.Errorf("expected %v, got %v", tt.want, p)
				}
			})
		}
	})

	t.Run("Invalid Price", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`"abc"`), &p); err == nil {
			t.Error("expected error for non-numeric price")
		}
	})
}

func TestInvoiceItem(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		item := NewInvoiceItem(7, "Song", 0.99)
		if err := item.Validate(); err == nil {
			t.Error("expected error before an ID is assigned")
		}

		item.SetID("abc")
		if err := item.Validate(); err != nil {
			t.Errorf("expected valid item, got %v", err)
		}
	})

	t.Run("Invalid Track", func(t *testing.T) {
		item := NewInvoiceItem(0, "Song", 0.99)
		item.SetID("abc")
		if err := item.Validate(); err == nil {
			t.Error("expected error for non-positive track id")
		}
	})

	t.Run("Negative Price", func(t *testing.T) {
		item := NewInvoiceItem(1, "Song", -1)
		item.SetID("abc")
		if err := item.Validate(); err == nil {
			t.Error("expected error for negative price")
		}
	})
}
