package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Genre is a catalog genre. Used both to populate the genre filter and to annotate tracks.
type Genre struct {
	ID   int    `json:"ID"`
	Name string `json:"name"`
}

// Artist is the album artist embedded in a track.
type Artist struct {
	Name string `json:"name"`
}

// Album is the album embedded in a track.
type Album struct {
	Title  string `json:"title"`
	Artist Artist `json:"artist"`
}

// Track is an immutable snapshot of a catalog track.
//
// AlreadyOrdered is only reported by the personalized (MarkedTracks) collection.
type Track struct {
	ID             int    `json:"ID"`
	Name           string `json:"name"`
	Composer       string `json:"composer"`
	UnitPrice      Price  `json:"unitPrice"`
	Genre          Genre  `json:"genre"`
	Album          Album  `json:"album"`
	AlreadyOrdered bool   `json:"alreadyOrdered"`
}

// Price is a decimal amount that decodes from either a JSON number or a JSON string,
// since OData services may serialize decimals as strings.
type Price float64

// UnmarshalJSON implements [json.Unmarshaler].
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", data, err)
	}
	*p = Price(f)
	return nil
}

// String formats the price with two decimals.
func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}
