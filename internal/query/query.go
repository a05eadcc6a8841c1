// Package query composes the catalog service's filter expressions and query strings.
//
// The filter grammar is
//
//	contains(name,'<substring>') [and (genre_ID eq <id1> or genre_ID eq <id2> ...)]
//
// The contains clause is always present so an empty substring matches every track.
// The genre clause is omitted entirely when no genre ids are selected.
// All functions are pure.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Filter holds the search options that narrow a track listing.
type Filter struct {
	Substring string
	GenreIDs  []int
}

// Page is a window into a filtered result set.
type Page struct {
	Top  int // page size
	Skip int // offset
}

// Clone returns a copy of f that shares no memory with it.
func (f Filter) Clone() Filter {
	ids := make([]int, len(f.GenreIDs))
	copy(ids, f.GenreIDs)
	return Filter{Substring: f.Substring, GenreIDs: ids}
}

// Equal reports whether f and other select the same tracks in the same genre order.
func (f Filter) Equal(other Filter) bool {
	return f.Substring == other.Substring && slices.Equal(f.GenreIDs, other.GenreIDs)
}

// Escape doubles single quotes so s can be embedded in an OData string literal.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// GenreClause returns "(genre_ID eq 3 or genre_ID eq 7)" for the given ids, or "" when ids is empty.
func GenreClause(ids []int) string {
	if len(ids) == 0 {
		return ""
	}

	terms := make([]string, len(ids))
	for i, id := range ids {
		terms[i] = "genre_ID eq " + strconv.Itoa(id)
	}
	return "(" + strings.Join(terms, " or ") + ")"
}

// Expression returns the composed $filter expression for f.
func Expression(f Filter) string {
	expr := "contains(name,'" + Escape(f.Substring) + "')"
	if clause := GenreClause(f.GenreIDs); clause != "" {
		expr += " and " + clause
	}
	return expr
}

// Offset returns the $skip value for a 1-based page number.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// ListQuery returns the encoded query string for a page of tracks, with the genre expanded.
func ListQuery(f Filter, p Page) string {
	v := url.Values{}
	v.Set("$expand", "genre")
	v.Set("$top", strconv.Itoa(p.Top))
	v.Set("$skip", strconv.Itoa(p.Skip))
	v.Set("$filter", Expression(f))
	return encode(v)
}

// CountQuery returns the encoded query string for counting the tracks matching f.
func CountQuery(f Filter) string {
	v := url.Values{}
	v.Set("$filter", Expression(f))
	return encode(v)
}

// encode percent-encodes v, writing spaces as %20 rather than "+".
// A literal "+" has already been encoded as %2B at this point.
func encode(v url.Values) string {
	return strings.ReplaceAll(v.Encode(), "+", "%20")
}
