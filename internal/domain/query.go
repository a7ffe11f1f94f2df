package domain

import (
	"fmt"
	"strings"
)

// SortField names an entity field the listing can be ordered by
type SortField string

const (
	SortNone      SortField = ""
	SortName      SortField = "name"
	SortPrice     SortField = "price"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query is the closed set of listing options. Zero value matches everything
// in storage order.
type Query struct {
	// Name matches entities whose name contains it, ignoring case
	Name string
	// MinPrice and MaxPrice are inclusive bounds; nil means unbounded
	MinPrice *float64
	MaxPrice *float64
	// SortField empty keeps the store's natural order
	SortField SortField
	SortOrder SortOrder
}

// ParseSortField converts external input into a SortField
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortNone, SortName, SortPrice, SortCreatedAt, SortUpdatedAt:
		return SortField(s), nil
	}
	switch strings.ToLower(s) {
	case "created_at", "createdat":
		return SortCreatedAt, nil
	case "updated_at", "updatedat":
		return SortUpdatedAt, nil
	}
	return SortNone, NewValidationError("parse sort field", fmt.Errorf("unknown sort field %q", s))
}

// ParseSortOrder converts external input into a SortOrder.
// Anything other than "desc" sorts ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// IsEmpty reports whether the query has no predicate and no sort
func (q Query) IsEmpty() bool {
	return q.Name == "" && q.MinPrice == nil && q.MaxPrice == nil && q.SortField == SortNone
}

// Order returns the effective sort order
func (q Query) Order() SortOrder {
	if q.SortOrder == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// Validate rejects malformed query options
func (q Query) Validate() error {
	if _, err := ParseSortField(string(q.SortField)); err != nil {
		return err
	}
	if q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		return NewValidationError("validate query", fmt.Errorf("unknown sort order %q", q.SortOrder))
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return NewValidationError("validate query", fmt.Errorf("minPrice must not be negative"))
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return NewValidationError("validate query", fmt.Errorf("maxPrice must not be negative"))
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return NewValidationError("validate query",
			fmt.Errorf("minPrice %v exceeds maxPrice %v", *q.MinPrice, *q.MaxPrice))
	}
	return nil
}

// Matches evaluates the filter part of the query against e
func (q Query) Matches(e *Entity) bool {
	if e == nil {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.MinPrice != nil && e.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && e.Price > *q.MaxPrice {
		return false
	}
	return true
}

// Less orders a before b according to the query's sort. It reports false for
// equal keys so a stable sort keeps storage order among ties.
func (q Query) Less(a, b *Entity) bool {
	var cmp int
	switch q.SortField {
	case SortName:
		cmp = strings.Compare(a.Name, b.Name)
	case SortPrice:
		switch {
		case a.Price < b.Price:
			cmp = -1
		case a.Price > b.Price:
			cmp = 1
		}
	case SortCreatedAt:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	case SortUpdatedAt:
		cmp = a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return false
	}
	if q.Order() == SortDesc {
		return cmp > 0
	}
	return cmp < 0
}
