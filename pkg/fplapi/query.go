package fplapi

import (
	"net/url"
	"strconv"

	"fpl-go-dashboard/internal/models"
)

// PlayerFilters are the query parameters of GET /players. Nil fields and an
// empty Position are left out of the query string.
type PlayerFilters struct {
	Position      models.Position
	MaxPrice      *float64
	OnlyAvailable *bool
	Limit         *int
}

// Query keys understood by GET /players
const (
	keyPosition      = "position"
	keyMaxPrice      = "max_price"
	keyOnlyAvailable = "only_available"
	keyLimit         = "limit"
)

// Values encodes the filters, omitting unset parameters.
func (f PlayerFilters) Values() url.Values {
	v := url.Values{}
	if f.Position != "" {
		v.Set(keyPosition, string(f.Position))
	}
	if f.MaxPrice != nil {
		v.Set(keyMaxPrice, strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.OnlyAvailable != nil {
		v.Set(keyOnlyAvailable, strconv.FormatBool(*f.OnlyAvailable))
	}
	if f.Limit != nil {
		v.Set(keyLimit, strconv.Itoa(*f.Limit))
	}
	return v
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }
