package domain

import (
	"net/url"
	"strconv"
)

// Criteria are the optional server-side query parameters of a list call.
// Zero values are omitted from the query.
type Criteria struct {
	Search       string
	CategoryID   int
	City         string
	County       string
	MinRating    float64
	FeaturedOnly bool
	Ordering     string
	Page         int
}

// PageOrFirst returns the requested page, defaulting to 1.
func (c Criteria) PageOrFirst() int {
	if c.Page < 1 {
		return 1
	}
	return c.Page
}

// Values encodes the criteria as backend query parameters.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.Search != "" {
		v.Set("search", c.Search)
	}
	if c.CategoryID > 0 {
		v.Set("category", strconv.Itoa(c.CategoryID))
	}
	if c.City != "" {
		v.Set("city", c.City)
	}
	if c.County != "" {
		v.Set("county", c.County)
	}
	if c.MinRating > 0 {
		v.Set("rating", strconv.FormatFloat(c.MinRating, 'f', -1, 64))
	}
	if c.FeaturedOnly {
		v.Set("is_featured", "true")
	}
	if c.Ordering != "" {
		v.Set("ordering", c.Ordering)
	}
	if c.Page > 0 {
		v.Set("page", strconv.Itoa(c.Page))
	}
	return v
}

// AllValue is the sentinel selection meaning "no constraint".
const AllValue = "all"

// Filter is the view-local criteria applied to the in-memory collection.
// It never reaches the backend.
//
// MaxRating is nil when the range has no upper bound, so [0,0] selects
// unrated listings only. The salary range is active when either bound is
// set and keeps listings whose advertised range overlaps it.
type Filter struct {
	Keyword         string
	Location        string
	County          string
	Category        string
	MinRating       float64
	MaxRating       *float64
	EmploymentTypes []string
	MinSalary       float64
	MaxSalary       *float64
	RemoteOnly      bool
	VerifiedOnly    bool
	FeaturedOnly    bool
	SortBy          string
}

// HasSalaryRange reports whether the salary criterion applies.
func (f Filter) HasSalaryRange() bool {
	return f.MinSalary > 0 || f.MaxSalary != nil
}

// DefaultFilter matches everything, like a freshly mounted filter panel.
func DefaultFilter() Filter {
	return Filter{
		County:   AllValue,
		Category: AllValue,
		SortBy:   "default",
	}
}
