// Package filter narrows and orders the store's in-memory collection for
// display. Every function here is pure: inputs are never modified.
package filter

import (
	"sort"
	"strings"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
)

// Apply returns the listings satisfying every criterion of f, in input order.
func Apply(items []domain.Listing, f domain.Filter) []domain.Listing {
	out := make([]domain.Listing, 0, len(items))
	for _, l := range items {
		if Matches(l, f) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether a single listing satisfies f.
func Matches(l domain.Listing, f domain.Filter) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(l.Name), kw) &&
			!strings.Contains(strings.ToLower(l.Description), kw) {
			return false
		}
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" && !matchesLocation(l, loc) {
		return false
	}
	if !selected(f.County) && l.County != f.County {
		return false
	}
	if !selected(f.Category) && l.Category.Name != f.Category {
		return false
	}
	if l.Rating < f.MinRating {
		return false
	}
	if f.MaxRating != nil && l.Rating > *f.MaxRating {
		return false
	}
	if len(f.EmploymentTypes) > 0 && !matchesEmploymentType(l.EmploymentType, f.EmploymentTypes) {
		return false
	}
	if f.HasSalaryRange() && !overlapsSalary(l, f) {
		return false
	}
	if f.RemoteOnly && !strings.EqualFold(l.LocationType, "Remote") {
		return false
	}
	if f.VerifiedOnly && !l.IsVerified {
		return false
	}
	if f.FeaturedOnly && !l.IsFeatured {
		return false
	}
	return true
}

func matchesLocation(l domain.Listing, loc string) bool {
	for _, v := range []string{l.City, l.County, l.State, l.ZipCode, l.Address} {
		if v != "" && strings.Contains(strings.ToLower(v), loc) {
			return true
		}
	}
	return false
}

// normalizeEmploymentType folds "Full-time", "full time" and "full-time"
// onto one key.
func normalizeEmploymentType(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == '-' || r == '_' }), "-")
}

func matchesEmploymentType(have string, want []string) bool {
	have = normalizeEmploymentType(have)
	if have == "" {
		return false
	}
	for _, w := range want {
		if normalizeEmploymentType(w) == have {
			return true
		}
	}
	return false
}

// overlapsSalary is inclusive at both ends. A listing advertising only a
// minimum is treated as the single point SalaryMin.
func overlapsSalary(l domain.Listing, f domain.Filter) bool {
	lo, hi := l.SalaryMin, l.SalaryMax
	if hi < lo {
		hi = lo
	}
	if hi < f.MinSalary {
		return false
	}
	return f.MaxSalary == nil || lo <= *f.MaxSalary
}

// selected is true when the selection carries no constraint.
func selected(v string) bool {
	return v == "" || v == domain.AllValue
}

// Sort keys accepted by Sort. Anything else keeps the input order.
const (
	SortDefault = "default"
	SortRating  = "rating"
	SortName    = "name"
	SortReviews = "reviews"
	SortNewest  = "newest"
)

// Sort returns a sorted copy of items. The sort is stable so ties keep
// their collection order.
func Sort(items []domain.Listing, key string) []domain.Listing {
	out := make([]domain.Listing, len(items))
	copy(out, items)

	var less func(a, b domain.Listing) bool
	switch key {
	case SortRating:
		less = func(a, b domain.Listing) bool { return a.Rating > b.Rating }
	case SortName:
		less = func(a, b domain.Listing) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortReviews:
		less = func(a, b domain.Listing) bool { return a.ReviewCount > b.ReviewCount }
	case SortNewest:
		less = func(a, b domain.Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Counties lists the distinct non-empty counties in items, sorted.
func Counties(items []domain.Listing) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, l := range items {
		if l.County == "" {
			continue
		}
		if _, ok := seen[l.County]; ok {
			continue
		}
		seen[l.County] = struct{}{}
		out = append(out, l.County)
	}
	sort.Strings(out)
	return out
}

// Stats summarises a collection for the directory header.
type Stats struct {
	Total         int     `json:"total"`
	Verified      int     `json:"verified"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Summarize computes Stats. AverageRating is 0 for an empty collection.
func Summarize(items []domain.Listing) Stats {
	s := Stats{Total: len(items)}
	var ratingSum float64
	for _, l := range items {
		if l.IsVerified {
			s.Verified++
		}
		ratingSum += l.Rating
		s.TotalReviews += l.ReviewCount
	}
	if s.Total > 0 {
		s.AverageRating = ratingSum / float64(s.Total)
	}
	return s
}
