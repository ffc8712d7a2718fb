package maintenance

import (
	"slices"
	"strings"
	"time"
)

// All is the sentinel meaning "no constraint" for any query predicate.
const All = "all"

// DateRange restricts requests by creation time relative to the moment of evaluation.
type DateRange string

// Date ranges.
const (
	DateRangeAll        DateRange = All
	DateRangeToday      DateRange = "today"
	DateRangeThisWeek   DateRange = "this_week"
	DateRangeThisMonth  DateRange = "this_month"
	DateRangeThisYear   DateRange = "this_year"
	DateRangeLast7Days  DateRange = "last7days"
	DateRangeLast30Days DateRange = "last30days"
)

const day = 24 * time.Hour

// Since returns the inclusive lower bound of d at now, in now's location.
// The second result is false when d imposes no constraint.
func (d DateRange) Since(now time.Time) (time.Time, bool) {
	y, m, dd := now.Date()
	midnight := time.Date(y, m, dd, 0, 0, 0, 0, now.Location())

	switch d {
	case DateRangeToday:
		return midnight, true
	case DateRangeThisWeek:
		return midnight.AddDate(0, 0, -int(midnight.Weekday())), true
	case DateRangeThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
	case DateRangeThisYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()), true
	case DateRangeLast7Days:
		return now.Add(-7 * day), true
	case DateRangeLast30Days:
		return now.Add(-30 * day), true
	default:
		return time.Time{}, false
	}
}

// SortKey selects the ordering of a result set.
type SortKey string

// Sort keys. All of them order descending.
//
// SortPriority, SortStatus and SortCategory compare the raw enum strings, so
// SortPriority yields medium, low, high, emergency rather than severity order.
// SortSeverity is the explicit severity ordering (emergency first).
const (
	SortCreatedAt SortKey = "createdAt"
	SortPriority  SortKey = "priority"
	SortStatus    SortKey = "status"
	SortCategory  SortKey = "category"
	SortSeverity  SortKey = "severity"
)

// ParseSortKey maps s to a sort key, falling back to SortCreatedAt.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortCreatedAt, SortPriority, SortStatus, SortCategory, SortSeverity:
		return SortKey(s)
	}

	return SortCreatedAt
}

// Query is a filter and sort specification. Every predicate is optional: the
// zero value or All disables it, and so does any unrecognised value.
type Query struct {
	Status    Status
	Priority  Priority
	Category  Category
	DateRange DateRange
	Search    string
	SortBy    SortKey
}

// Apply filters requests by q and sorts the matches. The input is not modified.
func Apply(requests []Request, q Query, now time.Time) []Request {
	return Sort(Filter(requests, q, now), q.SortBy)
}

// Filter returns the requests that satisfy every active predicate of q, in input order.
func Filter(requests []Request, q Query, now time.Time) []Request {
	m := newMatcher(q, now)
	out := make([]Request, 0, len(requests))

	for _, r := range requests {
		if m.match(&r) {
			out = append(out, r)
		}
	}

	return out
}

// Matches reports whether r satisfies every active predicate of q.
func Matches(r Request, q Query, now time.Time) bool {
	m := newMatcher(q, now)

	return m.match(&r)
}

// Sort returns a stably sorted copy of requests. Unknown keys sort by SortCreatedAt.
func Sort(requests []Request, key SortKey) []Request {
	out := slices.Clone(requests)
	slices.SortStableFunc(out, comparator(ParseSortKey(string(key))))

	return out
}

func comparator(key SortKey) func(a, b Request) int {
	switch key {
	case SortPriority:
		return func(a, b Request) int { return strings.Compare(string(b.Priority), string(a.Priority)) }
	case SortStatus:
		return func(a, b Request) int { return strings.Compare(string(b.Status), string(a.Status)) }
	case SortCategory:
		return func(a, b Request) int { return strings.Compare(string(b.Category), string(a.Category)) }
	case SortSeverity:
		return func(a, b Request) int { return b.Priority.Severity() - a.Priority.Severity() }
	default:
		return func(a, b Request) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

// matcher is a Query with its inactive predicates resolved away.
type matcher struct {
	status   Status
	priority Priority
	category Category
	since    time.Time
	bySince  bool
	search   string
}

func newMatcher(q Query, now time.Time) matcher {
	var m matcher

	if q.Status.Valid() {
		m.status = q.Status
	}

	if q.Priority.Valid() {
		m.priority = q.Priority
	}

	if q.Category.Valid() {
		m.category = q.Category
	}

	m.since, m.bySince = q.DateRange.Since(now)

	if strings.TrimSpace(q.Search) != "" {
		m.search = strings.ToLower(q.Search)
	}

	return m
}

func (m *matcher) match(r *Request) bool {
	if m.status != "" && r.Status != m.status {
		return false
	}

	if m.priority != "" && r.Priority != m.priority {
		return false
	}

	if m.category != "" && r.Category != m.category {
		return false
	}

	if m.bySince && r.CreatedAt.Before(m.since) {
		return false
	}

	if m.search != "" && !m.matchSearch(r) {
		return false
	}

	return true
}

func (m *matcher) matchSearch(r *Request) bool {
	if containsFold(r.Title, m.search) || containsFold(r.Description, m.search) ||
		containsFold(string(r.Category), m.search) {
		return true
	}

	for _, t := range r.Tags {
		if containsFold(t.Name, m.search) {
			return true
		}
	}

	return false
}

// containsFold reports whether lowered needle occurs in s, ignoring case.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
