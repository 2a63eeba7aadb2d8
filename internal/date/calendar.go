package date

import "sort"

// Range is an inclusive span of dates.
type Range struct{ From, To Date }

// Contains reports whether d lies in the range, boundaries included.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// BusinessDays returns every Monday-Friday date in [from, to], ascending.
// The result is empty when from is after to.
func BusinessDays(from, to Date) []Date {
	var days []Date
	for d := from; !d.After(to); d = d.Add(1) {
		if d.IsBusinessDay() {
			days = append(days, d)
		}
	}
	return days
}

// Set is an unordered collection of distinct dates.
type Set map[Date]struct{}

// NewSet returns a set holding the given dates.
func NewSet(dates ...Date) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts d.
func (s Set) Add(d Date) { s[d] = struct{}{} }

// Has reports whether d is in the set.
func (s Set) Has(d Date) bool {
	_, ok := s[d]
	return ok
}

// Difference returns the dates of s that are not in x.
func (s Set) Difference(x Set) Set {
	out := make(Set, len(s))
	for d := range s {
		if !x.Has(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
