package calendar

import (
	"sort"

	"innsync/internal/domain/shared/daterange"
)

// PeriodSet tracks which date ranges have already been fetched from the
// upstream for one unit. Spans are kept sorted and disjoint: adding a range
// that overlaps or touches existing spans coalesces them, so two adjacent
// fetches (Jan..Mar followed by Feb..Apr) answer coverage for their union.
type PeriodSet struct {
	spans []daterange.DateRange
}

// Add records r as loaded, merging it with any overlapping or adjacent spans.
func (s *PeriodSet) Add(r daterange.DateRange) {
	merged := r
	kept := s.spans[:0]
	for _, span := range s.spans {
		if m, ok := merged.Merge(span); ok {
			merged = m
			continue
		}
		kept = append(kept, span)
	}
	s.spans = append(kept, merged)
	sort.Slice(s.spans, func(i, j int) bool {
		return s.spans[i].Start.Before(s.spans[j].Start)
	})
}

// Covers reports whether r lies entirely inside one loaded span. Spans are
// disjoint, so containment by a single span is the only way to be covered.
func (s PeriodSet) Covers(r daterange.DateRange) bool {
	for _, span := range s.spans {
		if span.Contains(r) {
			return true
		}
	}
	return false
}

// Overlapping returns every loaded span that intersects r.
func (s PeriodSet) Overlapping(r daterange.DateRange) []daterange.DateRange {
	var out []daterange.DateRange
	for _, span := range s.spans {
		if span.Overlaps(r) {
			out = append(out, span)
		}
	}
	return out
}

// Spans returns a copy of the loaded spans in chronological order.
func (s PeriodSet) Spans() []daterange.DateRange {
	out := make([]daterange.DateRange, len(s.spans))
	copy(out, s.spans)
	return out
}

func (s PeriodSet) Len() int { return len(s.spans) }

// Clear forgets every loaded span, forcing the next load to fetch.
func (s *PeriodSet) Clear() {
	s.spans = nil
}

func (s PeriodSet) clone() PeriodSet {
	return PeriodSet{spans: s.Spans()}
}
