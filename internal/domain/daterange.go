package domain

import (
	"fmt"
	"slices"
)

// DateRange is an inclusive interval of days. A range whose start is after its
// end is empty.
type DateRange struct {
	Start TimePoint
	End   TimePoint
}

// EmptyRange is returned by Gap when ranges overlap.
var EmptyRange = DateRange{Start: NewTimePoint(2000, 4, 1), End: NewTimePoint(2000, 1, 1)}

// NewDateRange returns the range from start to end, both inclusive.
func NewDateRange(start, end TimePoint) DateRange {
	return DateRange{Start: start, End: end}
}

// UpTo is open at the start.
func UpTo(end TimePoint) DateRange {
	return DateRange{Start: Past, End: end}
}

// StartingOn is open at the end.
func StartingOn(start TimePoint) DateRange {
	return DateRange{Start: start, End: Future}
}

// Includes reports whether p lies within the range, both ends inclusive.
func (r DateRange) Includes(p TimePoint) bool {
	return !p.Before(r.Start) && !p.After(r.End)
}

// IncludesRange reports whether other lies entirely within r.
func (r DateRange) IncludesRange(other DateRange) bool {
	return r.Includes(other.Start) && r.Includes(other.End)
}

// IsEmpty reports whether the range ends before it starts.
func (r DateRange) IsEmpty() bool {
	return r.Start.After(r.End)
}

// Overlaps reports whether the ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return other.Includes(r.Start) || other.Includes(r.End) || r.IncludesRange(other)
}

// Gap returns the days strictly between two non-overlapping ranges.
func (r DateRange) Gap(other DateRange) DateRange {
	if r.Overlaps(other) {
		return EmptyRange
	}

	lower, higher := r, other
	if r.Compare(other) > 0 {
		lower, higher = other, r
	}

	return DateRange{Start: lower.End.AddDays(1), End: higher.Start.AddDays(-1)}
}

// Abuts reports whether the ranges touch without overlapping.
func (r DateRange) Abuts(other DateRange) bool {
	return !r.Overlaps(other) && r.Gap(other).IsEmpty()
}

// Compare orders by start, then by end.
func (r DateRange) Compare(other DateRange) int {
	if c := r.Start.Compare(other.Start); c != 0 {
		return c
	}
	return r.End.Compare(other.End)
}

// Equal reports whether both ends match.
func (r DateRange) Equal(other DateRange) bool {
	return r.Compare(other) == 0
}

// PartitionedBy reports whether the ranges are contiguous and exactly cover r.
func (r DateRange) PartitionedBy(ranges ...DateRange) bool {
	combined, err := Combine(ranges...)
	if err != nil {
		return false
	}
	return r.Equal(combined)
}

// String formats the range as start - end.
func (r DateRange) String() string {
	if r.IsEmpty() {
		return "empty range"
	}
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// IsContiguous reports whether the ranges, once sorted, abut one another.
func IsContiguous(ranges ...DateRange) bool {
	sorted := sortedRanges(ranges)
	for i := 0; i < len(sorted)-1; i++ {
		if !sorted[i].Abuts(sorted[i+1]) {
			return false
		}
	}
	return true
}

// Combine joins contiguous ranges into one.
func Combine(ranges ...DateRange) (DateRange, error) {
	if len(ranges) == 0 || !IsContiguous(ranges...) {
		return DateRange{}, ErrNonContiguousRanges
	}

	sorted := sortedRanges(ranges)

	return DateRange{Start: sorted[0].Start, End: sorted[len(sorted)-1].End}, nil
}

func sortedRanges(ranges []DateRange) []DateRange {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, DateRange.Compare)
	return sorted
}
