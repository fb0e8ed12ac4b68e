package domain

import "time"

// Dated is anything carrying an inclusive calendar range.
type Dated interface {
	Range() DateRange
}

// DateRange is an inclusive [Start, End] span of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Duration is the inclusive day count of the range, always >= 1 for a valid range.
func (r DateRange) Duration() int {
	return InclusiveDays(r.Start, r.End)
}

// Contains reports whether other lies within r.
func (r DateRange) Contains(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Reconcile returns the minimal range enclosing every child. The boolean is
// false for an empty input, in which case the caller keeps its previous range.
func Reconcile[T Dated](children []T) (DateRange, bool) {
	if len(children) == 0 {
		return DateRange{}, false
	}
	out := children[0].Range()
	for _, c := range children[1:] {
		r := c.Range()
		if r.Start.Before(out.Start) {
			out.Start = r.Start
		}
		if r.End.After(out.End) {
			out.End = r.End
		}
	}
	return out, true
}
