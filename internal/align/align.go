// Package align implements point-in-time joins between a primary event
// sequence and an irregularly sampled secondary series, keyed by an
// optional grouping identifier. Both policies run in O((n+m) log m)
// via per-group binary search instead of a cross join.
package align

import (
	"sort"
	"time"
)

// Point is one primary event to align: its timestamp and grouping key.
// Key may be empty when the secondary series is not grouped.
type Point struct {
	Time time.Time
	Key  string
}

// By supplies the timestamp and grouping-key accessors for a secondary
// record type. Key may be nil for ungrouped series.
type By[S any] struct {
	Time func(S) time.Time
	Key  func(S) string
}

// Backward aligns each event with the secondary record having the
// latest timestamp ≤ the event's timestamp within the same group.
// Events with no qualifying record map to nil: a cycle predating every
// soil analysis stays unenriched rather than borrowing from the future.
//
// The series must be pre-sorted ascending by timestamp; among records
// sharing a timestamp the later one in input order wins.
func Backward[S any](events []Point, series []S, by By[S]) []*S {
	groups := groupIndex(series, by)

	out := make([]*S, len(events))
	for i, ev := range events {
		idx := groups[ev.Key]
		// Rightmost record with time ≤ ev.Time.
		n := sort.Search(len(idx), func(j int) bool {
			return by.Time(series[idx[j]]).After(ev.Time)
		})
		if n == 0 {
			continue
		}
		out[i] = &series[idx[n-1]]
	}
	return out
}

// Nearest aligns each event with the secondary record minimizing the
// absolute time distance within the same group, in either direction.
// Equidistant candidates resolve toward the earlier timestamp. Events
// whose group has no records map to nil.
//
// The series must be pre-sorted ascending by timestamp.
func Nearest[S any](events []Point, series []S, by By[S]) []*S {
	groups := groupIndex(series, by)

	out := make([]*S, len(events))
	for i, ev := range events {
		idx := groups[ev.Key]
		if len(idx) == 0 {
			continue
		}
		// First record with time > ev.Time; candidates are n-1 and n.
		n := sort.Search(len(idx), func(j int) bool {
			return by.Time(series[idx[j]]).After(ev.Time)
		})
		switch {
		case n == 0:
			out[i] = &series[idx[0]]
		case n == len(idx):
			out[i] = &series[idx[n-1]]
		default:
			before := ev.Time.Sub(by.Time(series[idx[n-1]]))
			after := by.Time(series[idx[n]]).Sub(ev.Time)
			if before <= after {
				out[i] = &series[idx[n-1]]
			} else {
				out[i] = &series[idx[n]]
			}
		}
	}
	return out
}

// groupIndex buckets series indices by group key, preserving input
// order within each bucket.
func groupIndex[S any](series []S, by By[S]) map[string][]int {
	groups := make(map[string][]int)
	for i, s := range series {
		key := ""
		if by.Key != nil {
			key = by.Key(s)
		}
		groups[key] = append(groups[key], i)
	}
	return groups
}
