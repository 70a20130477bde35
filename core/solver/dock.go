package solver

import "sort"

// dockSchedule tracks committed depot loading intervals. All loadings share
// the configured duration; at no instant may more than capacity of them
// overlap.
type dockSchedule struct {
	capacity int
	duration int
	starts   []int
}

func newDockSchedule(capacity, duration int) *dockSchedule {
	return &dockSchedule{capacity: capacity, duration: duration}
}

// overlapping counts committed intervals overlapping [t, t+duration).
func (d *dockSchedule) overlapping(t int) int {
	n := 0
	for _, s := range d.starts {
		if s < t+d.duration && t < s+d.duration {
			n++
		}
	}
	return n
}

// earliestSlot returns the earliest loading start >= after and <= latest with
// a free dock position. Candidate instants are after itself and the ends of
// committed intervals; with uniform durations no earlier start can become
// feasible between those points.
func (d *dockSchedule) earliestSlot(after, latest int) (int, bool) {
	if d.capacity <= 0 {
		return 0, false
	}
	if d.duration <= 0 {
		if after > latest {
			return 0, false
		}
		return after, true
	}
	candidates := []int{after}
	for _, s := range d.starts {
		if end := s + d.duration; end > after {
			candidates = append(candidates, end)
		}
	}
	sort.Ints(candidates)
	for _, t := range candidates {
		if t > latest {
			break
		}
		if d.overlapping(t) < d.capacity {
			return t, true
		}
	}
	return 0, false
}

// commit reserves a loading interval starting at t.
func (d *dockSchedule) commit(t int) { d.starts = append(d.starts, t) }

// release frees one previously committed interval starting at t.
func (d *dockSchedule) release(t int) {
	for i, s := range d.starts {
		if s == t {
			d.starts = append(d.starts[:i], d.starts[i+1:]...)
			return
		}
	}
}
