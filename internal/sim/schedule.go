package sim

import "sort"

// Timed is an input scheduled at a simulated time in seconds.
type Timed struct {
	At    float64
	Input Input
}

// Schedule is a Script over a fixed list of timed inputs.
type Schedule struct {
	events []Timed
	next   int
}

func NewSchedule(events []Timed) *Schedule {
	ev := append([]Timed(nil), events...)
	sort.SliceStable(ev, func(i, j int) bool { return ev[i].At < ev[j].At })
	return &Schedule{events: ev}
}

func (s *Schedule) Inputs(t float64) []Input {
	var out []Input
	for s.next < len(s.events) && s.events[s.next].At <= t {
		out = append(out, s.events[s.next].Input)
		s.next++
	}
	return out
}

func (s *Schedule) Remaining() int { return len(s.events) - s.next }

func (s *Schedule) Rewind() { s.next = 0 }
