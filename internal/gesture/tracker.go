package gesture

import "github.com/san-kum/cardsim/internal/dynamo"

const (
	DefaultTimeout    = 1.5
	MasterAchievement = "gesture_master"
)

// Result describes one tracker update.
type Result struct {
	Label    Label
	Start    Point
	End      Point
	Unlocked []string
}

// Tracker follows one pointer stroke at a time. It keeps only the first and
// last sample of the active stroke.
type Tracker struct {
	th      Thresholds
	timeout float64

	active   bool
	start    Sample
	last     Sample
	reported map[Label]bool

	detected     []Label
	seen         map[Label]bool
	achievements map[string]bool
	order        []string
}

func NewTracker(th Thresholds, timeout float64) *Tracker {
	if timeout <= 0 || !dynamo.Finite(timeout) {
		timeout = DefaultTimeout
	}
	return &Tracker{
		th:           th,
		timeout:      timeout,
		reported:     make(map[Label]bool),
		seen:         make(map[Label]bool),
		achievements: make(map[string]bool),
	}
}

func (t *Tracker) Active() bool { return t.active }

// Begin starts a stroke, discarding any unfinished one.
func (t *Tracker) Begin(p Point, at float64) bool {
	if !p.Finite() || !dynamo.Finite(at) {
		return false
	}
	t.active = true
	t.start = Sample{Point: p, Time: at}
	t.last = t.start
	clear(t.reported)
	return true
}

// Move updates the stroke. A drag label is returned the first time it is
// recognised within a stroke; later moves report None.
func (t *Tracker) Move(p Point, at float64) Result {
	if !t.active || !p.Finite() || !dynamo.Finite(at) {
		return Result{}
	}
	t.last = Sample{Point: p, Time: at}

	label := t.th.Classify(t.start.Point, p, nil)
	if label == None || t.reported[label] {
		return Result{}
	}
	t.reported[label] = true
	return t.record(label, p)
}

// End finishes the stroke. Strokes older than the timeout are discarded.
func (t *Tracker) End(p Point, at float64) Result {
	if !t.active {
		return Result{}
	}
	t.active = false
	if !p.Finite() || !dynamo.Finite(at) {
		return Result{}
	}
	if at-t.start.Time > t.timeout {
		return Result{}
	}

	label := t.th.Classify(t.start.Point, p, &p)
	if label == None {
		return Result{}
	}
	return t.record(label, p)
}

func (t *Tracker) Cancel() {
	t.active = false
	clear(t.reported)
}

func (t *Tracker) record(label Label, end Point) Result {
	res := Result{Label: label, Start: t.start.Point, End: end}
	t.detected = append(t.detected, label)
	if !t.seen[label] {
		t.seen[label] = true
		res.Unlocked = append(res.Unlocked, t.unlock("first_"+string(label))...)
	}
	if len(t.seen) == len(Labels) {
		res.Unlocked = append(res.Unlocked, t.unlock(MasterAchievement)...)
	}
	return res
}

func (t *Tracker) unlock(name string) []string {
	if t.achievements[name] {
		return nil
	}
	t.achievements[name] = true
	t.order = append(t.order, name)
	return []string{name}
}

// Detected returns every label recorded so far, in order.
func (t *Tracker) Detected() []Label {
	return append([]Label(nil), t.detected...)
}

// Achievements returns unlocked achievement names in unlock order.
func (t *Tracker) Achievements() []string {
	return append([]string(nil), t.order...)
}

func (t *Tracker) HasAchievement(name string) bool { return t.achievements[name] }
