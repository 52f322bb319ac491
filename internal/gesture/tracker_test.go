package gesture

import (
	"slices"
	"testing"
)

func TestTrackerDragReportedOnce(t *testing.T) {
	tr := NewTracker(DefaultThresholds(), DefaultTimeout)
	tr.Begin(Point{0, 0}, 0)

	first := tr.Move(Point{60, 2}, 0.1)
	if first.Label != HorizontalDrag {
		t.Fatalf("expected horizontal drag, got %v", first.Label)
	}
	if second := tr.Move(Point{80, 2}, 0.2); second.Label != None {
		t.Errorf("drag reported twice: %v", second.Label)
	}
	if !slices.Contains(first.Unlocked, "first_horizontal_drag") {
		t.Errorf("expected first_horizontal_drag unlock, got %v", first.Unlocked)
	}
}

func TestTrackerRelease(t *testing.T) {
	tr := NewTracker(DefaultThresholds(), DefaultTimeout)
	tr.Begin(Point{10, 10}, 1)
	res := tr.End(Point{12, 11}, 1.1)
	if res.Label != Tap {
		t.Errorf("expected tap, got %v", res.Label)
	}
	if tr.Active() {
		t.Error("tracker still active after End")
	}
	if r := tr.End(Point{12, 11}, 1.2); r.Label != None {
		t.Error("End without Begin produced a label")
	}
}

func TestTrackerTimeout(t *testing.T) {
	tr := NewTracker(DefaultThresholds(), DefaultTimeout)
	tr.Begin(Point{0, 0}, 0)
	if res := tr.End(Point{200, 0}, 2); res.Label != None {
		t.Errorf("stale gesture classified as %v", res.Label)
	}
}

func TestTrackerAchievements(t *testing.T) {
	tr := NewTracker(DefaultThresholds(), DefaultTimeout)
	var unlocked []string

	stroke := func(path ...Point) {
		tr.Begin(path[0], 0)
		for _, p := range path[1 : len(path)-1] {
			unlocked = append(unlocked, tr.Move(p, 0.1).Unlocked...)
		}
		unlocked = append(unlocked, tr.End(path[len(path)-1], 0.2).Unlocked...)
	}

	stroke(Point{0, 0}, Point{1, 1})
	stroke(Point{0, 0}, Point{60, 0}, Point{150, 0})
	stroke(Point{0, 0}, Point{0, 60}, Point{0, 150})
	stroke(Point{0, 0}, Point{90, 90})

	if !tr.HasAchievement(MasterAchievement) {
		t.Fatal("master not unlocked after all six labels")
	}
	for i := 0; i < 3; i++ {
		stroke(Point{0, 0}, Point{1, 1})
	}

	want := []string{
		"first_tap",
		"first_horizontal_drag", "first_horizontal_swipe",
		"first_vertical_drag", "first_vertical_swipe",
		"first_diagonal_swipe", MasterAchievement,
	}
	if !slices.Equal(unlocked, want) {
		t.Errorf("unlocked = %v, want %v", unlocked, want)
	}
	if !slices.Equal(tr.Achievements(), want) {
		t.Errorf("Achievements() = %v", tr.Achievements())
	}
	if len(tr.Detected()) != 9 {
		t.Errorf("expected 9 detections, got %d", len(tr.Detected()))
	}
}

func TestTrackerIgnoresNonFinite(t *testing.T) {
	tr := NewTracker(DefaultThresholds(), 0)
	if tr.Begin(Point{X: nan()}, 0) {
		t.Error("Begin accepted NaN")
	}
	if tr.Active() {
		t.Error("tracker active after rejected Begin")
	}
}
