// Package gesture classifies pointer strokes into taps, drags and swipes and
// tracks which gestures a user has discovered.
package gesture

import (
	"math"

	"github.com/san-kum/cardsim/internal/dynamo"
)

type Label string

const (
	None            Label = ""
	Tap             Label = "tap"
	HorizontalSwipe Label = "horizontal_swipe"
	VerticalSwipe   Label = "vertical_swipe"
	DiagonalSwipe   Label = "diagonal_swipe"
	HorizontalDrag  Label = "horizontal_drag"
	VerticalDrag    Label = "vertical_drag"
)

// Labels lists every label Classify can return, excluding None.
var Labels = []Label{Tap, HorizontalSwipe, VerticalSwipe, DiagonalSwipe, HorizontalDrag, VerticalDrag}

func (l Label) IsSwipe() bool {
	return l == HorizontalSwipe || l == VerticalSwipe || l == DiagonalSwipe
}

func (l Label) String() string {
	if l == None {
		return "none"
	}
	return string(l)
}

// Point is a pointer position in pixels.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Len() float64      { return math.Hypot(p.X, p.Y) }
func (p Point) Finite() bool      { return dynamo.Finite(p.X) && dynamo.Finite(p.Y) }

type Sample struct {
	Point
	Time float64
}

// Thresholds are in pixels.
type Thresholds struct {
	MinDisplacement float64
	DragAxis        float64
	DragCross       float64
	TapRadius       float64
	SwipeRatio      float64
	DiagonalMin     float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDisplacement: 50,
		DragAxis:        30,
		DragCross:       10,
		TapRadius:       10,
		SwipeRatio:      2,
		DiagonalMin:     100,
	}
}

// Classify labels a stroke with the default thresholds.
func Classify(start, current Point, end *Point) Label {
	return DefaultThresholds().Classify(start, current, end)
}

// Classify labels a stroke. With end == nil the stroke is still in progress
// and only drags are reported; otherwise start→end decides the release label.
func (th Thresholds) Classify(start, current Point, end *Point) Label {
	if end == nil {
		d := current.Sub(start)
		if !d.Finite() || d.Len() < th.MinDisplacement {
			return None
		}
		ax, ay := math.Abs(d.X), math.Abs(d.Y)
		switch {
		case ax > th.DragAxis && ay < th.DragCross:
			return HorizontalDrag
		case ay > th.DragAxis && ax < th.DragCross:
			return VerticalDrag
		}
		return None
	}

	d := end.Sub(start)
	if !d.Finite() {
		return None
	}
	dist := d.Len()
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	switch {
	case dist < th.TapRadius:
		return Tap
	case dist < th.MinDisplacement:
		return None
	case ax > th.SwipeRatio*ay:
		return HorizontalSwipe
	case ay > th.SwipeRatio*ax:
		return VerticalSwipe
	case dist > th.DiagonalMin:
		return DiagonalSwipe
	}
	return None
}
