package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
)

func (rc RunConfig) validate() error {
	if !dynamo.Finite(rc.FPS) || rc.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %f", rc.FPS)
	}
	if !dynamo.Finite(rc.Duration) || rc.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", rc.Duration)
	}
	return nil
}

func (rc RunConfig) steps() int {
	return int(math.Round(rc.Duration * rc.FPS))
}

// Run drives the session at a fixed frame rate for rc.Duration, feeding
// script inputs before each frame.
func (s *Session) Run(ctx context.Context, rc RunConfig, script Script) (*Result, error) {
	if err := rc.validate(); err != nil {
		return nil, err
	}

	steps := rc.steps()
	result := &Result{
		Times:          make([]float64, 0, steps+1),
		Transforms:     make([]dynamo.Transform, 0, steps+1),
		States:         make([]card.State, 0, steps+1),
		Flipped:        make([]bool, 0, steps+1),
		ParticleCounts: make([]int, 0, steps+1),
		Metrics:        make(map[string]float64),
		Seed:           s.cfg.Seed,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	record := func(snap Snapshot) {
		result.Times = append(result.Times, snap.Time)
		result.Transforms = append(result.Transforms, snap.Transform)
		result.States = append(result.States, snap.State)
		result.Flipped = append(result.Flipped, snap.Flipped)
		result.ParticleCounts = append(result.ParticleCounts, snap.Particles.Count)
		result.Notifications = append(result.Notifications, snap.Notifications...)
	}
	record(s.snapshot(nil))

	dt := 1 / rc.FPS
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if script != nil {
			for _, in := range script.Inputs(s.clock) {
				s.Handle(in)
			}
		}

		snap := s.Tick(dt)
		record(snap)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Digest = s.pool.Buffer().Digest()

	return result, nil
}

// RunWithCallback is Run without recording. The callback sees every
// snapshot and stops the run by returning false.
func (s *Session) RunWithCallback(ctx context.Context, rc RunConfig, script Script, callback func(Snapshot) bool) error {
	if err := rc.validate(); err != nil {
		return err
	}

	dt := 1 / rc.FPS
	for i, steps := 0, rc.steps(); i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if script != nil {
			for _, in := range script.Inputs(s.clock) {
				s.Handle(in)
			}
		}

		if !callback(s.Tick(dt)) {
			return nil
		}
	}

	return nil
}
