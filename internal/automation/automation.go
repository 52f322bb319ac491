package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/san-kum/cardsim/internal/sim"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrUnknownInput = errors.New("automation: unknown input")

// Scenario is a scripted interaction sequence.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	FPS         float64 `yaml:"fps"`
	Duration    float64 `yaml:"duration"`
	Events      []Event `yaml:"events"`
}

// Event is one scheduled input. Input is the kind name (click, key,
// pointer-move, ...).
type Event struct {
	At      float64 `yaml:"at"`
	Input   string  `yaml:"input"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	Outside bool    `yaml:"outside,omitempty"`
	Key     string  `yaml:"key,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if _, err := scenario.Timed(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (e Event) ToInput() (sim.Input, error) {
	kind, err := sim.ParseInputKind(e.Input)
	if err != nil {
		return sim.Input{}, fmt.Errorf("%w: %q", ErrUnknownInput, e.Input)
	}
	in := sim.Input{Kind: kind, X: e.X, Y: e.Y, Outside: e.Outside, Key: sim.Key(e.Key)}
	if kind == sim.KeyPress {
		switch in.Key {
		case sim.KeyFlip, sim.KeyEscape, sim.KeyReset, sim.KeyQualityLow,
			sim.KeyQualityMedium, sim.KeyQualityHigh, sim.KeyAutoRotate:
		default:
			return sim.Input{}, fmt.Errorf("%w: key %q", ErrUnknownInput, e.Key)
		}
	}
	return in, nil
}

func (s *Scenario) Timed() ([]sim.Timed, error) {
	out := make([]sim.Timed, 0, len(s.Events))
	for i, e := range s.Events {
		in, err := e.ToInput()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		out = append(out, sim.Timed{At: e.At, Input: in})
	}
	return out, nil
}

// Script returns a fresh schedule over the scenario's events.
func (s *Scenario) Script() (*sim.Schedule, error) {
	timed, err := s.Timed()
	if err != nil {
		return nil, err
	}
	return sim.NewSchedule(timed), nil
}

// RunConfig fills in frame rate and duration, falling back to the given
// defaults and to the last event time plus two seconds.
func (s *Scenario) RunConfig(defaultFPS, defaultDuration float64) sim.RunConfig {
	rc := sim.RunConfig{FPS: s.FPS, Duration: s.Duration}
	if rc.FPS <= 0 {
		rc.FPS = defaultFPS
	}
	if rc.Duration <= 0 {
		rc.Duration = defaultDuration
		for _, e := range s.Events {
			rc.Duration = math.Max(rc.Duration, e.At+2)
		}
	}
	return rc
}

// RunScenario replays the scenario on a session.
func RunScenario(ctx context.Context, scenario *Scenario, session *sim.Session, rc sim.RunConfig) (*sim.Result, error) {
	script, err := scenario.Script()
	if err != nil {
		return nil, err
	}
	return session.Run(ctx, rc, script)
}

// Play replays the scenario and hands every snapshot to observe.
func Play(ctx context.Context, scenario *Scenario, session *sim.Session, rc sim.RunConfig, observe func(sim.Snapshot) bool) error {
	script, err := scenario.Script()
	if err != nil {
		return err
	}
	return session.RunWithCallback(ctx, rc, script, observe)
}

// Showcase walks through every card interaction.
func Showcase() *Scenario {
	return &Scenario{
		Name:        "showcase",
		Description: "hover, lift, tilt, flip twice, swipe away, reset",
		FPS:         60,
		Duration:    12,
		Events: []Event{
			{At: 0.2, Input: "pointer-enter"},
			{At: 0.5, Input: "click"},
			{At: 1.5, Input: "pointer-move", X: 0.6, Y: -0.4},
			{At: 2.5, Input: "key", Key: "flip"},
			{At: 4.0, Input: "pointer-down", X: 100, Y: 300},
			{At: 4.1, Input: "pointer-drag", X: 260, Y: 302},
			{At: 4.2, Input: "pointer-up", X: 520, Y: 310},
			{At: 6.0, Input: "pointer-down", X: 400, Y: 100},
			{At: 6.2, Input: "pointer-up", X: 405, Y: 450},
			{At: 7.5, Input: "key", Key: "auto-rotate"},
			{At: 10.0, Input: "key", Key: "reset"},
		},
	}
}

// ParameterSweep runs a scenario across a range of one physics parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Run       sim.RunConfig
}

type SweepResult struct {
	ParamValue float64
	FinalY     float64
	MaxSpeed   float64
	Settled    bool
}

func setPhysicsParam(cfg *sim.Config, name string, v float64) error {
	switch name {
	case "gravity":
		cfg.Physics.Gravity = v
	case "friction":
		cfg.Physics.Friction = v
	case "spring_stiffness":
		cfg.Physics.SpringStiffness = v
	case "spring_damping":
		cfg.Physics.SpringDamping = v
	case "bounce_damping":
		cfg.Physics.BounceDamping = v
	case "angular_damping":
		cfg.Physics.AngularDamping = v
	default:
		return fmt.Errorf("automation: parameter %q is not tunable", name)
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base sim.Config, scenario *Scenario, log *zap.Logger) ([]SweepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base
		if err := setPhysicsParam(&cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		session, err := sim.NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%.4f: %w", sweep.ParamName, paramVal, err)
		}
		result, err := RunScenario(ctx, scenario, session, sweep.Run)
		if err != nil {
			return nil, err
		}

		var maxSpeed float64
		for j := 1; j < len(result.Transforms); j++ {
			dt := result.Times[j] - result.Times[j-1]
			if dt <= 0 {
				continue
			}
			v := result.Transforms[j].Position.Sub(result.Transforms[j-1].Position).Len() / dt
			maxSpeed = math.Max(maxSpeed, v)
		}
		final := result.Transforms[len(result.Transforms)-1]

		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalY:     final.Position.Y(),
			MaxSpeed:   maxSpeed,
			Settled:    math.Abs(final.Position.Y()-cfg.Card.IdleHeight) < 0.1,
		})

		log.Info("sweep step", zap.Int("step", i+1), zap.Int("of", sweep.NumSteps),
			zap.String("param", sweep.ParamName), zap.Float64("value", paramVal))
	}

	return results, nil
}

// MonteCarloConfig drives sessions with random input streams.
type MonteCarloConfig struct {
	NumTrials int
	Inputs    int // per trial
	Run       sim.RunConfig
	Seed      int64
}

type MonteCarloResult struct {
	TrialID   int
	Inputs    int
	Stable    bool // transform stayed finite and bounded
	Particles int  // peak live particles
}

// RandomInput draws an arbitrary input, including non-finite coordinates.
func RandomInput(rng *rand.Rand) sim.Input {
	coord := func(scale float64) float64 {
		switch rng.Intn(20) {
		case 0:
			return math.NaN()
		case 1:
			return math.Inf(1 - 2*rng.Intn(2))
		}
		return (rng.Float64()*2 - 1) * scale
	}
	keys := []sim.Key{sim.KeyFlip, sim.KeyEscape, sim.KeyReset, sim.KeyQualityLow, sim.KeyQualityMedium, sim.KeyQualityHigh, sim.KeyAutoRotate}

	switch kind := sim.InputKind(rng.Intn(int(sim.KeyPress) + 1)); kind {
	case sim.PointerMove:
		return sim.Move(coord(1.5), coord(1.5))
	case sim.PointerDown, sim.PointerDrag, sim.PointerUp:
		return sim.Input{Kind: kind, X: coord(800), Y: coord(600)}
	case sim.Click:
		return sim.Input{Kind: sim.Click, Outside: rng.Intn(2) == 0}
	case sim.KeyPress:
		return sim.Press(keys[rng.Intn(len(keys))])
	default:
		return sim.Input{Kind: kind}
	}
}

// RunMonteCarlo executes trials with random inputs and checks the card
// stays numerically sane.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, base sim.Config, log *zap.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]MonteCarloResult, 0, mc.NumTrials)
	rng := rand.New(rand.NewSource(mc.Seed))

	for trial := 0; trial < mc.NumTrials; trial++ {
		events := make([]sim.Timed, mc.Inputs)
		for i := range events {
			events[i] = sim.Timed{At: rng.Float64() * mc.Run.Duration, Input: RandomInput(rng)}
		}

		cfg := base
		cfg.Seed = mc.Seed + int64(trial)
		session, err := sim.NewSession(cfg)
		if err != nil {
			return nil, err
		}

		stable := true
		peak := 0
		err = session.RunWithCallback(ctx, mc.Run, sim.NewSchedule(events), func(s sim.Snapshot) bool {
			peak = max(peak, s.Particles.Count)
			if !s.Transform.IsValid() || s.Transform.Position.Len() > 100 {
				stable = false
				return false
			}
			return true
		})
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Inputs:    mc.Inputs,
			Stable:    stable,
			Particles: peak,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", zap.Int("done", trial+1), zap.Int("trials", mc.NumTrials))
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
