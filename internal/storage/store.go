package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/cardsim/internal/card"
	"github.com/san-kum/cardsim/internal/dynamo"
	"github.com/san-kum/cardsim/internal/sim"
)

var ErrMalformed = errors.New("storage: malformed trace")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"time", "state", "flipped", "px", "py", "pz", "rx", "ry", "rz", "scale", "particles"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	FPS           float64            `json:"fps"`
	Duration      float64            `json:"duration"`
	Quality       string             `json:"quality"`
	Steps         int                `json:"steps"`
	Digest        string             `json:"digest"`
	Metrics       map[string]float64 `json:"metrics"`
	Notifications map[string]int     `json:"notifications"`
}

// Frame is one row of a stored trace.
type Frame struct {
	Time      float64
	State     string
	Flipped   bool
	Transform dynamo.Transform
	Particles int
}

func (s *Store) Save(scenario string, rc sim.RunConfig, quality string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", scenario, uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	counts := make(map[string]int)
	for _, n := range result.Notifications {
		counts[string(n.Kind)]++
	}

	meta := RunMetadata{
		ID:            runID,
		Scenario:      scenario,
		Timestamp:     time.Now(),
		Seed:          result.Seed,
		FPS:           rc.FPS,
		Duration:      rc.Duration,
		Quality:       quality,
		Steps:         result.StepsTaken,
		Digest:        strconv.FormatUint(result.Digest, 16),
		Metrics:       result.Metrics,
		Notifications: counts,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeFrames(filepath.Join(runDir, framesFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for i := range result.Times {
		tr := result.Transforms[i]
		row := []string{
			ff(result.Times[i]),
			result.States[i].String(),
			strconv.FormatBool(i < len(result.Flipped) && result.Flipped[i]),
			ff(tr.Position[0]), ff(tr.Position[1]), ff(tr.Position[2]),
			ff(tr.Rotation[0]), ff(tr.Rotation[1]), ff(tr.Rotation[2]),
			ff(tr.Scale),
			strconv.Itoa(result.ParticleCounts[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, runID, err)
	}

	return &meta, nil
}

// Latest returns the most recent run id, or "" if there are none.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil || len(runs) == 0 {
		return "", err
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [8]float64
		for j, field := range []int{0, 3, 4, 5, 6, 7, 8, 9} {
			v, err := strconv.ParseFloat(record[field], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s", ErrMalformed, i+1, frameHeader[field])
			}
			vals[j] = v
		}
		flipped, err := strconv.ParseBool(record[2])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d flipped", ErrMalformed, i+1)
		}
		n, err := strconv.Atoi(record[10])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d particles", ErrMalformed, i+1)
		}

		frames = append(frames, Frame{
			Time:    vals[0],
			State:   record[1],
			Flipped: flipped,
			Transform: dynamo.Transform{
				Position: [3]float64{vals[1], vals[2], vals[3]},
				Rotation: [3]float64{vals[4], vals[5], vals[6]},
				Scale:    vals[7],
			},
			Particles: n,
		})
	}

	return frames, nil
}

// Column extracts one numeric series from frames by header name.
func Column(frames []Frame, name string) ([]float64, error) {
	out := make([]float64, len(frames))
	for i, f := range frames {
		switch name {
		case "time":
			out[i] = f.Time
		case "px", "py", "pz":
			out[i] = f.Transform.Position[name[1]-'x']
		case "rx", "ry", "rz":
			out[i] = f.Transform.Rotation[name[1]-'x']
		case "scale":
			out[i] = f.Transform.Scale
		case "particles":
			out[i] = float64(f.Particles)
		case "state":
			out[i] = float64(stateIndex(f.State))
		case "flipped":
			if f.Flipped {
				out[i] = 1
			}
		default:
			return nil, fmt.Errorf("storage: unknown column %q", name)
		}
	}
	return out, nil
}

func stateIndex(name string) int {
	for s := card.Idle; s <= card.Returning; s++ {
		if s.String() == name {
			return int(s)
		}
	}
	return -1
}
