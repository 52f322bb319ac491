package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run       RunMetadata  `json:"run"`
	Times     []float64    `json:"times"`
	States    []string     `json:"states"`
	Flipped   []bool       `json:"flipped"`
	Positions [][3]float64 `json:"positions"`
	Rotations [][3]float64 `json:"rotations"`
	Scales    []float64    `json:"scales"`
	Particles []int        `json:"particles"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Run:       *meta,
		Times:     make([]float64, len(frames)),
		States:    make([]string, len(frames)),
		Flipped:   make([]bool, len(frames)),
		Positions: make([][3]float64, len(frames)),
		Rotations: make([][3]float64, len(frames)),
		Scales:    make([]float64, len(frames)),
		Particles: make([]int, len(frames)),
	}
	for i, f := range frames {
		data.Times[i] = f.Time
		data.States[i] = f.State
		data.Flipped[i] = f.Flipped
		data.Positions[i] = f.Transform.Position
		data.Rotations[i] = f.Transform.Rotation
		data.Scales[i] = f.Transform.Scale
		data.Particles[i] = f.Particles
	}
	return data, nil
}

// ExportJSON writes a stored run as one JSON document to path.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(runID, file)
}

func (s *Store) WriteJSON(runID string, w io.Writer) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
