package dynamo

import "math"

// TrigTable is a precomputed sin lookup over one period. Cosine is read
// from the same table a quarter period ahead.
type TrigTable struct {
	sin  []float64
	n    int
	step float64
}

// 4096 entries, ~0.0015 rad resolution
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{
		sin:  make([]float64, n),
		n:    n,
		step: 2 * math.Pi / float64(n),
	}
	for i := 0; i < n; i++ {
		t.sin[i] = math.Sin(float64(i) * t.step)
	}
	return t
}

// Sin returns sin(x) by linear interpolation between table entries.
func (t *TrigTable) Sin(x float64) float64 {
	if !Finite(x) {
		return 0
	}
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x / t.step
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

func (t *TrigTable) Cos(x float64) float64 {
	return t.Sin(x + math.Pi/2)
}

func FastSin(x float64) float64 {
	return DefaultTrigTable.Sin(x)
}

func FastCos(x float64) float64 {
	return DefaultTrigTable.Cos(x)
}
