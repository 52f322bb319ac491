package particles

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Buffer is the flat per-particle render data: 3 floats per position and
// color, one per size and alpha.
type Buffer struct {
	Positions []float32
	Colors    []float32
	Sizes     []float32
	Alphas    []float32
	Count     int
}

func (b *Buffer) reset() {
	b.Positions = b.Positions[:0]
	b.Colors = b.Colors[:0]
	b.Sizes = b.Sizes[:0]
	b.Alphas = b.Alphas[:0]
	b.Count = 0
}

func (b *Buffer) push(p *Particle) {
	b.Positions = append(b.Positions, float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2]))
	b.Colors = append(b.Colors, float32(p.Color.R), float32(p.Color.G), float32(p.Color.B))
	b.Sizes = append(b.Sizes, float32(p.Size))
	b.Alphas = append(b.Alphas, float32(p.Opacity))
	b.Count++
}

// Clone returns a deep copy safe to hand to another goroutine.
func (b Buffer) Clone() Buffer {
	return Buffer{
		Positions: append([]float32(nil), b.Positions...),
		Colors:    append([]float32(nil), b.Colors...),
		Sizes:     append([]float32(nil), b.Sizes...),
		Alphas:    append([]float32(nil), b.Alphas...),
		Count:     b.Count,
	}
}

// Digest hashes the buffer contents.
func (b Buffer) Digest() uint64 {
	h := xxhash.New()
	var word [4]byte
	for _, s := range [][]float32{b.Positions, b.Colors, b.Sizes, b.Alphas} {
		for _, f := range s {
			binary.LittleEndian.PutUint32(word[:], math.Float32bits(f))
			h.Write(word[:])
		}
	}
	return h.Sum64()
}
