// Package stream provides the seeded pseudorandom stream consumed by record
// synthesis. One stream backs both direct draws and faker-generated fields so
// that a record is a pure function of its stream position.
package stream

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"
)

// Stream bundles a seeded PCG source with the views the synthesizer needs:
// plain uniform draws, gofakeit fake data, and an io.Reader for UUID
// generation. All three advance the same underlying source, so the draw
// order within a record fully determines its content.
type Stream struct {
	src   *rand.PCG
	Rand  *rand.Rand
	Faker *gofakeit.Faker
}

// New creates the stream for one record: seed selects the run, index selects
// the record within the run. Identical (seed, index) pairs produce identical
// streams across runs and process restarts.
func New(seed uint64, index int) *Stream {
	src := rand.NewPCG(seed, uint64(index))
	return &Stream{
		src:   src,
		Rand:  rand.New(src),
		Faker: gofakeit.NewFaker(src, false),
	}
}

// Read fills p with bytes drawn from the stream. It never fails; it exists
// so uuid.NewRandomFromReader can draw deterministic identifiers.
func (s *Stream) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], s.Rand.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// IntRange returns a uniform integer in [lo, hi] inclusive.
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Rand.IntN(hi-lo+1)
}

// FloatRange returns a uniform float in [lo, hi).
func (s *Stream) FloatRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.Rand.Float64()*(hi-lo)
}

// Pick returns a uniformly chosen element of items. items must be non-empty.
func Pick[T any](s *Stream, items []T) T {
	return items[s.Rand.IntN(len(items))]
}
