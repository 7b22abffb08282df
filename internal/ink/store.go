package ink

import (
	"bytes"
	"image"
	"image/png"
	"slices"
)

// Store maps a slide position to an encoded raster snapshot.
// A missing entry means the slide was never annotated; a blank raster is a
// distinct, present value.
type Store interface {
	Get(index int) ([]byte, bool)
	Put(index int, snapshot []byte)
}

type MemoryStore struct {
	snaps map[int][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: map[int][]byte{}}
}

func (m *MemoryStore) Get(index int) ([]byte, bool) {
	b, ok := m.snaps[index]
	return b, ok
}

func (m *MemoryStore) Put(index int, snapshot []byte) {
	m.snaps[index] = bytes.Clone(snapshot)
}

// Indexes lists annotated slides in ascending order.
func (m *MemoryStore) Indexes() []int {
	out := make([]int, 0, len(m.snaps))
	for i := range m.snaps {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Encode serialises a raster snapshot.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode.
func Decode(snapshot []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(snapshot))
}
