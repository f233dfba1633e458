package distfield

import (
	"encoding/binary"
	"fmt"

	"relief/internal/core"
)

// Encode serializes a field as little-endian int32 width, int32 height, then
// width*height row-major int32 distances (sentinel stored as max int32).
func Encode(f *core.DistanceField) []byte {
	buf := make([]byte, 8+4*len(f.Cells()))
	binary.LittleEndian.PutUint32(buf[0:], uint32(int32(f.W)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(int32(f.H)))
	for i, d := range f.Cells() {
		binary.LittleEndian.PutUint32(buf[8+4*i:], uint32(d))
	}
	return buf
}

// Decode parses a blob produced by Encode. It rejects malformed headers and
// truncated payloads.
func Decode(blob []byte) (*core.DistanceField, error) {
	if len(blob) < 8 {
		return nil, fmt.Errorf("distfield: blob too short (%d bytes)", len(blob))
	}
	w := int(int32(binary.LittleEndian.Uint32(blob[0:])))
	h := int(int32(binary.LittleEndian.Uint32(blob[4:])))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("distfield: invalid stored resolution %dx%d", w, h)
	}
	want := 8 + 4*w*h
	if len(blob) != want {
		return nil, fmt.Errorf("distfield: blob length %d, want %d for %dx%d", len(blob), want, w, h)
	}
	field := core.NewDistanceField(w, h)
	cells := field.Cells()
	for i := range cells {
		cells[i] = int32(binary.LittleEndian.Uint32(blob[8+4*i:]))
	}
	return field, nil
}
