package core

import "testing"

func TestSeededStreamsMatch(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)
	for i := 0; i < 32; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed must produce the same stream")
		}
	}
}

func TestZeroSeedIsUnseeded(t *testing.T) {
	a := NewRNG(0)
	b := NewRNG(0)
	same := true
	for i := 0; i < 32; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	if same {
		t.Fatal("seed 0 should draw from the clock, not a fixed stream")
	}
}

func TestRangeBounds(t *testing.T) {
	r := NewRNG(5)
	for i := 0; i < 100; i++ {
		v := r.Range(0.25, 0.75)
		if v < 0.25 || v >= 0.75 {
			t.Fatalf("value %v outside [0.25, 0.75)", v)
		}
	}
	if r.IntN(0) != 0 {
		t.Fatal("IntN with non-positive bound must return 0")
	}
}
