package pipeline

import (
	"encoding/json"

	"relief/internal/core"
)

// Entry names one algorithm by registry tag plus its parameter overrides.
// Params uses the same flag-style key/value pairs the config FromMap
// functions accept, so unknown keys are ignored and missing keys fall back to
// each algorithm's defaults.
type Entry struct {
	Type   string            `json:"type"`
	Params map[string]string `json:"params,omitempty"`
}

// Clone deep-copies the entry.
func (e Entry) Clone() Entry {
	out := Entry{Type: e.Type}
	if e.Params != nil {
		out.Params = make(map[string]string, len(e.Params))
		for k, v := range e.Params {
			out.Params[k] = v
		}
	}
	return out
}

// Preset is an ordered list of generator entries followed by an ordered list
// of smoother entries. Order is a user-visible contract: generators like the
// voronoi peaks compose non-commutatively with earlier stages.
type Preset struct {
	// Reset zeroes the free region before the generators run.
	Reset      bool    `json:"reset"`
	Generators []Entry `json:"generators,omitempty"`
	Smoothers  []Entry `json:"smoothers,omitempty"`
}

// Clone deep-copies the preset and all contained entries, so pipelines never
// alias shared mutable state.
func (p Preset) Clone() Preset {
	out := Preset{Reset: p.Reset}
	if p.Generators != nil {
		out.Generators = make([]Entry, len(p.Generators))
		for i, e := range p.Generators {
			out.Generators[i] = e.Clone()
		}
	}
	if p.Smoothers != nil {
		out.Smoothers = make([]Entry, len(p.Smoothers))
		for i, e := range p.Smoothers {
			out.Smoothers[i] = e.Clone()
		}
	}
	return out
}

// WarnFunc receives non-fatal problems encountered while loading presets.
type WarnFunc func(format string, args ...any)

func (w WarnFunc) warnf(format string, args ...any) {
	if w != nil {
		w(format, args...)
	}
}

// Load parses a JSON preset and drops entries whose type tag is not
// registered, reporting each through warn; the rest of the preset still
// loads.
func Load(data []byte, warn WarnFunc) (Preset, error) {
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, err
	}

	kept := p.Generators[:0]
	for _, e := range p.Generators {
		if _, ok := core.Generators()[e.Type]; !ok {
			warn.warnf("preset: unknown generator type %q, skipping", e.Type)
			continue
		}
		kept = append(kept, e)
	}
	p.Generators = kept

	keptS := p.Smoothers[:0]
	for _, e := range p.Smoothers {
		if _, ok := core.Smoothers()[e.Type]; !ok {
			warn.warnf("preset: unknown smoother type %q, skipping", e.Type)
			continue
		}
		keptS = append(keptS, e)
	}
	p.Smoothers = keptS

	return p, nil
}

// Marshal serializes the preset as indented JSON.
func Marshal(p Preset) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
