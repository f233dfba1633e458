package core

// Generator assigns or accumulates elevation over the free region of a height
// field. Implementations must only write cells where free reports true; reads
// are unrestricted.
type Generator interface {
	Name() string
	Generate(g *Grid, free FreeFunc)
}

// Smoother relaxes or erodes elevation over the free region. Implementations
// that require the distance field declare it via NeedsDistance; callers must
// refuse to run them without one. Smooth returns an error without mutating the
// grid when its preconditions fail.
type Smoother interface {
	Name() string
	NeedsDistance() bool
	Smooth(g *Grid, free FreeFunc, dist *DistanceField) error
}

// GeneratorFactory constructs a Generator from flag-style key/value pairs.
type GeneratorFactory func(cfg map[string]string) Generator

// SmootherFactory constructs a Smoother from flag-style key/value pairs.
type SmootherFactory func(cfg map[string]string) Smoother

var (
	generators = map[string]GeneratorFactory{}
	smoothers  = map[string]SmootherFactory{}
)

// RegisterGenerator adds a generator factory under the provided type tag.
func RegisterGenerator(name string, f GeneratorFactory) {
	if name == "" || f == nil {
		return
	}
	generators[name] = f
}

// RegisterSmoother adds a smoother factory under the provided type tag.
func RegisterSmoother(name string, f SmootherFactory) {
	if name == "" || f == nil {
		return
	}
	smoothers[name] = f
}

// Generators exposes the registry of generator factories.
func Generators() map[string]GeneratorFactory { return generators }

// Smoothers exposes the registry of smoother factories.
func Smoothers() map[string]SmootherFactory { return smoothers }

// ProgressFunc receives incremental progress from long-running passes. A nil
// callback is always legal.
type ProgressFunc func(stage string, done, total int)

// Report invokes p if it is non-nil.
func (p ProgressFunc) Report(stage string, done, total int) {
	if p != nil {
		p(stage, done, total)
	}
}
