// Package dnc implements the external memory module of a Differentiable
// Neural Computer: a fixed bank of N slots of width W, addressed by learned
// attention distributions with content-based lookup, usage-driven
// allocation, and a temporal link matrix for forward and backward recall.
//
// The module is driven one step at a time by an external recurrent
// controller. Each step the controller emits a flat interface vector
// (decoded by DecodeInterface), the write heads update the memory bank,
// usage, precedence and link matrix, and the read heads return one read
// vector of width W each. The controller internals, gradients and training
// loop live outside this package.
package dnc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports a non-positive memory shape or head count.
	ErrInvalidConfig = errors.New("dnc: invalid configuration")
	// ErrDimension reports an interface vector that does not decompose
	// into the configured slice widths.
	ErrDimension = errors.New("dnc: dimension mismatch")
)

// Config fixes the memory geometry for the lifetime of a Memory.
type Config struct {
	N          int // number of memory slots
	W          int // width of each slot
	ReadHeads  int
	WriteHeads int // commonly 1
}

// Memory is the immutable configuration half of the memory module. All
// mutable per-sequence state lives in State, so one Memory may serve any
// number of sequences, concurrently or not.
type Memory struct {
	cfg Config
}

// New validates cfg and returns a Memory.
func New(cfg Config) (*Memory, error) {
	if cfg.N <= 0 || cfg.W <= 0 {
		return nil, fmt.Errorf("%w: memory shape (%d,%d)", ErrInvalidConfig, cfg.N, cfg.W)
	}
	if cfg.ReadHeads <= 0 {
		return nil, fmt.Errorf("%w: %d read heads", ErrInvalidConfig, cfg.ReadHeads)
	}
	if cfg.WriteHeads <= 0 {
		return nil, fmt.Errorf("%w: %d write heads", ErrInvalidConfig, cfg.WriteHeads)
	}
	return &Memory{cfg: cfg}, nil
}

// Config returns the geometry the Memory was built with.
func (m *Memory) Config() Config {
	return m.cfg
}

// InterfaceLen returns the required length of a raw interface vector.
func (m *Memory) InterfaceLen() int {
	return interfaceLen(m.cfg.WriteHeads, m.cfg.W, m.cfg.ReadHeads)
}

// Step runs one write-then-read cycle and returns the concatenation of all
// read heads' read vectors (length ReadHeads*W). On error the state is left
// untouched.
func (m *Memory) Step(s *State, ifc *Interface) ([]float64, error) {
	if err := m.validate(ifc); err != nil {
		return nil, err
	}
	return m.step(s, ifc), nil
}

// StepRaw decodes a flat controller interface vector and steps.
func (m *Memory) StepRaw(s *State, raw []float64) ([]float64, error) {
	ifc, err := m.DecodeInterface(raw)
	if err != nil {
		return nil, err
	}
	return m.step(s, ifc), nil
}

// Run folds a whole sequence of raw interface vectors through a fresh
// state, strictly in order, and returns the per-step read vectors. The
// state is discarded afterwards.
func (m *Memory) Run(seq [][]float64) ([][]float64, error) {
	s := m.NewState()
	out := make([][]float64, len(seq))
	for t, x := range seq {
		r, err := m.StepRaw(s, x)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", t, err)
		}
		out[t] = r
	}
	return out, nil
}
