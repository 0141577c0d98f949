package dnc

import (
	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
)

// State is all memory-module state that persists across the steps of one
// sequence. A State belongs to exactly one sequence: it is zeroed at the
// sequence start, threaded through every step in order, and discarded when
// the sequence ends. States of different sequences share nothing and may be
// stepped concurrently.
type State struct {
	Memory     blas64.General // N x W slot contents
	Usage      []float64      // per-slot usage in [0,1]; 0 means free
	Precedence []float64      // emphasis of the most recent writes
	Link       blas64.General // N x N; (i,j) ~ "i written right after j"
	ReadW      [][]float64    // previous read weighting per read head
	WriteW     [][]float64    // previous write weighting per write head
}

// NewState returns the zeroed per-sequence state for m.
func (m *Memory) NewState() *State {
	n, w := m.cfg.N, m.cfg.W
	return &State{
		Memory:     blas64.General{Rows: n, Cols: w, Stride: w, Data: make([]float64, n*w)},
		Usage:      make([]float64, n),
		Precedence: make([]float64, n),
		Link:       blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)},
		ReadW:      makeTensor2(m.cfg.ReadHeads, n),
		WriteW:     makeTensor2(m.cfg.WriteHeads, n),
	}
}

// step runs one write-then-read cycle against a validated Interface and
// returns the concatenated read vectors.
func (m *Memory) step(s *State, ifc *Interface) []float64 {
	updateUsage(s.Usage, s.WriteW, s.ReadW, ifc.FreeGates)

	// Write heads apply in index order. Each head's erase/add, precedence
	// and link updates are visible to the next head; allocation within one
	// step works off the usage derived from the previous step's writes.
	for h := range ifc.Writes {
		wp := &ifc.Writes[h]
		content := contentWeighting(s.Memory, wp.Key, wp.Strength)
		alloc := allocationWeighting(s.Usage)
		w := writeWeighting(alloc, content, wp.AllocGate, wp.WriteGate)

		eraseAdd(s.Memory, w, wp.Erase, wp.Add)
		updateLink(s.Link, w, s.Precedence)
		updatePrecedence(s.Precedence, w)
		s.WriteW[h] = w
	}

	out := make([]float64, m.cfg.ReadHeads*m.cfg.W)
	for r := 0; r < m.cfg.ReadHeads; r++ {
		w := readWeighting(s.Link, s.Memory, s.ReadW[r], ifc.ReadKeys[r], ifc.ReadStrengths[r], ifc.ReadModes[r])
		blas64.Gemv(blas.Trans, 1, s.Memory, vec(w), 0, vec(out[r*m.cfg.W:(r+1)*m.cfg.W]))
		s.ReadW[r] = w
	}
	return out
}
