package dnc

import "fmt"

// Interface is the decoded form of a controller's interface vector for one
// step. All transforms have already been applied: strengths are >= 1, gates
// and erase components lie in [0,1], and each read head's mode weights are a
// distribution over {backward, content, forward}.
type Interface struct {
	ReadKeys      [][]float64 // one key of width W per read head
	ReadStrengths []float64   // one per read head, >= 1
	Writes        []WriteParams
	FreeGates     []float64   // one per read head, in [0,1]
	ReadModes     [][]float64 // one [backward, content, forward] triple per read head
}

// WriteParams holds one write head's slice of the interface vector.
type WriteParams struct {
	Key       []float64
	Strength  float64
	Erase     []float64 // component-wise, in [0,1]
	Add       []float64
	AllocGate float64
	WriteGate float64
}

const (
	modeBackward = 0
	modeContent  = 1
	modeForward  = 2
)

// interfaceLen is the required length of a raw interface vector:
// R*W read keys, R read strengths, per write head a key, strength, erase
// vector, add vector, allocation gate and write gate, then R free gates and
// 3*R read modes. With one write head this is R*W + 3*W + 5*R + 3.
func interfaceLen(n, w, r int) int {
	return r*w + r + n*(3*w+3) + r + 3*r
}

// DecodeInterface splits a raw controller output into an Interface,
// applying the fixed transforms of each segment.
func (m *Memory) DecodeInterface(raw []float64) (*Interface, error) {
	want := interfaceLen(m.cfg.WriteHeads, m.cfg.W, m.cfg.ReadHeads)
	if len(raw) != want {
		return nil, fmt.Errorf("%w: interface vector length %d, want %d", ErrDimension, len(raw), want)
	}
	r := m.cfg.ReadHeads
	w := m.cfg.W

	ifc := Interface{
		ReadKeys:      make([][]float64, r),
		ReadStrengths: make([]float64, r),
		Writes:        make([]WriteParams, m.cfg.WriteHeads),
		FreeGates:     make([]float64, r),
		ReadModes:     makeTensor2(r, 3),
	}
	off := 0
	next := func(k int) []float64 {
		s := raw[off : off+k]
		off += k
		return s
	}

	for i := 0; i < r; i++ {
		ifc.ReadKeys[i] = append([]float64(nil), next(w)...)
	}
	for i, v := range next(r) {
		ifc.ReadStrengths[i] = oneplus(v)
	}
	for h := range ifc.Writes {
		wp := &ifc.Writes[h]
		wp.Key = append([]float64(nil), next(w)...)
		wp.Strength = oneplus(next(1)[0])
		wp.Erase = append([]float64(nil), next(w)...)
		for j, v := range wp.Erase {
			wp.Erase[j] = Sigmoid(v)
		}
		wp.Add = append([]float64(nil), next(w)...)
		wp.AllocGate = Sigmoid(next(1)[0])
		wp.WriteGate = Sigmoid(next(1)[0])
	}
	for i, v := range next(r) {
		ifc.FreeGates[i] = Sigmoid(v)
	}
	for i := 0; i < r; i++ {
		copy(ifc.ReadModes[i], next(3))
		softmax(ifc.ReadModes[i])
	}
	return &ifc, nil
}

// validate checks a (possibly hand-built) Interface against the configured
// head counts and widths.
func (m *Memory) validate(ifc *Interface) error {
	r := m.cfg.ReadHeads
	w := m.cfg.W
	if len(ifc.ReadKeys) != r || len(ifc.ReadStrengths) != r ||
		len(ifc.FreeGates) != r || len(ifc.ReadModes) != r {
		return fmt.Errorf("%w: interface sized for %d read heads, want %d", ErrDimension, len(ifc.ReadKeys), r)
	}
	for i := 0; i < r; i++ {
		if len(ifc.ReadKeys[i]) != w {
			return fmt.Errorf("%w: read key %d has width %d, want %d", ErrDimension, i, len(ifc.ReadKeys[i]), w)
		}
		if len(ifc.ReadModes[i]) != 3 {
			return fmt.Errorf("%w: read head %d has %d mode weights, want 3", ErrDimension, i, len(ifc.ReadModes[i]))
		}
	}
	if len(ifc.Writes) != m.cfg.WriteHeads {
		return fmt.Errorf("%w: interface sized for %d write heads, want %d", ErrDimension, len(ifc.Writes), m.cfg.WriteHeads)
	}
	for h := range ifc.Writes {
		wp := &ifc.Writes[h]
		if len(wp.Key) != w || len(wp.Erase) != w || len(wp.Add) != w {
			return fmt.Errorf("%w: write head %d vectors have width %d/%d/%d, want %d",
				ErrDimension, h, len(wp.Key), len(wp.Erase), len(wp.Add), w)
		}
	}
	return nil
}
