package dnc

import (
	"testing"

	"github.com/gonum/floats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func oneHot(n, i int) []float64 {
	v := make([]float64, n)
	v[i] = 1
	return v
}

// writeIfc writes v with hard gates: allocation 1, write gate 1, erase all
// ones, strength high enough to separate one-hot keys.
func writeIfc(v []float64) *Interface {
	w := len(v)
	return &Interface{
		ReadKeys:      [][]float64{make([]float64, w)},
		ReadStrengths: []float64{1},
		Writes: []WriteParams{{
			Key:       append([]float64(nil), v...),
			Strength:  10,
			Erase:     onesVec(w),
			Add:       append([]float64(nil), v...),
			AllocGate: 1,
			WriteGate: 1,
		}},
		FreeGates: []float64{0},
		ReadModes: [][]float64{{0, 1, 0}},
	}
}

// readIfc reads without writing, using the given key and mode triple.
func readIfc(key []float64, modes []float64) *Interface {
	w := len(key)
	return &Interface{
		ReadKeys:      [][]float64{append([]float64(nil), key...)},
		ReadStrengths: []float64{10},
		Writes: []WriteParams{{
			Key:      make([]float64, w),
			Strength: 1,
			Erase:    make([]float64, w),
			Add:      make([]float64, w),
		}},
		FreeGates: []float64{0},
		ReadModes: [][]float64{append([]float64(nil), modes...)},
	}
}

func TestNewInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{N: 0, W: 4, ReadHeads: 1, WriteHeads: 1},
		{N: 10, W: -1, ReadHeads: 1, WriteHeads: 1},
		{N: 10, W: 4, ReadHeads: 0, WriteHeads: 1},
		{N: 10, W: 4, ReadHeads: 1, WriteHeads: 0},
	} {
		_, err := New(cfg)
		require.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
}

// TestWriteThenRead writes a one-hot vector and immediately reads it back
// by content with the same key.
func TestWriteThenRead(t *testing.T) {
	m, err := New(Config{N: 10, W: 4, ReadHeads: 1, WriteHeads: 1})
	require.NoError(t, err)
	s := m.NewState()

	v := oneHot(4, 2)
	ifc := writeIfc(v)
	ifc.ReadKeys[0] = append([]float64(nil), v...)
	ifc.ReadStrengths[0] = 10

	r, err := m.Step(s, ifc)
	require.NoError(t, err)
	require.Len(t, r, 4)
	for i := range v {
		assert.InDelta(t, v[i], r[i], 1e-2, "component %d", i)
	}
}

// TestUsageSaturation writes N+1 times with allocation gate 1 and distinct
// keys: usage saturates at 1 everywhere and the final allocation weighting
// degenerates to a flat, vanishing distribution.
func TestUsageSaturation(t *testing.T) {
	n := 4
	m, err := New(Config{N: n, W: n + 1, ReadHeads: 1, WriteHeads: 1})
	require.NoError(t, err)
	s := m.NewState()

	for i := 0; i < n; i++ {
		_, err := m.Step(s, writeIfc(oneHot(n+1, i)))
		require.NoError(t, err)
	}
	// The (N+1)-th write sees a fully used memory.
	_, err = m.Step(s, writeIfc(oneHot(n+1, n)))
	require.NoError(t, err)

	for i, u := range s.Usage {
		assert.InDelta(t, 1, u, 1e-9, "usage[%d]", i)
	}
	alloc := allocationWeighting(s.Usage)
	lo, hi := floats.Min(alloc), floats.Max(alloc)
	assert.InDelta(t, lo, hi, 1e-9, "allocation over full memory is uniform")
	assert.LessOrEqual(t, floats.Sum(alloc), 1e-6, "no slot is free")
}

// TestZeroModeRead asks for zero mass from every addressing mode and must
// get back an exactly zero vector, even over populated memory.
func TestZeroModeRead(t *testing.T) {
	m, err := New(Config{N: 6, W: 3, ReadHeads: 1, WriteHeads: 1})
	require.NoError(t, err)
	s := m.NewState()

	_, err = m.Step(s, writeIfc(oneHot(3, 1)))
	require.NoError(t, err)

	r, err := m.Step(s, readIfc(oneHot(3, 1), []float64{0, 0, 0}))
	require.NoError(t, err)
	for i, v := range r {
		assert.Zero(t, v, "component %d leaked memory content", i)
	}
}

// TestForwardRoundTrip writes a sequence of distinct one-hot vectors, then
// recalls it in order: content lookup of the first vector to locate the
// start, pure forward-temporal steps afterwards.
func TestForwardRoundTrip(t *testing.T) {
	m, err := New(Config{N: 10, W: 6, ReadHeads: 1, WriteHeads: 1})
	require.NoError(t, err)
	s := m.NewState()

	seq := [][]float64{oneHot(6, 0), oneHot(6, 3), oneHot(6, 1), oneHot(6, 5)}
	for _, v := range seq {
		_, err := m.Step(s, writeIfc(v))
		require.NoError(t, err)
	}

	for i, want := range seq {
		ifc := readIfc(seq[0], []float64{0, 0, 1})
		if i == 0 {
			ifc = readIfc(seq[0], []float64{0, 1, 0})
		}
		r, err := m.Step(s, ifc)
		require.NoError(t, err)
		for j := range want {
			assert.InDelta(t, want[j], r[j], 1e-2, "step %d component %d", i, j)
		}
	}
}

// TestBackwardStepsBack checks the reverse temporal direction: from the
// second written slot, one backward step lands on the first.
func TestBackwardStepsBack(t *testing.T) {
	m, err := New(Config{N: 8, W: 4, ReadHeads: 1, WriteHeads: 1})
	require.NoError(t, err)
	s := m.NewState()

	first, second := oneHot(4, 0), oneHot(4, 2)
	for _, v := range [][]float64{first, second} {
		_, err := m.Step(s, writeIfc(v))
		require.NoError(t, err)
	}

	_, err = m.Step(s, readIfc(second, []float64{0, 1, 0}))
	require.NoError(t, err)
	r, err := m.Step(s, readIfc(second, []float64{1, 0, 0}))
	require.NoError(t, err)
	for j := range first {
		assert.InDelta(t, first[j], r[j], 1e-2, "component %d", j)
	}
}

// TestSequentialWriteHeads: with two write heads in one step, the second
// head's content lookup sees the first head's write.
func TestSequentialWriteHeads(t *testing.T) {
	m, err := New(Config{N: 6, W: 4, ReadHeads: 1, WriteHeads: 2})
	require.NoError(t, err)
	s := m.NewState()

	v := oneHot(4, 1)
	boost := WriteParams{
		Key:       append([]float64(nil), v...),
		Strength:  10,
		Erase:     make([]float64, 4),
		Add:       oneHot(4, 3),
		AllocGate: 0, // content only: must find head 0's fresh write
		WriteGate: 1,
	}
	ifc := writeIfc(v)
	ifc.Writes = append(ifc.Writes, boost)
	ifc.ReadKeys[0] = append([]float64(nil), v...)
	ifc.ReadStrengths[0] = 10

	r, err := m.Step(s, ifc)
	require.NoError(t, err)
	assert.Greater(t, r[3], 0.5, "second head's addition must land on the slot head 0 just wrote")
	assert.Greater(t, r[1], 0.5, "head 0's content survives (no erase on head 1)")
}

func TestRunSequence(t *testing.T) {
	m, err := New(Config{N: 8, W: 4, ReadHeads: 2, WriteHeads: 1})
	require.NoError(t, err)

	seq := makeTensor2(5, m.InterfaceLen())
	out, err := m.Run(seq)
	require.NoError(t, err)
	require.Len(t, out, 5)
	for _, r := range out {
		require.Len(t, r, 2*4)
	}

	// A short vector fails the whole run with a dimension error.
	seq[3] = seq[3][:10]
	_, err = m.Run(seq)
	require.ErrorIs(t, err, ErrDimension)
}
