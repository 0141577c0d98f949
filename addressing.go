package dnc

import (
	"sort"

	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
	"github.com/gonum/floats"
)

func vec(x []float64) blas64.Vector {
	return blas64.Vector{Inc: 1, Data: x}
}

// contentWeighting returns the distribution over slots proportional to
// exp(strength * cosine(key, slot)). Zero-norm keys and slots contribute a
// similarity of zero instead of a division error.
func contentWeighting(mem blas64.General, key []float64, strength float64) []float64 {
	sim := make([]float64, mem.Rows)
	knorm := floats.Norm(key, 2)
	if knorm >= machineEpsilonSqrt {
		blas64.Gemv(blas.NoTrans, 1, mem, vec(key), 0, vec(sim))
		for i := 0; i < mem.Rows; i++ {
			row := mem.Data[i*mem.Stride : i*mem.Stride+mem.Cols]
			rnorm := floats.Norm(row, 2)
			if rnorm < machineEpsilonSqrt {
				sim[i] = 0
				continue
			}
			sim[i] /= knorm * rnorm
		}
	}
	floats.Scale(strength, sim)
	softmax(sim)
	return sim
}

// allocationWeighting favors the least-used slots: walking slots in
// ascending usage order, each gets the mass (1-usage) times the product of
// the usages of all more-free slots before it. Ties are broken toward the
// lowest index. Fully-used memory yields a near-zero weighting.
func allocationWeighting(usage []float64) []float64 {
	order := make([]int, len(usage))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return usage[order[a]] < usage[order[b]]
	})

	alloc := make([]float64, len(usage))
	prod := 1.0
	for _, j := range order {
		alloc[j] = (1 - usage[j]) * prod
		prod *= usage[j]
	}
	return alloc
}

// updateUsage applies the previous step's writes and the current free gates
// to the usage vector, in place. Writes combine across heads as the
// probability that at least one head wrote; reads retain usage by the
// product of (1 - free*readWeight) across read heads. Both keep usage in
// [0,1].
func updateUsage(usage []float64, prevWrite, prevRead [][]float64, freeGates []float64) {
	for i := range usage {
		kept := 1.0
		for h := range prevWrite {
			kept *= 1 - prevWrite[h][i]
		}
		u := 1 - (1-usage[i])*kept

		psi := 1.0
		for r := range prevRead {
			psi *= 1 - freeGates[r]*prevRead[r][i]
		}
		usage[i] = u * psi
	}
}

// writeWeighting mixes allocation and content addressing by the allocation
// gate and scales the result by the write gate.
func writeWeighting(alloc, content []float64, allocGate, writeGate float64) []float64 {
	w := make([]float64, len(alloc))
	for i := range w {
		w[i] = writeGate * (allocGate*alloc[i] + (1-allocGate)*content[i])
	}
	return w
}

// updateLink folds one write weighting into the temporal link matrix using
// the precedence from before this write. Entry (i,j) tracks how strongly
// slot i was written right after slot j; the diagonal stays zero.
func updateLink(link blas64.General, w, precedence []float64) {
	n := link.Rows
	for i := 0; i < n; i++ {
		row := link.Data[i*link.Stride : i*link.Stride+n]
		for j := 0; j < n; j++ {
			if i == j {
				row[j] = 0
				continue
			}
			row[j] = (1-w[i]-w[j])*row[j] + w[i]*precedence[j]
		}
	}
}

// updatePrecedence decays the precedence by the total new write mass and
// adds the new weighting, in place.
func updatePrecedence(precedence, w []float64) {
	floats.Scale(1-floats.Sum(w), precedence)
	floats.Add(precedence, w)
}

// eraseAdd applies one write head to memory: each slot is first erased
// component-wise by w[i]*erase, then receives w[i]*add.
func eraseAdd(mem blas64.General, w, erase, add []float64) {
	for i := 0; i < mem.Rows; i++ {
		row := mem.Data[i*mem.Stride : i*mem.Stride+mem.Cols]
		for j := range row {
			row[j] *= 1 - w[i]*erase[j]
		}
	}
	blas64.Ger(1, vec(w), vec(add), mem)
}

// readWeighting mixes backward, content and forward addressing by the mode
// weights. The temporal directions come from the link matrix applied to the
// head's previous read weighting: forward follows links out of the
// previously read slots, backward follows them in reverse.
func readWeighting(link blas64.General, mem blas64.General, prev, key []float64, strength float64, modes []float64) []float64 {
	n := link.Rows
	fwd := make([]float64, n)
	bwd := make([]float64, n)
	blas64.Gemv(blas.NoTrans, 1, link, vec(prev), 0, vec(fwd))
	blas64.Gemv(blas.Trans, 1, link, vec(prev), 0, vec(bwd))
	content := contentWeighting(mem, key, strength)

	w := make([]float64, n)
	floats.AddScaled(w, modes[modeBackward], bwd)
	floats.AddScaled(w, modes[modeContent], content)
	floats.AddScaled(w, modes[modeForward], fwd)
	return w
}
