package dnc

import (
	"math"

	"github.com/gonum/floats"
)

const (
	machineEpsilon     = 2.2e-16
	machineEpsilonSqrt = 1e-8 // math.Sqrt(machineEpsilon)
)

func Sigmoid(x float64) float64 {
	return 1.0 / (1 + math.Exp(-x))
}

// oneplus maps an unbounded controller output to [1, +Inf),
// used for read and write strengths.
func oneplus(x float64) float64 {
	return 1 + math.Log(1+math.Exp(x))
}

// cosineSimilarity returns 0 when either vector has zero norm.
func cosineSimilarity(u, v []float64) float64 {
	un := floats.Norm(u, 2)
	vn := floats.Norm(v, 2)
	if un < machineEpsilonSqrt || vn < machineEpsilonSqrt {
		return 0
	}
	return floats.Dot(u, v) / (un * vn)
}

// softmax normalizes in place, subtracting the max for numerical stability.
func softmax(w []float64) {
	max := math.Inf(-1)
	for _, v := range w {
		max = math.Max(max, v)
	}
	var sum float64 = 0
	for i, v := range w {
		w[i] = math.Exp(v - max)
		sum += w[i]
	}
	floats.Scale(1/sum, w)
}

func makeTensor2(n, m int) [][]float64 {
	t := make([][]float64, n)
	for i := 0; i < len(t); i++ {
		t[i] = make([]float64, m)
	}
	return t
}
