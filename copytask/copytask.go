// Package copytask generates synthetic sequence-copy data for exercising
// the memory module: sequences of one-hot vectors to be written in order
// and recalled by content or temporal addressing.
package copytask

import (
	"math/rand"
)

// GenSeq returns a sequence of size one-hot vectors of width vectorSize.
// Consecutive vectors are always distinct so that content lookup can tell
// neighboring steps apart.
func GenSeq(size, vectorSize int) [][]float64 {
	seq := make([][]float64, size)
	prev := -1
	for i := 0; i < len(seq); i++ {
		seq[i] = make([]float64, vectorSize)
		hot := rand.Intn(vectorSize)
		for hot == prev && vectorSize > 1 {
			hot = rand.Intn(vectorSize)
		}
		seq[i][hot] = 1
		prev = hot
	}
	return seq
}
