package model

import (
	"math"
	"math/rand"
	"sort"
)

// SoftmaxFloat converts logits to a probability distribution.
func SoftmaxFloat(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, l := range logits {
		if l > max {
			max = l
		}
	}
	probs := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		probs[i] = math.Exp(l - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// ApplyTopK zeroes all but the k highest-probability entries and
// renormalizes. k <= 0 or k >= len leaves the distribution unchanged.
func ApplyTopK(probs []float64, k int) []float64 {
	if k <= 0 || k >= len(probs) {
		return probs
	}
	type kv struct {
		i int
		p float64
	}
	arr := make([]kv, len(probs))
	for i, p := range probs {
		arr[i] = kv{i, p}
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i].p > arr[j].p })

	out := make([]float64, len(probs))
	sum := 0.0
	for i := 0; i < k; i++ {
		out[arr[i].i] = arr[i].p
		sum += arr[i].p
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

// SampleWeighted draws an index from a probability distribution.
func SampleWeighted(probs []float64) int {
	r := rand.Float64()
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if r < cumulative {
			return i
		}
	}
	return len(probs) - 1
}

// NextTokenProbs converts logits into a sampling distribution with
// temperature scaling followed by a top-k restriction.
func NextTokenProbs(logits []float64, temperature float64, topK int) []float64 {
	if temperature <= 0 {
		temperature = 1.0
	}
	scaled := make([]float64, len(logits))
	for i, l := range logits {
		scaled[i] = l / temperature
	}
	return ApplyTopK(SoftmaxFloat(scaled), topK)
}

// Generate extends the seed autoregressively by up to maxNewTokens tokens,
// sampling each step from the temperature-scaled, top-k-restricted
// distribution over the model's vocabulary.
func (m *Model) Generate(seed []int, maxNewTokens int, temperature float64, topK int) []int {
	tokens := make([]int, len(seed))
	copy(tokens, seed)

	for i := 0; i < maxNewTokens; i++ {
		logits := m.LastLogits(tokens)
		probs := NextTokenProbs(logits, temperature, topK)
		tokens = append(tokens, SampleWeighted(probs))
	}
	return tokens
}
