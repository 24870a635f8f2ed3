package model

import (
	"fmt"
	"math"
)

// Config holds model architecture hyperparameters. Defaults mirror the
// shape the poem model was originally trained with.
type Config struct {
	EmbedDim  int `json:"embed_dim"`
	NumLayers int `json:"num_layers"`
	NumHeads  int `json:"num_heads"`
	MaxSeqLen int `json:"max_seq_len"`
}

// DefaultConfig returns default architecture hyperparameters.
func DefaultConfig() Config {
	return Config{
		EmbedDim:  512,
		NumLayers: 8,
		NumHeads:  8,
		MaxSeqLen: 128,
	}
}

// Validate checks that the configuration describes a buildable model.
func (c Config) Validate() error {
	if c.EmbedDim <= 0 || c.NumLayers <= 0 || c.NumHeads <= 0 || c.MaxSeqLen <= 0 {
		return fmt.Errorf("model config: all dimensions must be positive, got %+v", c)
	}
	if c.EmbedDim%c.NumHeads != 0 {
		return fmt.Errorf("model config: embed_dim %d must be divisible by num_heads %d",
			c.EmbedDim, c.NumHeads)
	}
	return nil
}

// MultiHeadAttention implements multi-head causal self-attention.
type MultiHeadAttention struct {
	NumHeads int
	HeadDim  int
	EmbedDim int
	WQ       *Matrix
	WK       *Matrix
	WV       *Matrix
	WO       *Matrix
}

// NewMultiHeadAttention creates a new multi-head attention layer.
func NewMultiHeadAttention(embedDim, numHeads int) *MultiHeadAttention {
	headDim := embedDim / numHeads
	scale := math.Sqrt(float64(embedDim))
	return &MultiHeadAttention{
		NumHeads: numHeads,
		HeadDim:  headDim,
		EmbedDim: embedDim,
		WQ:       RandomMatrix(embedDim, embedDim, 1.0/scale),
		WK:       RandomMatrix(embedDim, embedDim, 1.0/scale),
		WV:       RandomMatrix(embedDim, embedDim, 1.0/scale),
		WO:       RandomMatrix(embedDim, embedDim, 1.0/scale),
	}
}

// Forward performs the forward pass with a causal mask.
func (mha *MultiHeadAttention) Forward(x *Matrix) *Matrix {
	seqLen := x.Rows

	Q := MatMul(x, mha.WQ)
	K := MatMul(x, mha.WK)
	V := MatMul(x, mha.WV)

	scores := MatMul(Q, Transpose(K))
	scale := math.Sqrt(float64(mha.HeadDim))
	for i := range scores.Data {
		scores.Data[i] /= scale
	}

	// Causal mask: position i may not attend to positions after it.
	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			scores.Set(i, j, -1e10)
		}
	}

	attnWeights := Softmax(scores)
	output := MatMul(attnWeights, V)
	return MatMul(output, mha.WO)
}

// FeedForward implements the position-wise feed-forward network.
type FeedForward struct {
	W1 *Matrix
	W2 *Matrix
}

// NewFeedForward creates a new feed-forward layer.
func NewFeedForward(embedDim, hiddenDim int) *FeedForward {
	scale := math.Sqrt(float64(embedDim))
	return &FeedForward{
		W1: RandomMatrix(embedDim, hiddenDim, 1.0/scale),
		W2: RandomMatrix(hiddenDim, embedDim, 1.0/math.Sqrt(float64(hiddenDim))),
	}
}

// Forward performs the forward pass.
func (ff *FeedForward) Forward(x *Matrix) *Matrix {
	hidden := MatMul(x, ff.W1)
	activated := ApplyGELU(hidden)
	return MatMul(activated, ff.W2)
}

// TransformerBlock represents a single pre-norm transformer layer.
type TransformerBlock struct {
	Attention   *MultiHeadAttention
	FeedForward *FeedForward
	Eps         float64
}

// NewTransformerBlock creates a new transformer block.
func NewTransformerBlock(embedDim, numHeads, hiddenDim int) *TransformerBlock {
	return &TransformerBlock{
		Attention:   NewMultiHeadAttention(embedDim, numHeads),
		FeedForward: NewFeedForward(embedDim, hiddenDim),
		Eps:         1e-5,
	}
}

// Forward performs the forward pass.
func (tb *TransformerBlock) Forward(x *Matrix) *Matrix {
	// Self-attention with residual connection
	normalized := LayerNorm(x, tb.Eps)
	attnOutput := tb.Attention.Forward(normalized)
	x = Add(x, attnOutput)

	// Feed-forward with residual connection
	normalized = LayerNorm(x, tb.Eps)
	ffOutput := tb.FeedForward.Forward(normalized)
	return Add(x, ffOutput)
}

// Model is a decoder-only character-level transformer.
type Model struct {
	VocabSize   int
	EmbedDim    int
	NumLayers   int
	NumHeads    int
	MaxSeqLen   int
	TokenEmbed  *Matrix
	PosEmbed    *Matrix
	Blocks      []*TransformerBlock
	OutputLayer *Matrix
}

// New creates a model with randomly initialized weights.
func New(vocabSize int, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if vocabSize <= 0 {
		return nil, fmt.Errorf("vocab size must be positive, got %d", vocabSize)
	}

	hiddenDim := cfg.EmbedDim * 4
	blocks := make([]*TransformerBlock, cfg.NumLayers)
	for i := 0; i < cfg.NumLayers; i++ {
		blocks[i] = NewTransformerBlock(cfg.EmbedDim, cfg.NumHeads, hiddenDim)
	}

	scale := math.Sqrt(float64(cfg.EmbedDim))
	return &Model{
		VocabSize:   vocabSize,
		EmbedDim:    cfg.EmbedDim,
		NumLayers:   cfg.NumLayers,
		NumHeads:    cfg.NumHeads,
		MaxSeqLen:   cfg.MaxSeqLen,
		TokenEmbed:  RandomMatrix(vocabSize, cfg.EmbedDim, 1.0/scale),
		PosEmbed:    RandomMatrix(cfg.MaxSeqLen, cfg.EmbedDim, 1.0/scale),
		Blocks:      blocks,
		OutputLayer: RandomMatrix(cfg.EmbedDim, vocabSize, 1.0/scale),
	}, nil
}

// Embed converts token IDs to embeddings with positional encoding added.
func (m *Model) Embed(tokenIDs []int) *Matrix {
	seqLen := len(tokenIDs)
	embeddings := NewMatrix(seqLen, m.EmbedDim)

	for i, tokenID := range tokenIDs {
		for j := 0; j < m.EmbedDim; j++ {
			embeddings.Set(i, j, m.TokenEmbed.Get(tokenID, j)+m.PosEmbed.Get(i, j))
		}
	}
	return embeddings
}

// Forward runs the full forward pass and returns per-position logits over
// the vocabulary. The input must not exceed MaxSeqLen tokens.
func (m *Model) Forward(tokenIDs []int) *Matrix {
	x := m.Embed(tokenIDs)
	for _, block := range m.Blocks {
		x = block.Forward(x)
	}
	x = LayerNorm(x, 1e-5)
	return MatMul(x, m.OutputLayer)
}

// LastLogits returns the logits for the next token after the sequence. The
// context is cropped to the last MaxSeqLen tokens when longer.
func (m *Model) LastLogits(tokenIDs []int) []float64 {
	if len(tokenIDs) > m.MaxSeqLen {
		tokenIDs = tokenIDs[len(tokenIDs)-m.MaxSeqLen:]
	}
	logits := m.Forward(tokenIDs)
	last := make([]float64, m.VocabSize)
	lastIdx := logits.Rows - 1
	for j := 0; j < m.VocabSize; j++ {
		last[j] = logits.Get(lastIdx, j)
	}
	return last
}
