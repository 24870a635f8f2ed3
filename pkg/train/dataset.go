package train

import (
	"fmt"

	"github.com/oarkflow/poemgen/pkg/model"
)

// Dataset is the training corpus encoded as one token sequence, sliced into
// overlapping next-character prediction windows. Window i covers tokens
// [i, i+blockSize]: the first blockSize tokens are the input, the last
// blockSize the shifted targets.
type Dataset struct {
	data      []int
	blockSize int
}

// NewDataset encodes text with the tokenizer and prepares windows of
// blockSize+1 tokens.
func NewDataset(text string, tok *model.Tokenizer, blockSize int) (*Dataset, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("block size must be at least 1, got %d", blockSize)
	}
	data, err := tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encoding corpus: %w", err)
	}
	if len(data) <= blockSize {
		return nil, fmt.Errorf("corpus has %d tokens, need more than block size %d", len(data), blockSize)
	}
	return &Dataset{data: data, blockSize: blockSize}, nil
}

// Len returns the number of windows.
func (d *Dataset) Len() int {
	return len(d.data) - d.blockSize
}

// Window returns the input and target sequences for window i. Both share
// the dataset's backing array and must not be mutated.
func (d *Dataset) Window(i int) (input, target []int) {
	chunk := d.data[i : i+d.blockSize+1]
	return chunk[:len(chunk)-1], chunk[1:]
}
