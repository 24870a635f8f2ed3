package train

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/oarkflow/poemgen/pkg/model"
)

// Config configures the training run.
type Config struct {
	BlockSize      int     `json:"block_size"`
	Epochs         int     `json:"epochs"`
	LearningRate   float64 `json:"learning_rate"`
	StepsPerEpoch  int     `json:"steps_per_epoch"` // 0 = every window
	LoggingSteps   int     `json:"logging_steps"`
	CheckpointPath string  `json:"checkpoint_path"`
	Seed           int64   `json:"seed"`
}

// DefaultConfig returns default training configuration.
func DefaultConfig() Config {
	return Config{
		BlockSize:      128,
		Epochs:         1,
		LearningRate:   0.0006,
		StepsPerEpoch:  0,
		LoggingSteps:   100,
		CheckpointPath: "poem_model.ckpt",
		Seed:           42,
	}
}

// Trainer runs next-character prediction training over a dataset and
// checkpoints the model after each epoch, keeping track of the best loss.
type Trainer struct {
	model     *model.Model
	tokenizer *model.Tokenizer
	config    Config
	rng       *rand.Rand

	bestLoss float64
	logf     func(format string, args ...any)
}

// NewTrainer creates a new trainer.
func NewTrainer(m *model.Model, tok *model.Tokenizer, cfg Config) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}
	if cfg.LoggingSteps <= 0 {
		cfg.LoggingSteps = 100
	}
	return &Trainer{
		model:     m,
		tokenizer: tok,
		config:    cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		bestLoss:  math.Inf(1),
		logf:      func(format string, args ...any) { fmt.Printf(format, args...) },
	}
}

// SetLogger replaces the progress logger. A nil logger silences progress
// output.
func (tr *Trainer) SetLogger(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	tr.logf = logf
}

// BestLoss returns the lowest epoch-average loss seen so far.
func (tr *Trainer) BestLoss() float64 {
	return tr.bestLoss
}

// Train runs the configured number of epochs over shuffled windows and
// returns the final epoch's average loss. The context is checked between
// steps so a cancelled run stops promptly; the last saved checkpoint stays
// valid.
func (tr *Trainer) Train(ctx context.Context, ds *Dataset) (float64, error) {
	steps := ds.Len()
	if tr.config.StepsPerEpoch > 0 && tr.config.StepsPerEpoch < steps {
		steps = tr.config.StepsPerEpoch
	}
	tr.logf("Training on %d windows, %d steps per epoch, %d epochs\n", ds.Len(), steps, tr.config.Epochs)

	avgLoss := 0.0
	for epoch := 0; epoch < tr.config.Epochs; epoch++ {
		order := tr.rng.Perm(ds.Len())[:steps]

		totalLoss := 0.0
		for step, idx := range order {
			if err := ctx.Err(); err != nil {
				return avgLoss, err
			}
			input, target := ds.Window(idx)
			totalLoss += tr.trainStep(input, target)

			if (step+1)%tr.config.LoggingSteps == 0 {
				tr.logf("Epoch %d, step %d/%d, average loss: %.4f\n",
					epoch+1, step+1, steps, totalLoss/float64(step+1))
			}
		}

		avgLoss = totalLoss / float64(steps)
		tr.logf("Epoch %d complete, average loss: %.4f\n", epoch+1, avgLoss)

		if avgLoss < tr.bestLoss {
			tr.bestLoss = avgLoss
			if tr.config.CheckpointPath != "" {
				if err := model.SaveCheckpoint(tr.config.CheckpointPath, tr.model, tr.tokenizer); err != nil {
					return avgLoss, fmt.Errorf("saving checkpoint: %w", err)
				}
				tr.logf("Checkpoint saved to %s\n", tr.config.CheckpointPath)
			}
		}
	}
	return avgLoss, nil
}

// trainStep runs one forward pass, computes the cross-entropy loss against
// the shifted targets, and applies the simplified output-layer update.
func (tr *Trainer) trainStep(input, target []int) float64 {
	logits := tr.model.Forward(input)
	probs := model.Softmax(logits)
	loss := CrossEntropyLoss(probs, target)
	tr.update(target, probs)
	return loss
}

// update nudges the output projection toward the target characters. This is
// the same coarse gradient-free update the model was originally bootstrapped
// with; it adjusts only the output layer.
func (tr *Trainer) update(targets []int, probs *model.Matrix) {
	eps := tr.config.LearningRate * 0.01
	out := tr.model.OutputLayer

	for i := 0; i < probs.Rows; i++ {
		target := targets[i]
		errSignal := probs.Get(i, target) - 1.0

		for j := 0; j < out.Rows; j++ {
			grad := errSignal * eps
			out.Set(j, target, out.Get(j, target)-grad)
		}
	}
}

// CrossEntropyLoss computes the mean negative log-likelihood of the targets
// under per-position probability rows.
func CrossEntropyLoss(probs *model.Matrix, targets []int) float64 {
	loss := 0.0
	for i, target := range targets {
		p := probs.Get(i, target)
		if p < 1e-10 {
			p = 1e-10
		}
		loss -= math.Log(p)
	}
	return loss / float64(len(targets))
}
