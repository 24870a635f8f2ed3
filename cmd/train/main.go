/*
Trainer - fine-tunes the character-level poem model.

Reads the corpus file, builds a character vocabulary, slices the corpus into
next-character prediction windows, trains the transformer, and saves a
checkpoint the generate command can load.

Run:

	go run cmd/train/main.go -corpus mega_poems.txt -checkpoint poem_model.ckpt
	go run cmd/train/main.go -config config.json
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oarkflow/poemgen/pkg/config"
	"github.com/oarkflow/poemgen/pkg/model"
	"github.com/oarkflow/poemgen/pkg/train"
)

var (
	configPath     = flag.String("config", "", "Path to JSON configuration file")
	corpusPath     = flag.String("corpus", "", "Corpus file to train on (overrides config)")
	checkpointPath = flag.String("checkpoint", "", "Checkpoint output path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *corpusPath != "" {
		cfg.Corpus.OutputPath = *corpusPath
	}
	if *checkpointPath != "" {
		cfg.Training.CheckpointPath = *checkpointPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping after current step...")
		cancel()
	}()

	raw, err := os.ReadFile(cfg.Corpus.OutputPath)
	if err != nil {
		log.Fatalf("reading corpus: %v", err)
	}
	text := string(raw)

	tokenizer := model.NewTokenizer(text)
	fmt.Printf("Corpus has %d characters, %d unique.\n", len([]rune(text)), tokenizer.VocabSize)

	m, err := model.New(tokenizer.VocabSize, cfg.Model)
	if err != nil {
		log.Fatal(err)
	}

	ds, err := train.NewDataset(text, tokenizer, cfg.Training.BlockSize)
	if err != nil {
		log.Fatal(err)
	}

	trainer := train.NewTrainer(m, tokenizer, cfg.Training)
	loss, err := trainer.Train(ctx, ds)
	if err != nil {
		log.Fatalf("training: %v", err)
	}
	fmt.Printf("Training complete, final average loss: %.4f\n", loss)
}
