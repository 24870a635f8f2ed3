/*
Generation loop - samples poems until one is short enough.

Loads the trained checkpoint, seeds the model with a random word, samples a
completion, truncates it at the first END marker, and retries with a fresh
word until the result has at most the configured number of line breaks. The
accepted poem plus the signature line is written to the output file.

Run:

	go run cmd/generate/main.go -checkpoint poem_model.ckpt -out latest_generation.txt
	go run cmd/generate/main.go -config config.json
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
	"github.com/oarkflow/poemgen/pkg/generate"
)

var (
	configPath     = flag.String("config", "", "Path to JSON configuration file")
	checkpointPath = flag.String("checkpoint", "", "Checkpoint to sample from (overrides config)")
	out            = flag.String("out", "", "Generation output path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *checkpointPath != "" {
		cfg.Generation.CheckpointPath = *checkpointPath
	}
	if *out != "" {
		cfg.Generation.OutputPath = *out
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping...")
		cancel()
	}()

	words, err := generate.EmbeddedWordSource()
	if err != nil {
		log.Fatal(err)
	}

	loop := generate.NewLoop(cfg.Generation, words, generate.LoadCheckpoint)
	result, err := loop.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Accepted after %d attempt(s), seed word %q\n", result.Attempts, result.Word)
	fmt.Printf("Written to %s\n", cfg.Generation.OutputPath)
}
