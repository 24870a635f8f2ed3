/*
Corpus builder - assembles the poem training corpus.

Walks a directory tree of poem files (one topic per folder, one poem per
file, title and author encoded in the filename), filters out poems longer
than the line limit, reflows long lines, and writes a single delimited
corpus file.

Run:

	go run cmd/corpus/main.go -root topics -out mega_poems.txt
	go run cmd/corpus/main.go -config config.json
*/
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/oarkflow/poemgen/pkg/config"
	"github.com/oarkflow/poemgen/pkg/corpus"
)

var (
	configPath = flag.String("config", "", "Path to JSON configuration file")
	root       = flag.String("root", "", "Topic directory tree to scan (overrides config)")
	out        = flag.String("out", "", "Corpus output path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *root != "" {
		cfg.Corpus.Root = *root
	}
	if *out != "" {
		cfg.Corpus.OutputPath = *out
	}

	fmt.Printf("Building corpus from %s...\n", cfg.Corpus.Root)
	builder := corpus.NewBuilder(cfg.Corpus)
	stats, err := builder.BuildToFile()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Corpus written to %s\n", cfg.Corpus.OutputPath)
	fmt.Printf("  accepted:           %d\n", stats.Accepted)
	fmt.Printf("  skipped (not poem): %d\n", stats.NotPoem)
	fmt.Printf("  skipped (no author):%d\n", stats.NoAuthor)
	fmt.Printf("  skipped (unreadable):%d\n", stats.Unreadable)
	fmt.Printf("  skipped (too long): %d\n", stats.TooLong)
}
