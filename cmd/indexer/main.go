package main

import (
	"context"
	"flag"
	"log"

	"github.com/brainbee-training/brainbee-backend/config"
	"github.com/brainbee-training/brainbee-backend/internal/bootstrap"
	"github.com/brainbee-training/brainbee-backend/internal/llm"
)

// Precomputes the corpus embedding caches so the API server can boot without
// hitting the embeddings endpoint.
func main() {
	force := flag.Bool("force", false, "recompute embeddings even when the cache matches the corpus")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := llm.NewClient(cfg.OpenAI)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}

	ctx := context.Background()
	index, err := bootstrap.BuildIndex(ctx, client, cfg.Retrieval, *force)
	if err != nil {
		log.Fatalf("index: %v", err)
	}

	for _, category := range index.Categories() {
		log.Printf("%-50s %d chunks", category, index.Len(category))
	}
	log.Println("Done.")
}
