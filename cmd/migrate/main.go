package main

import (
	"context"
	"flag"
	"log"

	"github.com/brainbee-training/brainbee-backend/config"
	"github.com/brainbee-training/brainbee-backend/internal/bootstrap"
	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/maintenance"
	"github.com/brainbee-training/brainbee-backend/internal/sessions"
	"github.com/brainbee-training/brainbee-backend/internal/storage"
)

// One-shot migration: copy feedback rows and live session state into object
// storage, then verify the object counts before anything gets dropped.
func main() {
	skipSessions := flag.Bool("skip-sessions", false, "migrate feedback rows only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.Storage.Enabled {
		log.Fatal("STORAGE_ENABLED must be true to migrate into object storage")
	}

	ctx := context.Background()

	sqlDB, err := bootstrap.OpenSQL(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer sqlDB.Close()

	store, err := storage.NewObjectStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	feedbackRepo := feedback.NewRepo(sqlDB)

	var sessionRepo maintenance.SessionSource = emptySessions{}
	if !*skipSessions {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		sessionRepo = sessions.NewRepo(rdb)
	}

	// No pruner here: the migration copies data out, it never deletes.
	if err := maintenance.NewArchiver(feedbackRepo, sessionRepo, nil, store).Run(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Verify: every feedback row must have a matching object.
	rows, err := feedbackRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("verify: list rows: %v", err)
	}
	keys, err := store.List(ctx, "feedback/")
	if err != nil {
		log.Fatalf("verify: list objects: %v", err)
	}
	if len(keys) < len(rows) {
		log.Fatalf("verify: %d feedback rows but only %d archived objects", len(rows), len(keys))
	}

	log.Printf("migrated %d feedback rows (%d objects in storage)", len(rows), len(keys))
	log.Println("verification passed; feedback_scores can now be truncated manually")
}

type emptySessions struct{}

func (emptySessions) ListIDs(context.Context) ([]string, error) { return nil, nil }
func (emptySessions) Get(context.Context, string, any) error    { return nil }
