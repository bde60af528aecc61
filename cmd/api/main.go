package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brainbee-training/brainbee-backend/config"
	"github.com/brainbee-training/brainbee-backend/internal/bootstrap"
	"github.com/brainbee-training/brainbee-backend/internal/feedback"
	"github.com/brainbee-training/brainbee-backend/internal/llm"
	"github.com/brainbee-training/brainbee-backend/internal/maintenance"
	"github.com/brainbee-training/brainbee-backend/internal/quiz"
	"github.com/brainbee-training/brainbee-backend/internal/retrieval"
	"github.com/brainbee-training/brainbee-backend/internal/sessions"
	"github.com/brainbee-training/brainbee-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQL(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("postgres (sql): %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	llmClient, err := llm.NewClient(cfg.OpenAI)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}

	index, err := bootstrap.BuildIndex(ctx, llmClient, cfg.Retrieval, false)
	if err != nil {
		log.Fatalf("retrieval: %v", err)
	}
	retriever := retrieval.NewRetriever(index, llmClient, llmClient, cfg.Retrieval)

	bank := quiz.NewRepo(pool)
	quizSvc := quiz.NewService(llmClient, retriever, bank)

	sessionRepo := sessions.NewRepo(rdb)
	feedbackRepo := feedback.NewRepo(sqlDB)
	recorder := feedback.NewRecorder(feedbackRepo, feedback.NewRater(llmClient))

	var scheduler *maintenance.Scheduler
	var archive feedback.ArchiveSource
	if !cfg.Storage.Enabled {
		log.Println("STORAGE_ENABLED is off, archive job and storage analytics disabled")
	} else {
		objectStore, err := storage.NewObjectStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
		archive = objectStore
		scheduler = maintenance.NewScheduler(
			maintenance.NewArchiver(feedbackRepo, sessionRepo, bank, objectStore))
		scheduler.Start()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "brainbee-backend",
		Version:     cfg.App.Version,
		APIKey:      cfg.App.APIKey,
		TemplateDir: cfg.App.TemplateDir,
		DB:          pool,
		Redis:       rdb,
		Quiz:        quizSvc,
		Sessions:    sessionRepo,
		Recorder:    recorder,
		Archive:     archive,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}
