package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	archiver *Archiver
	cron     *cron.Cron
}

func NewScheduler(archiver *Archiver) *Scheduler {
	return &Scheduler{archiver: archiver}
}

// Start schedules the nightly archive at 12:00 AM.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		log.Println("[maintenance] nightly archive started")
		if err := s.archiver.Run(ctx); err != nil {
			log.Printf("[maintenance] nightly archive failed: %v", err)
			return
		}
		log.Println("[maintenance] nightly archive completed at:", time.Now().Format(time.RFC1123))
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (archiving nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
