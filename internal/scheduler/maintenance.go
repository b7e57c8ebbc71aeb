package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/nakulp007/amplify-semanticui-auth/internal/tasks"
)

// MaintenanceScheduler periodically enqueues the housekeeping tasks:
// audit trail cleanup and the signup attempt sweep.
type MaintenanceScheduler struct {
	client             *tasks.Client
	schedule           string
	auditRetentionDays int

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(client *tasks.Client, schedule string, auditRetentionDays int) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		client:             client,
		schedule:           schedule,
		auditRetentionDays: auditRetentionDays,
		cron:               cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *MaintenanceScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.client == nil {
		log.Printf("Maintenance scheduler: task queue not configured, skipping")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.enqueue); err != nil {
		return fmt.Errorf("invalid maintenance schedule '%s': %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance scheduler: started with schedule '%s'", s.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running enqueue to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Println("Maintenance scheduler: stopped")
}

func (s *MaintenanceScheduler) enqueue() {
	_, err := s.client.Add(tasks.CleanupAuditEventsTask{
		RetentionDays: s.auditRetentionDays,
	}).Save()
	if err != nil {
		log.Printf("WARNING: failed to enqueue audit cleanup: %v", err)
	}

	if _, err := s.client.Add(tasks.SweepSignupAttemptsTask{}).Save(); err != nil {
		log.Printf("WARNING: failed to enqueue signup sweep: %v", err)
	}
}
