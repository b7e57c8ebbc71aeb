package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SignupAttemptSweeper drops expired in-flight signup attempts.
// Satisfied by the auth attempt store.
type SignupAttemptSweeper interface {
	Sweep() int
}

// SweepSignupAttemptsTask expires abandoned signup attempts so their
// captured credentials don't linger in memory.
type SweepSignupAttemptsTask struct{}

// Config returns the queue configuration for signup sweep tasks.
func (t SweepSignupAttemptsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_signup_attempts",
		MaxAttempts: 1,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepSignupAttemptsProcessor creates a processor function for
// SweepSignupAttemptsTask.
func SweepSignupAttemptsProcessor(sweeper SignupAttemptSweeper) backlite.QueueProcessor[SweepSignupAttemptsTask] {
	return func(ctx context.Context, task SweepSignupAttemptsTask) error {
		if sweeper == nil {
			return fmt.Errorf("signup attempt sweeper not configured")
		}

		if dropped := sweeper.Sweep(); dropped > 0 {
			log.Printf("[TASK] Dropped %d expired signup attempts", dropped)
		}
		return nil
	}
}

// NewSweepSignupAttemptsQueue creates a backlite queue for signup sweep tasks.
func NewSweepSignupAttemptsQueue(sweeper SignupAttemptSweeper) backlite.Queue {
	return backlite.NewQueue(SweepSignupAttemptsProcessor(sweeper))
}
