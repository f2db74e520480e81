// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRefreshScheduler rebuilds the leaderboards every interval, starting
// immediately. The caller shuts the returned scheduler down.
func (s *LeaderboardService) StartRefreshScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := s.Refresh(ctx); err != nil {
				log.Printf("[SCHEDULER] leaderboard refresh failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	log.Printf("✅ [SCHEDULER] leaderboard refresh every %s", interval)
	return sched, nil
}
