package casino

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/antaria.games/internal/platform/timeouts"
)

// Sweep expires every challenge past its deadline and returns how many
// it settled.
func (s *Service) Sweep(now time.Time) int {
	expired := s.challenges.Tick(now)
	for _, view := range expired {
		log.Printf("challenge expired challenge=%s status=%s challenger=%s stake=%s",
			view.ID, view.Status, view.Challenger, view.Stake)
	}
	return len(expired)
}

// RunSweeper sweeps on a fixed interval until the context ends.
func (s *Service) RunSweeper(ctx context.Context) error {
	ticker := time.NewTicker(timeouts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
