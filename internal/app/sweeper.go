package app

import (
	"context"
	"time"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/metrics"
)

// Sweeper periodically removes expired sessions from the store.
type Sweeper struct {
	Issuer   interfaces.SessionIssuer
	Interval time.Duration
	Metrics  interfaces.Metrics
	Logger   interfaces.Logger
}

// Run purges once per interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Logger.Info(MsgSweeperStarted, "interval", s.Interval.String())
	defer s.Logger.Info(MsgSweeperStopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.Issuer.PurgeExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.Logger.Error(ErrPurgingSessions, "error", err)
		}
		return
	}
	if n == 0 {
		return
	}
	if s.Metrics != nil {
		s.Metrics.AddCounter(metrics.SessionsPurgedTotal, float64(n))
	}
	s.Logger.Debug(MsgSessionsPurged, "count", n)
}
