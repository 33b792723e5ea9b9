package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/metrics"
)

// namedFeed is any upstream feed
type namedFeed interface {
	Name() string
}

// fanOut calls fetch for every feed concurrently, each under its own timeout,
// and returns one batch per feed in feed order. A failed or timed-out feed
// contributes an empty batch; fanOut itself never fails.
func fanOut[F namedFeed, T any](
	ctx context.Context,
	feeds []F,
	timeout time.Duration,
	log logger.Logger,
	m *metrics.Metrics,
	fetch func(ctx context.Context, feed F) ([]T, error),
) [][]T {
	batches := make([][]T, len(feeds))
	g, gctx := errgroup.WithContext(ctx)

	for i, feed := range feeds {
		g.Go(func() error {
			feedCtx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				feedCtx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}

			start := time.Now()
			records, err := fetch(feedCtx, feed)
			took := time.Since(start)

			if err != nil {
				outcome := metrics.OutcomeFailure
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(feedCtx.Err(), context.DeadlineExceeded) {
					outcome = metrics.OutcomeTimeout
				}
				m.ObserveFetch(feed.Name(), outcome, took)
				log.Warn("Feed unavailable, continuing without it",
					"feed", feed.Name(), "outcome", outcome, "took", took, "error", err)
				return nil
			}

			m.ObserveFetch(feed.Name(), metrics.OutcomeSuccess, took)
			log.Debug("Feed fetched", "feed", feed.Name(), "records", len(records), "took", took)
			batches[i] = records
			return nil
		})
	}

	// Workers only return nil.
	_ = g.Wait()
	return batches
}
