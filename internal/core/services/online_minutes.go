package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// DefaultOnlineMinutesTTL bounds how often the remote time source is called
// for one user and month.
const DefaultOnlineMinutesTTL = 30 * time.Minute

// OnlineMinutesService caches the remote time source's monthly totals.
//
// This is the fail-open boundary for the whole integration: any failure of
// the remote protocol is logged and read as zero minutes so the dashboard
// always renders. A failed fetch is cached like a real zero, which limits
// retry frequency to one attempt per TTL window. Concurrent cold misses for
// the same key may each call the remote source; there is no single-flight.
type OnlineMinutesService struct {
	client ports.TimeReportClient
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.OnlineMinutesProvider = (*OnlineMinutesService)(nil)

// NewOnlineMinutesService creates a new cached online-minutes provider.
func NewOnlineMinutesService(client ports.TimeReportClient, cache ports.Cache, ttl time.Duration, logger *slog.Logger) *OnlineMinutesService {
	if ttl <= 0 {
		ttl = DefaultOnlineMinutesTTL
	}
	return &OnlineMinutesService{
		client: client,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "online_minutes"),
	}
}

// MonthlyOnlineMinutes returns the user's online minutes for the month
// containing now. Users without a configured token get zero without a cache
// entry or network call.
func (s *OnlineMinutesService) MonthlyOnlineMinutes(ctx context.Context, user *domain.User, now time.Time) int {
	if !user.HasOnlineSource() {
		return 0
	}

	key := fmt.Sprintf("ssm_monthly_%s_%s", user.ID, now.Format("2006-01"))
	if v, ok := s.cache.Get(key); ok {
		if minutes, ok := v.(int); ok {
			return minutes
		}
	}

	from, _ := domain.MonthBounds(now)
	minutes, err := s.client.MonthlyMinutes(ctx, user.SSMAPIToken, from, now)
	if err != nil {
		s.logger.Error("monthly online minutes fetch failed",
			"user_id", user.ID,
			"error", err,
		)
		minutes = 0
	}

	s.cache.Set(key, minutes, s.ttl)
	return minutes
}
