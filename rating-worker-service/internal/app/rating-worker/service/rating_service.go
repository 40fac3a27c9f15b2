package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/pkg/metrics"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/entity"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ReconcileOptions ограничивает нагрузку полной сверки на PostgreSQL
type ReconcileOptions struct {
	Workers          int // Параллельных обновлений
	UpdatesPerSecond int // 0 - без ограничения
}

// RatingService держит average_rating и total_reviews в PostgreSQL
// согласованными с отзывами в MongoDB
type RatingService struct {
	restaurantRepo repository.RestaurantRepository
	statsRepo      repository.ReviewStatsRepository
	workers        int64
	limiter        *rate.Limiter
}

func NewRatingService(
	restaurantRepo repository.RestaurantRepository,
	statsRepo repository.ReviewStatsRepository,
	opts ReconcileOptions,
) *RatingService {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.UpdatesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.UpdatesPerSecond), opts.UpdatesPerSecond)
	}

	return &RatingService{
		restaurantRepo: restaurantRepo,
		statsRepo:      statsRepo,
		workers:        int64(workers),
		limiter:        limiter,
	}
}

// ProcessReviewEvent пересчитывает рейтинг ресторана из события.
// Неизвестные события пропускаются без ошибки, чтобы не блокировать очередь.
func (s *RatingService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	if !event.IsKnown() {
		logger.Warn().
			Str("event_type", event.EventType).
			Str("review_id", event.ReviewID).
			Msg("Skipping unknown review event")
		return nil
	}

	return s.RecalculateRestaurant(ctx, event.RestaurantID, entity.TriggerEvent)
}

// RecalculateRestaurant берет свежую статистику из MongoDB, а не применяет дельту из события:
// повторная доставка и переупорядочивание событий дают тот же результат
func (s *RatingService) RecalculateRestaurant(ctx context.Context, restaurantID, trigger string) error {
	id, err := uuid.Parse(restaurantID)
	if err != nil {
		logger.Warn().Str("restaurant_id", restaurantID).Msg("Skipping review event with malformed restaurant id")
		metrics.RatingRecalculations.WithLabelValues(trigger, "skipped").Inc()
		return nil
	}

	stats, err := s.statsRepo.StatsForRestaurant(ctx, restaurantID)
	if err != nil {
		metrics.RatingRecalculations.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("failed to load review stats: %w", err)
	}

	return s.applyStats(ctx, id, stats, trigger)
}

// ReconcileAll обновляет рестораны, у которых есть отзывы, и обнуляет те,
// у которых рейтинг остался, а отзывов уже нет
func (s *RatingService) ReconcileAll(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RatingReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	allStats, err := s.statsRepo.AllStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load review stats: %w", err)
	}

	ratedIDs, err := s.restaurantRepo.ListRatedIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list rated restaurants: %w", err)
	}

	pending := make([]entity.RatingStats, 0, len(allStats)+len(ratedIDs))
	seen := make(map[uuid.UUID]struct{}, len(allStats))
	ids := make([]uuid.UUID, 0, cap(pending))

	for _, stats := range allStats {
		id, err := uuid.Parse(stats.RestaurantID)
		if err != nil {
			logger.Warn().Str("restaurant_id", stats.RestaurantID).Msg("Reviews reference malformed restaurant id")
			continue
		}
		seen[id] = struct{}{}
		pending = append(pending, stats)
		ids = append(ids, id)
	}

	// Рейтинг остался, а отзывов больше нет
	for _, id := range ratedIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		pending = append(pending, entity.RatingStats{RestaurantID: id.String()})
		ids = append(ids, id)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		updated int
		errs    []error
	)
	sem := semaphore.NewWeighted(s.workers)

	for i := range pending {
		if err := s.limiter.Wait(ctx); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(id uuid.UUID, stats entity.RatingStats) {
			defer wg.Done()
			defer sem.Release(1)

			err := s.applyStats(ctx, id, stats, entity.TriggerReconcile)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			updated++
		}(ids[i], pending[i])
	}
	wg.Wait()

	logger.Info().
		Int("restaurants_with_reviews", len(allStats)).
		Int("updated", updated).
		Int("failed", len(errs)).
		Dur("duration", time.Since(start)).
		Msg("Rating reconciliation finished")

	return updated, errors.Join(errs...)
}

func (s *RatingService) applyStats(ctx context.Context, id uuid.UUID, stats entity.RatingStats, trigger string) error {
	average := roundRating(stats.Average)

	err := s.restaurantRepo.UpdateRating(ctx, id, average, stats.Count)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			// Ресторан удален, а отзывы остались - пересчитывать некуда
			logger.Warn().Str("restaurant_id", id.String()).Msg("Restaurant not found, rating not updated")
			metrics.RatingRecalculations.WithLabelValues(trigger, "skipped").Inc()
			return nil
		}
		metrics.RatingRecalculations.WithLabelValues(trigger, "error").Inc()
		return fmt.Errorf("failed to update rating for restaurant %s: %w", id, err)
	}

	metrics.RatingRecalculations.WithLabelValues(trigger, "success").Inc()
	logger.Debug().
		Str("restaurant_id", id.String()).
		Float64("average_rating", average).
		Int("total_reviews", stats.Count).
		Str("trigger", trigger).
		Msg("Restaurant rating updated")

	return nil
}

// roundRating округляет до одного знака, как хранится в decimal(2,1)
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
