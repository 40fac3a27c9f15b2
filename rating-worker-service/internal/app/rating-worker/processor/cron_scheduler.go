package processor

import (
	"context"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/rating-worker-service/internal/app/rating-worker/service"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически сверяет рейтинги ресторанов с отзывами
type CronScheduler struct {
	cron      *cron.Cron
	ratingSvc service.RatingServiceInterface
}

func NewCronScheduler(ratingSvc service.RatingServiceInterface) *CronScheduler {
	l := cronLogger{}
	c := cron.New(
		cron.WithLogger(l),
		// Следующий запуск пропускается, если предыдущая сверка еще идет
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	return &CronScheduler{
		cron:      c,
		ratingSvc: ratingSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.reconcile(ctx, "Cron job")
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первая сверка сразу при старте: события, пропущенные во время простоя
	s.reconcile(ctx, "Initial")

	return nil
}

func (s *CronScheduler) reconcile(ctx context.Context, run string) {
	updated, err := s.ratingSvc.ReconcileAll(ctx)
	if err != nil {
		logger.Error().Err(err).Str("run", run).Int("updated", updated).Msg("Rating reconciliation failed")
		return
	}
	logger.Info().Str("run", run).Int("updated", updated).Msg("Rating reconciliation completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
