package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewCronScheduler(t *testing.T) {
	ratingSvc := new(MockRatingService)

	scheduler := NewCronScheduler(ratingSvc)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Empty(t, scheduler.GetEntries())
}

func TestCronScheduler_Start_Success(t *testing.T) {
	ratingSvc := new(MockRatingService)
	scheduler := NewCronScheduler(ratingSvc)

	// Первая сверка при старте
	ratingSvc.On("ReconcileAll", mock.Anything).Return(3, nil)

	err := scheduler.Start(context.Background(), "*/15 * * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
	ratingSvc.AssertNumberOfCalls(t, "ReconcileAll", 1)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	ratingSvc := new(MockRatingService)
	scheduler := NewCronScheduler(ratingSvc)

	err := scheduler.Start(context.Background(), "invalid cron expression")

	assert.Error(t, err)
	ratingSvc.AssertNotCalled(t, "ReconcileAll", mock.Anything)
}

func TestCronScheduler_Start_InitialReconcileError_ContinuesWork(t *testing.T) {
	ratingSvc := new(MockRatingService)
	scheduler := NewCronScheduler(ratingSvc)

	ratingSvc.On("ReconcileAll", mock.Anything).Return(0, errors.New("mongo unavailable"))

	err := scheduler.Start(context.Background(), "*/15 * * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_JobExecution(t *testing.T) {
	ratingSvc := new(MockRatingService)
	scheduler := NewCronScheduler(ratingSvc)

	ratingSvc.On("ReconcileAll", mock.Anything).Return(1, nil)

	// @every 1s - минимальный шаг cron
	err := scheduler.Start(context.Background(), "@every 1s")
	assert.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	scheduler.Stop()

	// Initial + минимум один запуск по расписанию
	assert.GreaterOrEqual(t, len(ratingSvc.Calls), 2)
}
