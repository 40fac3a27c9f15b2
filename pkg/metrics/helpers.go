package metrics

import (
	"errors"
	"time"
)

type RedisOperation string

const (
	RedisOpGet    RedisOperation = "get"
	RedisOpSet    RedisOperation = "set"
	RedisOpExists RedisOperation = "exists"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(time.Since(rt.start).Seconds())
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaMessageConsumed(service, topic, group string, processingDuration time.Duration) {
	KafkaMessagesConsumed.WithLabelValues(service, topic, group).Inc()
	KafkaConsumeDuration.WithLabelValues(service, topic).Observe(processingDuration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	RecordKafkaMessageProduced(kt.service, kt.topic, time.Since(kt.start))
}

func (kt *KafkaProduceTimer) Error() {
	RecordKafkaError(kt.service, kt.topic, "produce")
}

type DbStore string

const (
	StorePostgres DbStore = "postgres"
	StoreMongo    DbStore = "mongo"
)

type DbOperation string

const (
	DbOpSelect    DbOperation = "select"
	DbOpInsert    DbOperation = "insert"
	DbOpUpdate    DbOperation = "update"
	DbOpDelete    DbOperation = "delete"
	DbOpCount     DbOperation = "count"
	DbOpAggregate DbOperation = "aggregate"
)

// DbTimer замеряет длительность запроса и считает ошибки
//
//	timer := metrics.NewDbTimer("reviews-service", metrics.StoreMongo, metrics.DbOpSelect, "reviews")
//	defer timer.Observe(&err)
type DbTimer struct {
	service   string
	store     DbStore
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, store DbStore, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		store:     store,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	DbQueryDuration.WithLabelValues(dt.service, string(dt.store), string(dt.operation), dt.table).Observe(time.Since(dt.start).Seconds())
}

// Observe записывает длительность и, если *errp != nil, ошибку.
// Ошибки из expected (например, not found) ошибками БД не считаются.
func (dt *DbTimer) Observe(errp *error, expected ...error) {
	dt.ObserveDuration()
	if errp == nil || *errp == nil {
		return
	}
	for _, e := range expected {
		if errors.Is(*errp, e) {
			return
		}
	}
	DbErrors.WithLabelValues(dt.service, string(dt.store), string(dt.operation)).Inc()
}
