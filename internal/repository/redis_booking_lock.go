package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wasin-t/eventbook/pkg/redis"
	"github.com/wasin-t/eventbook/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RedisBookingLock serializes cancellation per booking with a SETNX lock.
// The TTL bounds how long a crashed canceller can hold the lock.
type RedisBookingLock struct {
	client *redis.Client
}

// NewRedisBookingLock creates a new RedisBookingLock
func NewRedisBookingLock(client *redis.Client) *RedisBookingLock {
	return &RedisBookingLock{client: client}
}

func lockKey(bookingID string) string {
	return fmt.Sprintf("booking:cancel:%s", bookingID)
}

// Acquire attempts to take the cancellation lock for a booking
func (l *RedisBookingLock) Acquire(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.booking_lock.acquire")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	ok, err := l.client.SetNX(ctx, lockKey(bookingID), "1", ttl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to acquire cancellation lock: %w", err)
	}

	span.SetAttributes(attribute.Bool("acquired", ok))
	span.SetStatus(codes.Ok, "")
	return ok, nil
}

// Release frees the cancellation lock for a booking
func (l *RedisBookingLock) Release(ctx context.Context, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.booking_lock.release")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	if err := l.client.Del(ctx, lockKey(bookingID)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to release cancellation lock: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure RedisBookingLock implements BookingLock
var _ BookingLock = (*RedisBookingLock)(nil)
