package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const emailReservationPrefix = "agent:email:"

// EmailReservation claims agent emails in Redis so that two concurrent
// creations with the same email cannot both pass the uniqueness check.
type EmailReservation struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEmailReservation(client *redis.Client, ttl time.Duration) *EmailReservation {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &EmailReservation{client: client, ttl: ttl}
}

// Reserve returns false when another request already holds email.
func (r *EmailReservation) Reserve(ctx context.Context, email string) (bool, error) {
	return r.client.SetNX(ctx, emailReservationPrefix+email, 1, r.ttl).Result()
}

func (r *EmailReservation) Release(ctx context.Context, email string) error {
	return r.client.Del(ctx, emailReservationPrefix+email).Err()
}
