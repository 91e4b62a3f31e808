package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/session"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"

	fieldLoggedIn = "is_logged_in"
	fieldUserID   = "user_id"
)

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) session.Repository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) getSessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *sessionRepository) Save(ctx context.Context, rec session.Record, ttl time.Duration) error {
	if rec.ID == "" {
		return errors.New("cannot save session with empty id")
	}
	key := r.getSessionKey(rec.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldLoggedIn, strconv.FormatBool(rec.LoggedIn), fieldUserID, rec.UserID)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s to redis: %w", rec.ID, err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (session.Record, error) {
	vals, err := r.client.HGetAll(ctx, r.getSessionKey(id)).Result()
	if err != nil {
		return session.Record{}, fmt.Errorf("failed to get session %s from redis: %w", id, err)
	}
	if len(vals) == 0 {
		return session.Record{}, session.ErrNotFound
	}
	loggedIn, _ := strconv.ParseBool(vals[fieldLoggedIn])
	return session.Record{ID: id, UserID: vals[fieldUserID], LoggedIn: loggedIn}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.getSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s from redis: %w", id, err)
	}
	return nil
}
