package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "bb:session:"      // JSON session state: bb:session:{session_id}
	seenSetKey       = "bb:sessions:seen" // Set of all session IDs ever stored
	sessionTTL       = 7 * 24 * time.Hour
)

var ErrNotFound = errors.New("sessions: not found")

// Repo stores per-visitor quiz state in Redis as JSON blobs with a sliding
// TTL. Payloads are caller-defined; the repo only handles (de)serialization
// and key management.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) Get(ctx context.Context, sessionID string, dest any) error {
	data, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal session: %w", err)
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, sessionID string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKeyPrefix+sessionID, data, sessionTTL)
	pipe.SAdd(ctx, seenSetKey, sessionID)
	pipe.Expire(ctx, seenSetKey, sessionTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListIDs returns every session ID still tracked in the seen set. Used by the
// archive job to sweep session state into object storage.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, seenSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}
