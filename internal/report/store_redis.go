package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jspark-dev/tacticscan/internal/analysis"
)

// Store keeps finished game reports in redis so repeated runs over the
// same corpus can be inspected without re-reading the JSON files.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func keyReport(runID, gameKey string) string { return "tacticscan:run:" + runID + ":" + gameKey }
func keyRunIdx(runID string) string          { return "tacticscan:run:" + runID + ":games" }

// SaveBatch stores every game report of a run plus an index of its
// game keys, all with the same TTL.
func (s *Store) SaveBatch(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return nil
	}
	for key, rep := range batch.Games {
		raw, err := json.Marshal(rep)
		if err != nil {
			return fmt.Errorf("marshal report %s: %w", key, err)
		}
		if err := s.rdb.Set(ctx, keyReport(batch.RunID, key), raw, s.ttl).Err(); err != nil {
			return fmt.Errorf("store report %s: %w", key, err)
		}
		if err := s.rdb.SAdd(ctx, keyRunIdx(batch.RunID), key).Err(); err != nil {
			return fmt.Errorf("index report %s: %w", key, err)
		}
	}
	return s.rdb.Expire(ctx, keyRunIdx(batch.RunID), s.ttl).Err()
}

// LoadReport fetches one stored game report; nil when absent.
func (s *Store) LoadReport(ctx context.Context, runID, gameKey string) (*analysis.GameReport, error) {
	raw, err := s.rdb.Get(ctx, keyReport(runID, gameKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rep analysis.GameReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	rep.Key = gameKey
	return &rep, nil
}

// GameKeys lists the game keys stored for a run.
func (s *Store) GameKeys(ctx context.Context, runID string) ([]string, error) {
	return s.rdb.SMembers(ctx, keyRunIdx(runID)).Result()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		opts.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			opts.Password = pw
		}
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("parse redis db: %w", err)
		}
		opts.DB = n
	}
	return opts, nil
}
