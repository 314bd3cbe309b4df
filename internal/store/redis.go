package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"mangatrack/internal/domain"
)

const redisOpTimeout = 5 * time.Second

// RedisStore implements domain.Store against a shared Redis instance,
// namespaced per user so several machines can work on the same library.
// Mutations publish on a per-user channel, which backs Subscribe for
// cross-process change propagation.
type RedisStore struct {
	client *redis.Client
	user   string
	logger *slog.Logger
}

// NewRedisStore connects to redisURL and verifies connectivity before
// returning. The user string namespaces all keys.
func NewRedisStore(redisURL, user string, logger *slog.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	logger.Debug("redis store connected", "addr", opts.Addr, "user", user)

	return &RedisStore{client: client, user: user, logger: logger}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) entryKey(id string) string {
	return fmt.Sprintf("mt:%s:entry:%s", s.user, id)
}

func (s *RedisStore) notificationsKey() string {
	return fmt.Sprintf("mt:%s:notifications", s.user)
}

func (s *RedisStore) metaKey() string {
	return fmt.Sprintf("mt:%s:meta", s.user)
}

func (s *RedisStore) changesChannel() string {
	return fmt.Sprintf("mt:%s:changes", s.user)
}

func (s *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// === Library entries ===

func (s *RedisStore) Entries() ([]domain.LibraryEntry, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var entries []domain.LibraryEntry
	iter := s.client.Scan(ctx, 0, s.entryKey("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis: scan failed: %w", err)
	}
	if len(keys) > 0 {
		vals, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: mget failed: %w", err)
		}
		for _, v := range vals {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var e domain.LibraryEntry
			if err := json.Unmarshal([]byte(raw), &e); err == nil {
				entries = append(entries, e)
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *RedisStore) Get(id string) (domain.LibraryEntry, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	raw, err := s.client.Get(ctx, s.entryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LibraryEntry{}, fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		return domain.LibraryEntry{}, fmt.Errorf("redis: get failed: %w", err)
	}
	var e domain.LibraryEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.LibraryEntry{}, fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
	}
	return e, nil
}

func (s *RedisStore) Put(entry domain.LibraryEntry) error {
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.entryKey(entry.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	s.publish(ctx)
	return nil
}

// Patch applies fn under an optimistic WATCH transaction so a concurrent
// writer on another machine cannot be silently overwritten. A handful of
// retries covers contention on a single person's reading list.
func (s *RedisStore) Patch(id string, fn func(*domain.LibraryEntry)) error {
	ctx, cancel := s.ctx()
	defer cancel()
	key := s.entryKey(id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
			}
			return err
		}
		var e domain.LibraryEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		fn(&e)
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < 3; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			s.publish(ctx)
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // another writer got there first, retry
		}
		if errors.Is(err, domain.ErrSeriesNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return fmt.Errorf("%w: too much contention on entry %s", domain.ErrStoreWrite, id)
}

func (s *RedisStore) Remove(id string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	n, err := s.client.Del(ctx, s.entryKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
	}
	s.publish(ctx)
	return nil
}

// === Notifications ===

func (s *RedisStore) Notifications() ([]domain.Notification, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	raws, err := s.client.LRange(ctx, s.notificationsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: lrange failed: %w", err)
	}
	out := make([]domain.Notification, 0, len(raws))
	for _, raw := range raws {
		var n domain.Notification
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *RedisStore) AppendNotification(n domain.Notification) error {
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := s.notificationsKey()
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(domain.MaxNotifications-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}

func (s *RedisStore) ClearNotifications() error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Del(ctx, s.notificationsKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}

// === Meta ===

func (s *RedisStore) Meta(key string) (string, bool) {
	ctx, cancel := s.ctx()
	defer cancel()

	v, err := s.client.HGet(ctx, s.metaKey(), key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *RedisStore) SetMeta(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.HSet(ctx, s.metaKey(), key, value).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}

// === Change subscriptions ===

func (s *RedisStore) publish(ctx context.Context) {
	if err := s.client.Publish(ctx, s.changesChannel(), "changed").Err(); err != nil {
		s.logger.Debug("redis publish failed", "error", err)
	}
}

// Subscribe listens on the per-user event channel and re-reads the
// library after each change, including changes made by other processes.
func (s *RedisStore) Subscribe(fn func([]domain.LibraryEntry)) (cancel func()) {
	ctx, stop := context.WithCancel(context.Background())
	sub := s.client.Subscribe(ctx, s.changesChannel())

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				entries, err := s.Entries()
				if err != nil {
					s.logger.Warn("could not reload entries after change", "error", err)
					continue
				}
				fn(entries)
			}
		}
	}()

	return func() {
		stop()
		sub.Close()
	}
}
