package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"rideshare/config"
	"rideshare/pkg/logger"
	"rideshare/storage"
)

// Store keeps each snapshot as a plain Redis string.
type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	owner  bool
	log    logger.ILogger
}

var _ storage.IBlobStorage = (*Store)(nil)

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect Redis", logger.Error(err))
		_ = client.Close()
		return nil, err
	}

	log.Info("Redis connected", logger.String("addr", client.Options().Addr))
	return NewWithClient(client, cfg.RedisKeyPrefix, log), nil
}

// NewWithClient wraps an existing client. The returned Store closes it.
func NewWithClient(client *goredis.Client, prefix string, log logger.ILogger) *Store {
	return &Store{client: client, prefix: prefix, owner: true, log: log}
}

// Namespace returns a view over the same connection with its own key prefix
// and expiry. Closing the view leaves the connection open.
func (s *Store) Namespace(prefix string, ttl time.Duration) *Store {
	return &Store{client: s.client, prefix: s.prefix + prefix, ttl: ttl, log: s.log}
}

func (s *Store) Key(key string) string {
	return s.prefix + key
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.Key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if !s.owner {
		return nil
	}
	return s.client.Close()
}
