// Package redis stores collections as plain string values in Redis.
//
// Durability follows the server's persistence settings (AOF/RDB); a Write
// returns once the server has acknowledged the SET.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/storage"
)

// Options selects the Redis server. Addr may also be a redis:// URL.
type Options struct {
	Addr     string
	DB       int
	Username string
	Password string
	Prefix   string
}

type Store struct {
	opts   Options
	client *goredis.Client
}

func New(opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = constants.RedisKeyPrefix
	}
	return &Store{opts: opts}
}

// NewWithClient wraps an existing client. Init and Load become connectivity checks.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	s := New(Options{Prefix: prefix})
	s.client = client
	return s
}

func (s *Store) clientOptions() (*goredis.Options, error) {
	if strings.HasPrefix(s.opts.Addr, "redis://") || strings.HasPrefix(s.opts.Addr, "rediss://") {
		o, err := goredis.ParseURL(s.opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return o, nil
	}
	return &goredis.Options{
		Addr:         s.opts.Addr,
		DB:           s.opts.DB,
		Username:     s.opts.Username,
		Password:     s.opts.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}, nil
}

func (s *Store) connect() error {
	if s.client == nil {
		o, err := s.clientOptions()
		if err != nil {
			return err
		}
		s.client = goredis.NewClient(o)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", s.GetConfigPath(), err)
	}
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}
	logger.Info("redis backend ready", "addr", s.GetConfigPath(), "prefix", s.opts.Prefix)
	return nil
}

func (s *Store) Load() error {
	return s.connect()
}

func (s *Store) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *Store) key(key string) string {
	return s.opts.Prefix + key
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, storage.ErrNotInitialized
	}
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if s.client == nil {
		return storage.ErrNotInitialized
	}
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.client == nil {
		return storage.ErrNotInitialized
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// GetConfigPath returns the server address without credentials.
func (s *Store) GetConfigPath() string {
	if o, err := s.clientOptions(); err == nil && o.Addr != "" {
		return "redis://" + o.Addr
	}
	return "redis"
}
