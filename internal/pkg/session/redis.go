package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	redis "gopkg.in/redis.v5"
)

// DefaultRedisTTL is how long a session record survives in Redis.
const DefaultRedisTTL = 24 * time.Hour

const redisKeyPrefix = "udpxfer:session:"

// RedisStore keeps session records in Redis so they outlive the receiver process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at addr.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s failed", addr)
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

func (s *RedisStore) New(id uuid.UUID, started time.Time) error {
	data, err := json.Marshal(Session{ID: id, Started: started, State: StateActive})
	if err != nil {
		return errors.Wrap(err, "marshal session failed")
	}
	ok, err := s.client.SetNX(redisKey(id), data, s.ttl).Result()
	if err != nil {
		return errors.Wrap(err, "setnx session failed")
	}
	if !ok {
		return ErrSessionAlreadyExists
	}
	return nil
}

func (s *RedisStore) Get(id uuid.UUID) (Session, error) {
	data, err := s.client.Get(redisKey(id)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "get session failed")
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, errors.Wrap(err, "unmarshal session failed")
	}
	return sess, nil
}

func (s *RedisStore) Set(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshal session failed")
	}
	ok, err := s.client.SetXX(redisKey(sess.ID), data, s.ttl).Result()
	if err != nil {
		return errors.Wrap(err, "setxx session failed")
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) Clear(id uuid.UUID) error {
	n, err := s.client.Del(redisKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, "del session failed")
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
