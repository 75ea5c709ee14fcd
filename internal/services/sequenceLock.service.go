package services

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	sequenceLockKeyPattern = "sequence_lock:%s"
	lockRetryMin           = 10 * time.Millisecond
	lockRetryMax           = 200 * time.Millisecond
	lockReleaseTimeout     = 5 * time.Second
)

var releaseScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var renewScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SequenceLockService serializes barcode allocation per prefix. Within a
// process a keyed mutex is always taken; when a cache is configured a valkey
// lock extends the guard across instances and is renewed every ttl/3 until
// released.
type SequenceLockService struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger

	mu    sync.Mutex
	locks map[string]*prefixLock
}

type prefixLock struct {
	slot chan struct{}
	refs int
}

func NewSequenceLockService(cache database.CacheClient, ttl time.Duration) *SequenceLockService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SequenceLockService{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("SequenceLockService"),
		locks: make(map[string]*prefixLock),
	}
}

// Lock blocks until prefix is exclusively held or ctx ends. The returned
// func releases it and must be called exactly once.
func (s *SequenceLockService) Lock(ctx context.Context, prefix string) (func(), error) {
	log := s.log.Function("Lock")

	local := s.acquireEntry(prefix)
	select {
	case local.slot <- struct{}{}:
	case <-ctx.Done():
		s.releaseEntry(prefix, local)
		return nil, log.Err("timed out waiting for sequence lock", ctx.Err(), "prefix", prefix)
	}

	releaseLocal := func() {
		<-local.slot
		s.releaseEntry(prefix, local)
	}

	if s.cache == nil {
		return releaseLocal, nil
	}

	token, err := s.acquireRemote(ctx, prefix)
	if err != nil {
		releaseLocal()
		return nil, log.Err("failed to acquire distributed sequence lock", err, "prefix", prefix)
	}

	renewCtx, stopRenew := context.WithCancel(context.Background())
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		s.keepAlive(renewCtx, prefix, s.ttl/3, func(ctx context.Context) (bool, error) {
			return s.renewRemote(ctx, prefix, token)
		})
	}()

	return func() {
		stopRenew()
		<-renewed
		s.releaseRemote(prefix, token)
		releaseLocal()
	}, nil
}

// keepAlive calls renew every interval until ctx ends or renew reports the
// lock is no longer ours. Renewal errors are retried on the next tick.
func (s *SequenceLockService) keepAlive(
	ctx context.Context,
	prefix string,
	interval time.Duration,
	renew func(context.Context) (bool, error),
) {
	log := s.log.Function("keepAlive")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		held, err := renew(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			log.Warn("failed to renew distributed sequence lock", "prefix", prefix, "error", err)
		case !held:
			log.Warn("distributed sequence lock lost before release", "prefix", prefix)
			return
		}
	}
}

func (s *SequenceLockService) renewRemote(ctx context.Context, prefix, token string) (bool, error) {
	ttl := strconv.FormatInt(s.ttl.Milliseconds(), 10)
	n, err := renewScript.Exec(ctx, s.cache, []string{s.lockKey(prefix)}, []string{token, ttl}).AsInt64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SequenceLockService) acquireEntry(prefix string) *prefixLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[prefix]
	if !ok {
		entry = &prefixLock{slot: make(chan struct{}, 1)}
		s.locks[prefix] = entry
	}
	entry.refs++
	return entry
}

func (s *SequenceLockService) releaseEntry(prefix string, entry *prefixLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, prefix)
	}
}

func (s *SequenceLockService) lockKey(prefix string) string {
	return database.NewCacheBuilder(s.cache, prefix).WithHashPattern(sequenceLockKeyPattern).Key()
}

func (s *SequenceLockService) acquireRemote(ctx context.Context, prefix string) (string, error) {
	token := uuid.NewString()
	key := s.lockKey(prefix)
	wait := lockRetryMin

	for {
		cmd := s.cache.B().Set().Key(key).Value(token).Nx().PxMilliseconds(s.ttl.Milliseconds()).Build()
		err := s.cache.Do(ctx, cmd).Error()
		if err == nil {
			return token, nil
		}
		if !valkey.IsValkeyNil(err) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, lockRetryMax)
	}
}

func (s *SequenceLockService) releaseRemote(prefix, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	err := releaseScript.Exec(ctx, s.cache, []string{s.lockKey(prefix)}, []string{token}).Error()
	if err != nil {
		s.log.Function("releaseRemote").
			Warn("failed to release distributed sequence lock, it will expire", "prefix", prefix, "error", err)
	}
}

// held reports how many callers hold or wait on prefix.
func (s *SequenceLockService) held(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.locks[prefix]; ok {
		return entry.refs
	}
	return 0
}
