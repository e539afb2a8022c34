package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker hands out exclusive locks over a set of keys. The returned release
// func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisLocker struct {
	Client redis.UniversalClient
	Prefix string
	TTL    time.Duration
	Wait   time.Duration
}

func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{
		Client: client,
		Prefix: prefix,
		TTL:    AppConfigData.LockTTL,
		Wait:   AppConfigData.LockWait,
	}
}

// Lock acquires the keys in sorted order so two multi-key callers cannot
// deadlock each other.
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := uniqueSorted(keys)
	owner := uuid.NewString()
	deadline := time.Now().Add(l.Wait)

	var held []string
	release := func() {
		bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, k := range held {
			_ = releaseScript.Run(bg, l.Client, []string{k}, owner).Err()
		}
	}

	for _, key := range sorted {
		full := l.Prefix + key
		backoff := 10 * time.Millisecond
		for {
			ok, err := l.Client.SetNX(ctx, full, owner, l.TTL).Result()
			if err != nil {
				release()
				return nil, fmt.Errorf("lock %s: %w", key, err)
			}
			if ok {
				held = append(held, full)
				break
			}
			if time.Now().After(deadline) {
				release()
				return nil, ErrLockNotAcquired
			}
			select {
			case <-ctx.Done():
				release()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 200*time.Millisecond {
				backoff *= 2
			}
		}
	}
	return release, nil
}

// LocalLocker is the in-process fallback used when Redis is disabled. It is
// only correct with a single replica.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := uniqueSorted(keys)
	acquired := make([]string, 0, len(sorted))
	for _, key := range sorted {
		if err := ctx.Err(); err != nil {
			l.unlock(acquired)
			return nil, err
		}
		l.mu.Lock()
		kl, ok := l.locks[key]
		if !ok {
			kl = &keyLock{}
			l.locks[key] = kl
		}
		kl.refs++
		l.mu.Unlock()

		kl.mu.Lock()
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(func() { l.unlock(acquired) }) }, nil
}

func (l *LocalLocker) unlock(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		kl := l.locks[keys[i]]
		kl.mu.Unlock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, keys[i])
		}
		l.mu.Unlock()
	}
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
