package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger remembers which products already had their winner announced.
// Claim returns false when another publisher got there first.
type Ledger interface {
	Claim(ctx context.Context, productID string) (bool, error)
	Release(ctx context.Context, productID string) error
}

// MemoryLedger is a process-local Ledger. Claims expire after ttl like
// RedisLedger keys do; a zero ttl keeps them for the life of the process.
type MemoryLedger struct {
	mu        sync.Mutex
	claimed   map[string]time.Time
	ttl       time.Duration
	nextPrune time.Time
	now       func() time.Time
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{
		claimed: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (l *MemoryLedger) Claim(_ context.Context, productID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if expires, ok := l.claimed[productID]; ok && (l.ttl <= 0 || now.Before(expires)) {
		return false, nil
	}
	l.claimed[productID] = now.Add(l.ttl)
	return true, nil
}

func (l *MemoryLedger) Release(_ context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.claimed, productID)
	return nil
}

// size reports the number of claims currently held
func (l *MemoryLedger) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.claimed)
}

// prune drops expired claims at most once per ttl. Caller holds mu.
func (l *MemoryLedger) prune(now time.Time) {
	if l.ttl <= 0 || now.Before(l.nextPrune) {
		return
	}
	for id, expires := range l.claimed {
		if !now.Before(expires) {
			delete(l.claimed, id)
		}
	}
	l.nextPrune = now.Add(l.ttl)
}

// redisCmdable is the subset of redis.Cmdable used by RedisLedger
type redisCmdable interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLedger shares claims between instances through SETNX with a TTL
type RedisLedger struct {
	client redisCmdable
	prefix string
	ttl    time.Duration
}

func NewRedisLedger(client redisCmdable, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, prefix: "auction:winner-notified:", ttl: ttl}
}

// ConnectRedis opens a client for addr and pings it
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (l *RedisLedger) key(productID string) string { return l.prefix + productID }

func (l *RedisLedger) Claim(ctx context.Context, productID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(productID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim product %s: %w", productID, err)
	}
	return ok, nil
}

func (l *RedisLedger) Release(ctx context.Context, productID string) error {
	if err := l.client.Del(ctx, l.key(productID)).Err(); err != nil {
		return fmt.Errorf("release product %s: %w", productID, err)
	}
	return nil
}
