// Package lock provides a Redis-backed mutual exclusion lease used to keep a
// periodic job from running on more than one replica at a time.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/vendorauth/internal/pkg/uid"
)

var (
	// ErrNotAcquired is returned when another holder owns the key.
	ErrNotAcquired = errors.New("lock: already held")
	// ErrNotHeld is returned by Release when the lease expired or was taken over.
	ErrNotHeld = errors.New("lock: lease no longer held")
)

// Locker grants exclusive, expiring leases on keys.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
	Do(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// releaseScript deletes the key only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX and a compare-and-delete release.
type Redis struct {
	client redis.Cmdable
	tokens uid.StringID
	prefix string
}

// NewRedis builds a Redis locker. Tokens identify the holder of each lease.
func NewRedis(client redis.Cmdable, tokens uid.StringID) *Redis {
	return &Redis{client: client, tokens: tokens, prefix: "lock:"}
}

// Lease is a held lock.
type Lease struct {
	key    string
	token  string
	client redis.Cmdable
}

// Key returns the fully-qualified redis key.
func (l *Lease) Key() string { return l.key }

// Release gives the lease back. Releasing an expired lease returns ErrNotHeld
// and never deletes a lease taken over by someone else.
func (l *Lease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

// Acquire takes key for ttl, or returns ErrNotAcquired when it is held.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	fk := r.prefix + key
	token := r.tokens.Generate()

	ok, err := r.client.SetNX(ctx, fk, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return &Lease{key: fk, token: token, client: r.client}, nil
}

// Do runs fn while holding key. The lease is released afterwards with a
// context detached from ctx cancellation so shutdown does not leak it.
func (r *Redis) Do(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	lease, err := r.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}

	fnErr := fn(ctx)

	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := lease.Release(relCtx); err != nil && !errors.Is(err, ErrNotHeld) {
		return errors.Join(fnErr, err)
	}

	return fnErr
}
