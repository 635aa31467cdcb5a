// Package guard provides the whole-operation mutual exclusion the ledger
// requires: every public mutating operation holds the guard from its first
// check to its commit or rollback, so a reentrant or concurrent call can
// never observe partially applied state.
package guard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard is acquired for the duration of one public operation. Acquire blocks
// until the guard is free or ctx is done; the returned func releases it.
type Guard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Local is a single-process guard.
type Local struct {
	sem chan struct{}
}

func NewLocal() *Local {
	return &Local{sem: make(chan struct{}, 1)}
}

func (l *Local) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Redis is a SetNX lock for multi-replica deployments. The TTL bounds how
// long a crashed holder can wedge the ledger; release only deletes the key
// when it still holds this acquisition's token.
type Redis struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

const defaultKey = "invoicevault:oplock"

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client, Key: defaultKey, TTL: 30 * time.Second}
}

func (r *Redis) Acquire(ctx context.Context) (func(), error) {
	token := uuid.New().String()
	for {
		ok, err := r.Client.SetNX(ctx, r.Key, token, r.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseScript.Run(context.Background(), r.Client, []string{r.Key}, token)
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}
