package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired 没抢到锁（上下文先到期）
var ErrNotAcquired = errors.New("ledger lock not acquired")

// delete only if the token is still ours
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0
`)

// Redis guards the ledger across service instances that share one store.
// SET NX with a TTL so a crashed holder cannot wedge the ledger forever.
type Redis struct {
	rdb   *redis.Client
	key   string
	ttl   time.Duration
	retry time.Duration
}

func NewRedis(rdb *redis.Client, key string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, key: key, ttl: ttl, retry: 50 * time.Millisecond}
}

func (r *Redis) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	for {
		ok, err := r.rdb.SetNX(ctx, r.key, token, r.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				_, _ = unlockScript.Run(context.Background(), r.rdb, []string{r.key}, token).Result()
			}
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-time.After(r.retry):
		}
	}
}
