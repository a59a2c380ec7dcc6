package blacklist

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "jti_blacklist:"

// Blacklist 已吊销令牌的 jti 名单，登出后写入，键随 TTL 自动过期
type Blacklist struct {
	client *redis.Client
}

func New(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Add 吊销 jti，ttl 取令牌剩余有效期即可
func (b *Blacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已过期的令牌无需入名单
	}
	return b.client.Set(ctx, keyPrefix+jti, "1", ttl).Err()
}

// Contains 检查 jti 是否已吊销
func (b *Blacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
