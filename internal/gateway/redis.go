// Redis 연결 초기화
//
// 환경변수:
//   - REDIS_ADDR: host:port. 비어 있으면 내장 miniredis 사용
//   - REDIS_PASSWORD
//   - REDIS_DB (default: 0)

package gateway

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/phazelsound/client/internal/config"
)

// NewRedis connects to cfg.Addr, or starts an embedded server when no
// address is configured. The returned close func releases both.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	addr := cfg.Addr
	var embedded *miniredis.Miniredis
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		embedded = mr
		addr = mr.Addr()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	closeFn := func() {
		_ = rdb.Close()
		if embedded != nil {
			embedded.Close()
		}
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, closeFn, nil
}

// Embedded reports whether cfg makes NewRedis start an in-process server.
func Embedded(cfg config.RedisConfig) bool {
	return cfg.Addr == ""
}
