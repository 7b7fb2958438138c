// Package redis 封装 Redis 连接，目前承载已注销 Token 的黑名单。
// Redis 不可用时上层以降级模式运行，黑名单相关能力失效但不影响主流程。
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/config"
)

const (
	dialTimeout = 5 * time.Second

	// 黑名单键：auth:revoked:<jti>，值无意义，仅以存在性判定
	revokedKeyPrefix = "auth:revoked:"
)

// Client Redis 客户端封装
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 建立连接并以 Ping 验证可达性
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}
	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// BlacklistToken 将 JWT ID 加入黑名单，键随 Token 剩余有效期自动过期
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	// 剩余有效期耗尽的 Token 无需入黑名单
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否已被注销
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
