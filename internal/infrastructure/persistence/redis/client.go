package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/lodging/internal/infrastructure/config"
)

// connectTimeout 启动阶段等待Redis就绪的最长时间
const connectTimeout = 30 * time.Second

// NewClient 创建Redis客户端
// 锁价和Token黑名单都依赖Redis，连不上时启动失败；
// 编排环境里Redis可能晚于服务就绪，Ping按指数退避重试
func NewClient(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectTimeout

	err := backoff.RetryNotify(ping, b, func(err error, next time.Duration) {
		log.Warn("redis not ready, retrying",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("next", next),
			zap.Error(err),
		)
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()), zap.Int("db", cfg.Redis.DB))
	return client, nil
}
