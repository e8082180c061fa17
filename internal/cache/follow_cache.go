package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/pkg/logger"
)

// Observer 接收缓存命中情况，metrics.Collector 实现了它
type Observer interface {
	FollowCacheHit()
	FollowCacheMiss()
}

// FollowCache 关注关系的读穿缓存。值为 "1"/"0"，负结果同样缓存。
// 每个 (follower, followee) 有一个版本号，Invalidate 先递增版本再删键；
// 回填只在版本未变时写入，避免并发读把取关前的结果写回缓存。
type FollowCache struct {
	repo  repository.FollowRepository
	cache *redis.Client
	ttl   time.Duration
	obs   Observer
}

func NewFollowCache(repo repository.FollowRepository, cache *redis.Client, ttl time.Duration, obs Observer) *FollowCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FollowCache{repo: repo, cache: cache, ttl: ttl, obs: obs}
}

func followKey(followerID, followeeID uint) string {
	return fmt.Sprintf("follow:%d:%d", followerID, followeeID)
}

func versionKey(followerID, followeeID uint) string {
	return fmt.Sprintf("follow:ver:%d:%d", followerID, followeeID)
}

// Exists 先查 Redis，未命中或 Redis 不可用时回源数据库
func (c *FollowCache) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	key := followKey(followerID, followeeID)
	val, err := c.cache.Get(ctx, key).Result()
	if err == nil {
		c.hit()
		return val == "1", nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn("follow cache get failed", zap.String("key", key), zap.Error(err))
	}
	c.miss()

	// 版本必须在读库之前取
	verKey := versionKey(followerID, followeeID)
	ver, verErr := c.version(ctx, verKey)

	ok, err := c.repo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if verErr != nil {
		return ok, nil
	}
	payload := "0"
	if ok {
		payload = "1"
	}
	if err := c.fill(ctx, key, verKey, ver, payload); err != nil {
		logger.Warn("follow cache set failed", zap.String("key", key), zap.Error(err))
	}
	return ok, nil
}

func (c *FollowCache) version(ctx context.Context, verKey string) (string, error) {
	ver, err := c.cache.Get(ctx, verKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return ver, err
}

// fill 在版本未变时写入缓存；版本已变说明期间发生过关注/取关，放弃回填
func (c *FollowCache) fill(ctx context.Context, key, verKey, ver, payload string) error {
	err := c.cache.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Result()
		if errors.Is(err, redis.Nil) {
			cur, err = "", nil
		}
		if err != nil {
			return err
		}
		if cur != ver {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, c.ttl)
			return nil
		})
		return err
	}, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate 递增版本并删除缓存的关注结果
func (c *FollowCache) Invalidate(ctx context.Context, followerID, followeeID uint) error {
	verKey := versionKey(followerID, followeeID)
	_, err := c.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		// 版本号要比任何在途回填活得久
		pipe.Expire(ctx, verKey, c.ttl+time.Minute)
		pipe.Del(ctx, followKey(followerID, followeeID))
		return nil
	})
	return err
}

func (c *FollowCache) hit() {
	if c.obs != nil {
		c.obs.FollowCacheHit()
	}
}

func (c *FollowCache) miss() {
	if c.obs != nil {
		c.obs.FollowCacheMiss()
	}
}
