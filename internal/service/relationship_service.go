package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/pkg/logger"
)

// FollowInvalidator 关注关系变化时清理缓存；cache.FollowCache 实现了它
type FollowInvalidator interface {
	Invalidate(ctx context.Context, followerID, followeeID uint) error
}

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID uint) error
	Unfollow(ctx context.Context, fromUserID, toUserID uint) error
	ListFollowing(ctx context.Context, userID uint, pg Pagination) ([]uint, error)
	ListFans(ctx context.Context, userID uint, pg Pagination) ([]uint, error)
}

type relationshipService struct {
	users       repository.UserRepository
	followRepo  repository.FollowRepository
	fanRepo     repository.FanRepository
	replicator  *FanReplicator
	invalidator FollowInvalidator
}

// NewRelationshipService replicator 与 invalidator 可为 nil
func NewRelationshipService(users repository.UserRepository, followRepo repository.FollowRepository, fanRepo repository.FanRepository, replicator *FanReplicator, invalidator FollowInvalidator) RelationshipService {
	return &relationshipService{users: users, followRepo: followRepo, fanRepo: fanRepo, replicator: replicator, invalidator: invalidator}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID uint) error {
	if fromUserID == toUserID {
		return ErrBadRequest("%s", ErrFollowSelf.Error())
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound("User not found.")
		}
		return err
	}
	if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	s.invalidate(ctx, fromUserID, toUserID)
	if s.replicator != nil {
		s.replicator.EnqueueAdd(toUserID, fromUserID)
	} else {
		return s.fanRepo.Create(ctx, toUserID, fromUserID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID uint) error {
	if err := s.followRepo.Delete(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	s.invalidate(ctx, fromUserID, toUserID)
	if s.replicator != nil {
		s.replicator.EnqueueRemove(toUserID, fromUserID)
	} else {
		return s.fanRepo.Delete(ctx, toUserID, fromUserID)
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID uint, pg Pagination) ([]uint, error) {
	items, err := s.followRepo.ListFollowings(ctx, userID, pg.Offset(), pg.PageSize)
	if err != nil {
		return nil, err
	}
	res := make([]uint, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, nil
}

func (s *relationshipService) ListFans(ctx context.Context, userID uint, pg Pagination) ([]uint, error) {
	items, err := s.fanRepo.ListFans(ctx, userID, pg.Offset(), pg.PageSize)
	if err != nil {
		return nil, err
	}
	res := make([]uint, len(items))
	for i, it := range items {
		res[i] = it.FanID
	}
	return res, nil
}

// invalidate 失败只记录日志，缓存会按 TTL 过期
func (s *relationshipService) invalidate(ctx context.Context, followerID, followeeID uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, followerID, followeeID); err != nil {
		logger.Warn("invalidate follow cache failed",
			zap.Uint("follower", followerID), zap.Uint("followee", followeeID), zap.Error(err))
	}
}
