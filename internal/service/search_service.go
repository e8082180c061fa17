package service

import (
	"context"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
)

// SearchService 检索他人日记，需要关注对方
type SearchService interface {
	ListUserDiaries(ctx context.Context, requester *model.User, targetID uint, pg Pagination) ([]*model.Diary, int64, error)
	ListUserDiariesByDate(ctx context.Context, requester *model.User, targetID uint, date string, pg Pagination) ([]*model.Diary, int64, error)
}

type searchService struct {
	diaries repository.DiaryRepository
	policy  *Policy
}

func NewSearchService(diaries repository.DiaryRepository, policy *Policy) SearchService {
	return &searchService{diaries: diaries, policy: policy}
}

func (s *searchService) ListUserDiaries(ctx context.Context, requester *model.User, targetID uint, pg Pagination) ([]*model.Diary, int64, error) {
	if err := s.authorize(ctx, requester, targetID); err != nil {
		return nil, 0, err
	}
	return s.diaries.ListByOwner(ctx, targetID, "", pg.Offset(), pg.PageSize)
}

func (s *searchService) ListUserDiariesByDate(ctx context.Context, requester *model.User, targetID uint, date string, pg Pagination) ([]*model.Diary, int64, error) {
	if err := s.authorize(ctx, requester, targetID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.diaries.ListByOwner(ctx, targetID, date, pg.Offset(), pg.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, ErrNotFound("No task found(%s).", date)
	}
	return list, total, nil
}

// authorize 不区分目标用户是否存在，统一返回无权限
func (s *searchService) authorize(ctx context.Context, requester *model.User, targetID uint) error {
	ok, err := s.policy.CanSearch(ctx, requester, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden(DetailNoFollow)
	}
	return nil
}
