package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/pkg/logger"
)

// DiaryInput 客户端可写字段；Content 为 nil 表示 PATCH 时不修改
type DiaryInput struct {
	Content *string
}

// DiaryService 本人日记（按日期）与按 id 访问（watch）
type DiaryService interface {
	ListMine(ctx context.Context, user *model.User, pg Pagination) ([]*model.Diary, int64, error)
	ListMineByDate(ctx context.Context, user *model.User, date string, pg Pagination) ([]*model.Diary, int64, error)
	CreateForDate(ctx context.Context, user *model.User, date string, in DiaryInput) (*model.Diary, error)
	GetMineByDate(ctx context.Context, user *model.User, date string) (*model.Diary, error)
	UpdateMineByDate(ctx context.Context, user *model.User, date string, in DiaryInput) (*model.Diary, error)
	DeleteMineByDate(ctx context.Context, user *model.User, date string) error

	Get(ctx context.Context, user *model.User, id uint) (*model.Diary, error)
	Update(ctx context.Context, user *model.User, id uint, in DiaryInput) (*model.Diary, error)
	Delete(ctx context.Context, user *model.User, id uint) error
}

type diaryService struct {
	diaries repository.DiaryRepository
	policy  *Policy
	rec     Recorder
}

func NewDiaryService(diaries repository.DiaryRepository, policy *Policy, rec Recorder) DiaryService {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &diaryService{diaries: diaries, policy: policy, rec: rec}
}

func (s *diaryService) ListMine(ctx context.Context, user *model.User, pg Pagination) ([]*model.Diary, int64, error) {
	if user == nil {
		return nil, 0, ErrUnauthorized(DetailNotAuthenticated)
	}
	return s.diaries.ListByOwner(ctx, user.ID, "", pg.Offset(), pg.PageSize)
}

func (s *diaryService) ListMineByDate(ctx context.Context, user *model.User, date string, pg Pagination) ([]*model.Diary, int64, error) {
	if user == nil {
		return nil, 0, ErrUnauthorized(DetailNotAuthenticated)
	}
	return s.diaries.ListByOwner(ctx, user.ID, date, pg.Offset(), pg.PageSize)
}

// CreateForDate 作者、日期与昵称均取自会话与路径；并发重复由唯一索引兜底
func (s *diaryService) CreateForDate(ctx context.Context, user *model.User, date string, in DiaryInput) (*model.Diary, error) {
	if user == nil {
		return nil, ErrUnauthorized(DetailNotAuthenticated)
	}
	exists, err := s.diaries.ExistsByOwnerDate(ctx, user.ID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict("Diary already exists(%s).", date)
	}

	d := &model.Diary{
		CreatedByID: user.ID,
		Nickname:    user.Nickname,
		Date:        date,
	}
	if in.Content != nil {
		d.Content = *in.Content
	}
	if err := s.diaries.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict("Diary already exists(%s).", date)
		}
		return nil, fmt.Errorf("create diary: %w", err)
	}
	s.rec.DiaryCreated()
	logger.Info("diary created", zap.Uint("diary_id", d.ID), zap.Uint("user_id", user.ID), zap.String("date", date))
	return d, nil
}

func (s *diaryService) GetMineByDate(ctx context.Context, user *model.User, date string) (*model.Diary, error) {
	if user == nil {
		return nil, ErrUnauthorized(DetailNotAuthenticated)
	}
	d, err := s.diaries.GetByOwnerDate(ctx, user.ID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound("No diary found(%s).", date)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *diaryService) UpdateMineByDate(ctx context.Context, user *model.User, date string, in DiaryInput) (*model.Diary, error) {
	d, err := s.GetMineByDate(ctx, user, date)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, d, in)
}

func (s *diaryService) DeleteMineByDate(ctx context.Context, user *model.User, date string) error {
	d, err := s.GetMineByDate(ctx, user, date)
	if err != nil {
		return err
	}
	return s.remove(ctx, d)
}

func (s *diaryService) Get(ctx context.Context, user *model.User, id uint) (*model.Diary, error) {
	return s.load(ctx, user, id, false)
}

func (s *diaryService) Update(ctx context.Context, user *model.User, id uint, in DiaryInput) (*model.Diary, error) {
	d, err := s.load(ctx, user, id, true)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, d, in)
}

func (s *diaryService) Delete(ctx context.Context, user *model.User, id uint) error {
	d, err := s.load(ctx, user, id, true)
	if err != nil {
		return err
	}
	return s.remove(ctx, d)
}

// load 先判断存在性，再做策略检查
func (s *diaryService) load(ctx context.Context, user *model.User, id uint, write bool) (*model.Diary, error) {
	d, err := s.diaries.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound(DetailNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, user, DiaryRecord(d), write); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *diaryService) apply(ctx context.Context, d *model.Diary, in DiaryInput) (*model.Diary, error) {
	if in.Content == nil {
		return d, nil
	}
	d.Content = *in.Content
	if err := s.diaries.UpdateContent(ctx, d); err != nil {
		// 读取后被并发删除
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(DetailNotFound)
		}
		return nil, fmt.Errorf("update diary %d: %w", d.ID, err)
	}
	return d, nil
}

func (s *diaryService) remove(ctx context.Context, d *model.Diary) error {
	if err := s.diaries.Delete(ctx, d.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound(DetailNotFound)
		}
		return fmt.Errorf("delete diary %d: %w", d.ID, err)
	}
	return nil
}
