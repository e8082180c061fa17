package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
)

// CommentService 评论；权限沿用所属日记
type CommentService interface {
	List(ctx context.Context, user *model.User, diaryID uint, pg Pagination) ([]*model.Comment, int64, error)
	Create(ctx context.Context, user *model.User, diaryID uint, content string) (*model.Comment, error)
	Get(ctx context.Context, user *model.User, id uint) (*model.Comment, error)
	Update(ctx context.Context, user *model.User, id uint, content *string) (*model.Comment, error)
	Delete(ctx context.Context, user *model.User, id uint) error
}

type commentService struct {
	diaries  repository.DiaryRepository
	comments repository.CommentRepository
	policy   *Policy
	rec      Recorder
}

func NewCommentService(diaries repository.DiaryRepository, comments repository.CommentRepository, policy *Policy, rec Recorder) CommentService {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &commentService{diaries: diaries, comments: comments, policy: policy, rec: rec}
}

func (s *commentService) List(ctx context.Context, user *model.User, diaryID uint, pg Pagination) ([]*model.Comment, int64, error) {
	if _, err := s.readableDiary(ctx, user, diaryID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByDiary(ctx, diaryID, pg.Offset(), pg.PageSize)
}

// Create 能读日记的人都可以评论；日记 id、作者与昵称由服务端写入
func (s *commentService) Create(ctx context.Context, user *model.User, diaryID uint, content string) (*model.Comment, error) {
	d, err := s.readableDiary(ctx, user, diaryID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrBadRequest("This field may not be blank(content).")
	}
	c := &model.Comment{
		DiaryID:     d.ID,
		CreatedByID: user.ID,
		Nickname:    user.Nickname,
		Content:     content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		// 校验之后日记被删除，外键拒绝插入
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(DetailNotFound)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	s.rec.CommentCreated()
	return c, nil
}

func (s *commentService) Get(ctx context.Context, user *model.User, id uint) (*model.Comment, error) {
	return s.load(ctx, user, id, false)
}

func (s *commentService) Update(ctx context.Context, user *model.User, id uint, content *string) (*model.Comment, error) {
	c, err := s.load(ctx, user, id, true)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return c, nil
	}
	if strings.TrimSpace(*content) == "" {
		return nil, ErrBadRequest("This field may not be blank(content).")
	}
	c.Content = *content
	if err := s.comments.UpdateContent(ctx, c); err != nil {
		// 读取后被并发删除
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(DetailNotFound)
		}
		return nil, fmt.Errorf("update comment %d: %w", c.ID, err)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, user *model.User, id uint) error {
	c, err := s.load(ctx, user, id, true)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound(DetailNotFound)
		}
		return fmt.Errorf("delete comment %d: %w", c.ID, err)
	}
	return nil
}

func (s *commentService) readableDiary(ctx context.Context, user *model.User, diaryID uint) (*model.Diary, error) {
	d, err := s.diaries.GetByID(ctx, diaryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound(DetailNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, user, DiaryRecord(d), false); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *commentService) load(ctx context.Context, user *model.User, id uint, write bool) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound(DetailNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, user, CommentRecord(c), write); err != nil {
		return nil, err
	}
	return c, nil
}
