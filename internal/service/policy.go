package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
)

// RecordKind 受访问控制的记录类型
type RecordKind int

const (
	RecordDiary RecordKind = iota + 1
	RecordComment
)

func (k RecordKind) String() string {
	switch k {
	case RecordDiary:
		return "diary"
	case RecordComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Record 是 {Diary, Comment} 的标签联合，只能通过 DiaryRecord / CommentRecord 构造
type Record struct {
	kind    RecordKind
	diary   *model.Diary
	comment *model.Comment
}

func DiaryRecord(d *model.Diary) Record { return Record{kind: RecordDiary, diary: d} }

func CommentRecord(c *model.Comment) Record { return Record{kind: RecordComment, comment: c} }

func (r Record) Kind() RecordKind { return r.kind }

// FollowChecker 判断 follower 是否关注了 followee；
// repository.FollowRepository 与 cache.FollowCache 均满足该接口
type FollowChecker interface {
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
}

// Policy 访问策略：
//   - 日记：作者可读写；关注了作者的用户只读
//   - 评论：沿用所属日记的策略，权限主体是日记作者
//   - 匿名请求者没有任何权限
type Policy struct {
	diaries repository.DiaryRepository
	follows FollowChecker
	rec     Recorder
}

func NewPolicy(diaries repository.DiaryRepository, follows FollowChecker, rec Recorder) *Policy {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Policy{diaries: diaries, follows: follows, rec: rec}
}

// CanAccess 返回 requester 是否可以读（write=false）或修改（write=true）记录。
// 调用方必须先确认记录存在。
func (p *Policy) CanAccess(ctx context.Context, requester *model.User, rec Record, write bool) (bool, error) {
	if requester == nil {
		return false, nil
	}
	ownerID, err := p.authority(ctx, rec)
	if err != nil {
		return false, err
	}
	if requester.ID == ownerID {
		return true, nil
	}
	if write {
		return false, nil
	}
	return p.follows.Exists(ctx, requester.ID, ownerID)
}

// Authorize 同 CanAccess，拒绝时返回 403 业务错误
func (p *Policy) Authorize(ctx context.Context, requester *model.User, rec Record, write bool) error {
	ok, err := p.CanAccess(ctx, requester, rec, write)
	if err != nil {
		return err
	}
	if !ok {
		p.rec.PolicyDenied(rec.kind.String(), write)
		return ErrForbidden(DetailNoPermission)
	}
	return nil
}

// CanSearch 跨用户检索：本人或关注者
func (p *Policy) CanSearch(ctx context.Context, requester *model.User, targetID uint) (bool, error) {
	if requester == nil {
		return false, nil
	}
	if requester.ID == targetID {
		return true, nil
	}
	return p.follows.Exists(ctx, requester.ID, targetID)
}

// authority 返回对记录拥有写权限的用户 id
func (p *Policy) authority(ctx context.Context, rec Record) (uint, error) {
	switch rec.kind {
	case RecordDiary:
		return rec.diary.CreatedByID, nil
	case RecordComment:
		parent, err := p.diaries.GetByID(ctx, rec.comment.DiaryID)
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound(DetailNotFound)
		}
		if err != nil {
			return 0, fmt.Errorf("load parent diary %d: %w", rec.comment.DiaryID, err)
		}
		return parent.CreatedByID, nil
	default:
		return 0, fmt.Errorf("unsupported record kind %d", rec.kind)
	}
}
