package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/todomate/internal/model"
)

// DiaryRepository 日记仓储
type DiaryRepository interface {
	// Create 插入日记；(created_by_id, date) 冲突返回 ErrDuplicate
	Create(ctx context.Context, diary *model.Diary) error
	GetByID(ctx context.Context, id uint) (*model.Diary, error)
	GetByOwnerDate(ctx context.Context, ownerID uint, date string) (*model.Diary, error)
	ExistsByOwnerDate(ctx context.Context, ownerID uint, date string) (bool, error)
	// ListByOwner 按插入顺序分页，date 为空时不过滤
	ListByOwner(ctx context.Context, ownerID uint, date string, offset, limit int) ([]*model.Diary, int64, error)
	UpdateContent(ctx context.Context, diary *model.Diary) error
	// Delete 在事务内删除日记及其评论
	Delete(ctx context.Context, id uint) error
}

type diaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) DiaryRepository { return &diaryRepository{db: db} }

func (r *diaryRepository) Create(ctx context.Context, diary *model.Diary) error {
	return translate(r.db.WithContext(ctx).Create(diary).Error)
}

func (r *diaryRepository) GetByID(ctx context.Context, id uint) (*model.Diary, error) {
	var d model.Diary
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *diaryRepository) GetByOwnerDate(ctx context.Context, ownerID uint, date string) (*model.Diary, error) {
	var d model.Diary
	err := r.db.WithContext(ctx).
		Where("created_by_id = ? AND date = ?", ownerID, date).
		First(&d).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *diaryRepository) ExistsByOwnerDate(ctx context.Context, ownerID uint, date string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Diary{}).
		Where("created_by_id = ? AND date = ?", ownerID, date).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *diaryRepository) ListByOwner(ctx context.Context, ownerID uint, date string, offset, limit int) ([]*model.Diary, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Diary{}).Where("created_by_id = ?", ownerID)
	if date != "" {
		q = q.Where("date = ?", date)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	res := make([]*model.Diary, 0)
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&res).Error; err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func (r *diaryRepository) UpdateContent(ctx context.Context, diary *model.Diary) error {
	diary.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Diary{}).
		Where("id = ?", diary.ID).
		Updates(map[string]any{"content": diary.Content, "updated_at": diary.UpdatedAt})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *diaryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diary_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Diary{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
