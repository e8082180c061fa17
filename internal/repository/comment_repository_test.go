package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/testutil"
)

func TestCommentRepository_ListAscending(t *testing.T) {
	db := testutil.NewDB(t)
	diaries := NewDiaryRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")

	d := &model.Diary{CreatedByID: u.ID, Date: "2024-01-01"}
	require.NoError(t, diaries.Create(ctx, d))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	// 故意乱序插入
	for _, off := range []int{3, 1, 2} {
		c := &model.Comment{DiaryID: d.ID, CreatedByID: u.ID, Content: "c", CreatedAt: base.Add(time.Duration(off) * time.Minute)}
		require.NoError(t, repo.Create(ctx, c))
	}

	list, total, err := repo.ListByDiary(ctx, d.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.Before(list[i-1].CreatedAt))
	}
}

func TestCommentRepository_CRUD(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")
	d := &model.Diary{CreatedByID: u.ID, Date: "2024-01-01"}
	require.NoError(t, NewDiaryRepository(db).Create(ctx, d))

	c := &model.Comment{DiaryID: d.ID, CreatedByID: u.ID, Content: "hi"}
	require.NoError(t, repo.Create(ctx, c))

	c.Content = "edited"
	require.NoError(t, repo.UpdateContent(ctx, c))
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, d.ID, got.DiaryID)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}

func TestCommentRepository_DiaryForeignKey(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")

	err := repo.Create(ctx, &model.Comment{DiaryID: 4242, CreatedByID: u.ID, Content: "orphan"})
	assert.ErrorIs(t, err, ErrNotFound)

	d := &model.Diary{CreatedByID: u.ID, Date: "2024-01-01"}
	require.NoError(t, NewDiaryRepository(db).Create(ctx, d))
	require.NoError(t, repo.Create(ctx, &model.Comment{DiaryID: d.ID, CreatedByID: u.ID, Content: "c"}))

	// 绕过仓储直接删除日记，评论由外键级联删除
	require.NoError(t, db.Delete(&model.Diary{}, d.ID).Error)
	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}
