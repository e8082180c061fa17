package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/testutil"
)

func TestDiaryRepository_UniqueOwnerDate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")

	require.NoError(t, repo.Create(ctx, &model.Diary{CreatedByID: u.ID, Date: "2024-01-01", Content: "first"}))
	err := repo.Create(ctx, &model.Diary{CreatedByID: u.ID, Date: "2024-01-01", Content: "second"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// 其他日期、其他用户不冲突
	require.NoError(t, repo.Create(ctx, &model.Diary{CreatedByID: u.ID, Date: "2024-01-02"}))
	other := testutil.SeedUser(t, db, "b@example.com", "b")
	require.NoError(t, repo.Create(ctx, &model.Diary{CreatedByID: other.ID, Date: "2024-01-01"}))

	var cnt int64
	db.Model(&model.Diary{}).Where("created_by_id = ? AND date = ?", u.ID, "2024-01-01").Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestDiaryRepository_Lookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")

	_, err := repo.GetByOwnerDate(ctx, u.ID, "2024-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err := repo.ExistsByOwnerDate(ctx, u.ID, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, ok)

	d := &model.Diary{CreatedByID: u.ID, Date: "2024-01-01", Content: "hello"}
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.GetByOwnerDate(ctx, u.ID, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	ok, err = repo.ExistsByOwnerDate(ctx, u.ID, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.GetByID(ctx, d.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiaryRepository_ListByOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDiaryRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")
	other := testutil.SeedUser(t, db, "b@example.com", "b")

	for _, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		require.NoError(t, repo.Create(ctx, &model.Diary{CreatedByID: u.ID, Date: date}))
	}
	require.NoError(t, repo.Create(ctx, &model.Diary{CreatedByID: other.ID, Date: "2024-01-01"}))

	list, total, err := repo.ListByOwner(ctx, u.ID, "", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	// 插入顺序
	assert.Equal(t, "2024-01-03", list[0].Date)
	assert.Equal(t, "2024-01-01", list[1].Date)

	list, total, err = repo.ListByOwner(ctx, u.ID, "2024-01-02", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "2024-01-02", list[0].Date)

	list, total, err = repo.ListByOwner(ctx, u.ID, "2030-01-01", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestDiaryRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDiaryRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "a@example.com", "a")

	d := &model.Diary{CreatedByID: u.ID, Date: "2024-01-01", Content: "v1"}
	require.NoError(t, repo.Create(ctx, d))
	require.NoError(t, comments.Create(ctx, &model.Comment{DiaryID: d.ID, CreatedByID: u.ID, Content: "c"}))

	d.Content = "v2"
	require.NoError(t, repo.UpdateContent(ctx, d))
	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, "2024-01-01", got.Date)

	require.NoError(t, repo.Delete(ctx, d.ID))
	_, err = repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, total, err := comments.ListByDiary(ctx, d.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total, "comments are removed with their diary")

	assert.ErrorIs(t, repo.Delete(ctx, d.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateContent(ctx, d), ErrNotFound)
}
