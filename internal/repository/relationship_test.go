package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/testutil"
)

func TestFollowRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, 2, 1))
	// 重复关注幂等
	require.NoError(t, repo.Create(ctx, 2, 1))

	ok, err := repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// 方向性
	ok, err = repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := repo.ListFollowings(ctx, 2, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(1), list[0].FolloweeID)

	require.NoError(t, repo.Delete(ctx, 2, 1))
	ok, err = repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFanRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFanRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, 1, 2))
	require.NoError(t, repo.Create(ctx, 1, 3))
	require.NoError(t, repo.Create(ctx, 1, 3))

	fans, err := repo.ListFans(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Len(t, fans, 2)

	require.NoError(t, repo.Delete(ctx, 1, 2))
	fans, err = repo.ListFans(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, fans, 1)
	assert.Equal(t, uint(3), fans[0].FanID)
}

func BenchmarkFollowWrite_And_FanRedundancy(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{Email: fmt.Sprintf("u%04d@example.com", i), Nickname: fmt.Sprintf("u%04d", i), Password: "p"}
	}
	if err := db.CreateInBatches(&users, 200).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rand.Intn(len(users))].ID
		to := users[rand.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
		_ = fanRepo.Create(ctx, to, from)
	}
}

func BenchmarkFollowExists(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// u0 被 N 个用户关注
	const N = 2000
	for i := 1; i <= N; i++ {
		_ = followRepo.Create(ctx, uint(i), 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = followRepo.Exists(ctx, uint(rand.Intn(N*2)+1), 1)
	}
}
