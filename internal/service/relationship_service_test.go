package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/internal/repository"
)

type invalidatorStub struct{ calls [][2]uint }

func (s *invalidatorStub) Invalidate(_ context.Context, followerID, followeeID uint) error {
	s.calls = append(s.calls, [2]uint{followerID, followeeID})
	return nil
}

func TestRelationshipService_Sync(t *testing.T) {
	f := newFixture(t)
	fans := repository.NewFanRepository(f.db)
	inv := &invalidatorStub{}
	svc := NewRelationshipService(f.users, f.follows, fans, nil, inv)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, f.carol.ID, f.alice.ID))
	assert.Equal(t, [][2]uint{{f.carol.ID, f.alice.ID}}, inv.calls)

	following, err := svc.ListFollowing(ctx, f.carol.ID, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uint{f.alice.ID}, following)

	followers, err := svc.ListFans(ctx, f.alice.ID, page(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uint{f.carol.ID}, followers)

	// 关注后 carol 可以读 alice 的日记
	d := f.diary(t, f.alice, "2024-01-01")
	ok, err := f.policy.CanAccess(ctx, f.carol, DiaryRecord(d), false)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Unfollow(ctx, f.carol.ID, f.alice.ID))
	followers, err = svc.ListFans(ctx, f.alice.ID, page(1, 10))
	require.NoError(t, err)
	assert.Empty(t, followers)
	assert.Len(t, inv.calls, 2)
}

func TestRelationshipService_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewRelationshipService(f.users, f.follows, repository.NewFanRepository(f.db), nil, nil)
	ctx := context.Background()

	assert.Equal(t, KindBadRequest, KindOf(svc.Follow(ctx, f.alice.ID, f.alice.ID)))
	assert.Equal(t, KindNotFound, KindOf(svc.Follow(ctx, f.alice.ID, 9999)))
}

func TestRelationshipService_Replicated(t *testing.T) {
	f := newFixture(t)
	fans := repository.NewFanRepository(f.db)
	rep := NewFanReplicator(fans, 16)
	stop := rep.Start(2)
	svc := NewRelationshipService(f.users, f.follows, fans, rep, nil)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, f.carol.ID, f.alice.ID))

	assert.Eventually(t, func() bool {
		ids, err := svc.ListFans(ctx, f.alice.ID, page(1, 10))
		return err == nil && len(ids) == 1 && ids[0] == f.carol.ID
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case d := <-rep.Metrics():
		assert.GreaterOrEqual(t, d, time.Duration(0))
	case <-time.After(time.Second):
		t.Fatal("no replication latency sample")
	}

	require.NoError(t, svc.Unfollow(ctx, f.carol.ID, f.alice.ID))
	require.NoError(t, stop(ctx))
	assert.Equal(t, 0, rep.QueueLen())

	ids, err := svc.ListFans(ctx, f.alice.ID, page(1, 10))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
