package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/internal/model"
)

func TestPolicy_Diary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.diary(t, f.alice, "2024-01-01")

	cases := []struct {
		name      string
		requester *model.User
		read      bool
		write     bool
	}{
		{"owner", f.alice, true, true},
		{"follower", f.bob, true, false},
		{"stranger", f.carol, false, false},
		{"anonymous", nil, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.policy.CanAccess(ctx, tc.requester, DiaryRecord(d), false)
			require.NoError(t, err)
			assert.Equal(t, tc.read, ok, "read")

			ok, err = f.policy.CanAccess(ctx, tc.requester, DiaryRecord(d), true)
			require.NoError(t, err)
			assert.Equal(t, tc.write, ok, "write")
		})
	}
}

func TestPolicy_FollowIsDirectional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// bob 关注 alice，但 alice 没有关注 bob
	d := f.diary(t, f.bob, "2024-01-01")

	ok, err := f.policy.CanAccess(ctx, f.alice, DiaryRecord(d), false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicy_CommentUsesParentDiary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.diary(t, f.alice, "2024-01-01")
	// bob 在 alice 的日记下评论
	c := f.comment(t, d, f.bob, "nice")

	ok, err := f.policy.CanAccess(ctx, f.bob, CommentRecord(c), false)
	require.NoError(t, err)
	assert.True(t, ok)

	// 评论作者本身没有写权限，权限主体是日记作者
	ok, err = f.policy.CanAccess(ctx, f.bob, CommentRecord(c), true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.policy.CanAccess(ctx, f.alice, CommentRecord(c), true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.policy.CanAccess(ctx, f.carol, CommentRecord(c), false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.policy.CanAccess(ctx, nil, CommentRecord(c), false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicy_OrphanComment(t *testing.T) {
	f := newFixture(t)
	c := &model.Comment{ID: 99, DiaryID: 12345, CreatedByID: f.alice.ID}

	_, err := f.policy.CanAccess(context.Background(), f.alice, CommentRecord(c), false)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPolicy_AuthorizeRecordsDenial(t *testing.T) {
	f := newFixture(t)
	d := f.diary(t, f.alice, "2024-01-01")

	err := f.policy.Authorize(context.Background(), f.bob, DiaryRecord(d), true)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, []string{"diary:write"}, f.rec.denied)

	assert.NoError(t, f.policy.Authorize(context.Background(), f.bob, DiaryRecord(d), false))
}

func TestPolicy_CanSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name      string
		requester *model.User
		want      bool
	}{
		{"self", f.alice, true},
		{"follower", f.bob, true},
		{"stranger", f.carol, false},
		{"anonymous", nil, false},
	} {
		ok, err := f.policy.CanSearch(ctx, tc.requester, f.alice.ID)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, ok, tc.name)
	}
}

func TestRecordKind(t *testing.T) {
	assert.Equal(t, RecordDiary, DiaryRecord(&model.Diary{}).Kind())
	assert.Equal(t, RecordComment, CommentRecord(&model.Comment{}).Kind())
	assert.Equal(t, "comment", RecordComment.String())
	assert.Equal(t, "unknown", RecordKind(0).String())
}
