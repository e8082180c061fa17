package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/internal/testutil"
)

type recorderStub struct {
	diaries, comments int
	denied            []string
}

func (r *recorderStub) DiaryCreated()   { r.diaries++ }
func (r *recorderStub) CommentCreated() { r.comments++ }
func (r *recorderStub) PolicyDenied(record string, write bool) {
	mode := "read"
	if write {
		mode = "write"
	}
	r.denied = append(r.denied, record+":"+mode)
}

// fixture: alice 写日记，bob 关注 alice，carol 是陌生人
type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	diaries  repository.DiaryRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	rec      *recorderStub
	policy   *Policy

	alice, bob, carol *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		diaries:  repository.NewDiaryRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
		rec:      &recorderStub{},
	}
	f.policy = NewPolicy(f.diaries, f.follows, f.rec)
	f.alice = testutil.SeedUser(t, db, "alice@example.com", "alice")
	f.bob = testutil.SeedUser(t, db, "bob@example.com", "bob")
	f.carol = testutil.SeedUser(t, db, "carol@example.com", "carol")
	require.NoError(t, f.follows.Create(context.Background(), f.bob.ID, f.alice.ID))
	return f
}

func (f *fixture) diary(t *testing.T, owner *model.User, date string) *model.Diary {
	t.Helper()
	d := &model.Diary{CreatedByID: owner.ID, Nickname: owner.Nickname, Date: date, Content: "content " + date}
	require.NoError(t, f.diaries.Create(context.Background(), d))
	return d
}

func (f *fixture) comment(t *testing.T, d *model.Diary, author *model.User, text string) *model.Comment {
	t.Helper()
	c := &model.Comment{DiaryID: d.ID, CreatedByID: author.ID, Nickname: author.Nickname, Content: text}
	require.NoError(t, f.comments.Create(context.Background(), c))
	return c
}

func ptr(s string) *string { return &s }

func page(n, size int) Pagination { return Pagination{Page: n, PageSize: size} }

// vanishingDiaries 读到日记后立即删除，模拟读取与写入之间的并发删除
type vanishingDiaries struct {
	repository.DiaryRepository
}

func (r vanishingDiaries) GetByID(ctx context.Context, id uint) (*model.Diary, error) {
	d, err := r.DiaryRepository.GetByID(ctx, id)
	if err == nil {
		err = r.DiaryRepository.Delete(ctx, id)
	}
	return d, err
}

type vanishingComments struct {
	repository.CommentRepository
}

func (r vanishingComments) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	c, err := r.CommentRepository.GetByID(ctx, id)
	if err == nil {
		err = r.CommentRepository.Delete(ctx, id)
	}
	return c, err
}
