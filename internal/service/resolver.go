package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/todomate/internal/repository"
)

// EntryTarget 日期入口的跳转目标
type EntryTarget int

const (
	TargetCreate EntryTarget = iota + 1
	TargetUpdate
)

func (t EntryTarget) String() string {
	if t == TargetUpdate {
		return "update"
	}
	return "create"
}

// EntryResolver 根据 (user, date) 是否已有日记决定跳转到 create 还是 update。
// 只读，无副作用。
type EntryResolver struct {
	diaries repository.DiaryRepository
	baseURL string
}

func NewEntryResolver(diaries repository.DiaryRepository, baseURL string) *EntryResolver {
	return &EntryResolver{diaries: diaries, baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *EntryResolver) Resolve(ctx context.Context, userID uint, date string) (EntryTarget, error) {
	exists, err := r.diaries.ExistsByOwnerDate(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	if exists {
		return TargetUpdate, nil
	}
	return TargetCreate, nil
}

// Location 返回跳转地址，例如 {base}/diary/mydiary/2024-01-01/create
func (r *EntryResolver) Location(date string, target EntryTarget) string {
	return r.baseURL + "/diary/mydiary/" + date + "/" + target.String()
}
