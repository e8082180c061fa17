package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService(t *testing.T) {
	f := newFixture(t)
	svc := NewSearchService(f.diaries, f.policy)
	ctx := context.Background()
	f.diary(t, f.alice, "2024-01-01")
	f.diary(t, f.alice, "2024-01-02")

	list, total, err := svc.ListUserDiaries(ctx, f.bob, f.alice.ID, page(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = svc.ListUserDiariesByDate(ctx, f.bob, f.alice.ID, "2024-01-02", page(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "2024-01-02", list[0].Date)

	_, _, err = svc.ListUserDiariesByDate(ctx, f.bob, f.alice.ID, "2024-01-05", page(1, 10))
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindNotFound, se.Kind)
	assert.Equal(t, "No task found(2024-01-05).", se.Detail)

	_, _, err = svc.ListUserDiaries(ctx, f.carol, f.alice.ID, page(1, 10))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindForbidden, se.Kind)
	assert.Equal(t, DetailNoFollow, se.Detail)

	_, _, err = svc.ListUserDiaries(ctx, f.alice, f.alice.ID, page(1, 10))
	assert.NoError(t, err)
}
