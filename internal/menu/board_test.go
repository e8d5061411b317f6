package menu

import (
	"testing"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{
	LimitedTag:   "限定メニュー",
	NormalTag:    "通常メニュー",
	SideCategory: "サイドメニュー",
}

func boardFixture() []model.Image {
	normal := model.Tag{ID: 1, Name: "通常メニュー"}
	limited := model.Tag{ID: 2, Name: "限定メニュー"}
	side := &model.Category{ID: 2, Name: "サイドメニュー"}
	return []model.Image{
		{ID: 1, IsPublic: true, Tags: []model.Tag{normal}, DisplayOrder: intPtr(3)},
		{ID: 2, IsPublic: true, Tags: []model.Tag{normal}, DisplayOrder: intPtr(1)},
		{ID: 3, IsPublic: true, Tags: []model.Tag{normal, limited}, DisplayOrder: intPtr(2)},
		{ID: 4, IsPublic: true, Tags: []model.Tag{limited}},
		{ID: 5, IsPublic: false, Tags: []model.Tag{normal}},
		{ID: 6, IsPublic: true, CategoryID: uintPtr(2), Category: side},
		{ID: 7, IsPublic: true, Tags: []model.Tag{normal}},
	}
}

func TestNewBoard_PartitionsPublicImages(t *testing.T) {
	board := NewBoard(boardFixture(), testRules)

	assert.Equal(t, []uint{3, 4}, ids(board.Items(BucketLimited)))
	assert.Equal(t, []uint{2, 3, 1, 7}, ids(board.Items(BucketNormal)))
	assert.Equal(t, []uint{6}, ids(board.Items(BucketSide)))
}

func TestBoard_MoveRewritesWholeBucket(t *testing.T) {
	board := NewBoard(boardFixture(), testRules)

	// drag the last normal item to the top
	require.NoError(t, board.Move(BucketNormal, 3, 0))
	assert.Equal(t, []uint{7, 2, 3, 1}, ids(board.Items(BucketNormal)))

	assert.Equal(t, []model.DisplayOrderUpdate{
		{ID: 7, DisplayOrder: 1},
		{ID: 2, DisplayOrder: 2},
		{ID: 3, DisplayOrder: 3},
		{ID: 1, DisplayOrder: 4},
	}, board.Orders(BucketNormal))

	// other buckets are untouched
	assert.Equal(t, []uint{3, 4}, ids(board.Items(BucketLimited)))
}

func TestBoard_MoveDown(t *testing.T) {
	board := NewBoard(boardFixture(), testRules)

	require.NoError(t, board.Move(BucketNormal, 0, 2))
	assert.Equal(t, []uint{3, 1, 2, 7}, ids(board.Items(BucketNormal)))
}

func TestBoard_MoveErrors(t *testing.T) {
	board := NewBoard(boardFixture(), testRules)

	tests := []struct {
		name    string
		bucket  Bucket
		from    int
		to      int
		wantErr error
	}{
		{"unknown bucket", Bucket("drinks"), 0, 1, ErrUnknownBucket},
		{"from past end", BucketLimited, 2, 0, ErrMoveOutOfRange},
		{"negative to", BucketLimited, 0, -1, ErrMoveOutOfRange},
		{"empty move in empty bucket", BucketSide, 1, 0, ErrMoveOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, board.Move(tt.bucket, tt.from, tt.to), tt.wantErr)
		})
	}
}

func TestBoard_SortByID(t *testing.T) {
	board := NewBoard(boardFixture(), testRules)

	require.NoError(t, board.SortByID(BucketNormal, false))
	assert.Equal(t, []uint{7, 3, 2, 1}, ids(board.Items(BucketNormal)))

	require.NoError(t, board.SortByID(BucketNormal, true))
	assert.Equal(t, []uint{1, 2, 3, 7}, ids(board.Items(BucketNormal)))
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("side")
	require.NoError(t, err)
	assert.Equal(t, BucketSide, b)

	_, err = ParseBucket("dessert")
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestBoard_OrdersEmptyBucket(t *testing.T) {
	board := NewBoard(nil, testRules)
	assert.Empty(t, board.Orders(BucketLimited))
}
