package menu

import (
	"testing"
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func ids(images []model.Image) []uint {
	out := make([]uint, 0, len(images))
	for _, img := range images {
		out = append(out, img.ID)
	}
	return out
}

var now = time.Date(2025, 7, 22, 12, 0, 0, 0, time.UTC)

func TestIsVisible(t *testing.T) {
	past := timePtr(now.Add(-time.Hour))
	future := timePtr(now.Add(time.Hour))

	tests := []struct {
		name string
		img  model.Image
		want bool
	}{
		{"public without window", model.Image{IsPublic: true}, true},
		{"private without window", model.Image{IsPublic: false}, false},
		{"private inside window", model.Image{IsPublic: false, StartAt: past, EndAt: future}, false},
		{"start in the future", model.Image{IsPublic: true, StartAt: future}, false},
		{"start in the past", model.Image{IsPublic: true, StartAt: past}, true},
		{"start exactly now", model.Image{IsPublic: true, StartAt: timePtr(now)}, true},
		{"end in the past", model.Image{IsPublic: true, EndAt: past}, false},
		{"end in the future only", model.Image{IsPublic: true, EndAt: future}, true},
		{"end exactly now", model.Image{IsPublic: true, EndAt: timePtr(now)}, true},
		{"inside window", model.Image{IsPublic: true, StartAt: past, EndAt: future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(&tt.img, now))
		})
	}
}

func TestSort_NullsLastThenID(t *testing.T) {
	images := []model.Image{
		{ID: 5},
		{ID: 4, DisplayOrder: intPtr(2)},
		{ID: 1},
		{ID: 3, DisplayOrder: intPtr(1)},
		{ID: 2, DisplayOrder: intPtr(2)},
		{ID: 6, DisplayOrder: intPtr(-1)},
	}

	Sort(images)

	assert.Equal(t, []uint{6, 3, 2, 4, 1, 5}, ids(images))
}

func TestSort_IdempotentAndStable(t *testing.T) {
	images := []model.Image{
		{ID: 9, DisplayOrder: intPtr(3)},
		{ID: 2},
		{ID: 7, DisplayOrder: intPtr(3)},
		{ID: 1, DisplayOrder: intPtr(10)},
		{ID: 8},
	}

	Sort(images)
	first := ids(images)

	Sort(images)
	assert.Equal(t, first, ids(images))

	// Any permutation of the same input lands on the same order.
	reversed := make([]model.Image, len(images))
	for i := range images {
		reversed[len(images)-1-i] = images[i]
	}
	Sort(reversed)
	assert.Equal(t, first, ids(reversed))
}

func TestResolve_FiltersAndSorts(t *testing.T) {
	limited := model.Tag{ID: 2, Name: "限定メニュー"}
	normal := model.Tag{ID: 1, Name: "通常メニュー"}
	images := []model.Image{
		{ID: 1, IsPublic: true, Tags: []model.Tag{normal}},
		{ID: 2, IsPublic: true, Tags: []model.Tag{limited}, DisplayOrder: intPtr(2)},
		{ID: 3, IsPublic: true, Tags: []model.Tag{limited, normal}, DisplayOrder: intPtr(1)},
		{ID: 4, IsPublic: false, Tags: []model.Tag{limited}},
		{ID: 5, IsPublic: true, Tags: []model.Tag{limited}, StartAt: timePtr(now.Add(24 * time.Hour))},
		{ID: 6, IsPublic: true, Tags: []model.Tag{limited}},
	}

	got := Resolve(images, now, HasTagName("限定メニュー"))
	assert.Equal(t, []uint{3, 2, 6}, ids(got))

	got = Resolve(images, now, HasTagID(1))
	assert.Equal(t, []uint{3, 1}, ids(got))

	// input order untouched
	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6}, ids(images))
}

func TestResolve_EmptyInput(t *testing.T) {
	got := Resolve(nil, now, HasTagName("限定メニュー"))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolve_CategoryPredicates(t *testing.T) {
	side := &model.Category{ID: 2, Name: "サイドメニュー"}
	images := []model.Image{
		{ID: 1, IsPublic: true, CategoryID: uintPtr(1), Category: &model.Category{ID: 1, Name: "かき氷"}},
		{ID: 2, IsPublic: true, CategoryID: uintPtr(2), Category: side},
		{ID: 3, IsPublic: true},
	}

	assert.Equal(t, []uint{2}, ids(Resolve(images, now, InCategoryName("サイドメニュー"))))
	assert.Equal(t, []uint{1}, ids(Resolve(images, now, InCategoryID(1))))
}

func TestEditable_ExcludesImagesWithoutCategory(t *testing.T) {
	images := []model.Image{
		{ID: 1, CategoryID: uintPtr(1), DisplayOrder: intPtr(5)},
		{ID: 2},
		{ID: 3, CategoryID: uintPtr(1), IsPublic: false, DisplayOrder: intPtr(1)},
	}

	assert.Equal(t, []uint{3, 1}, ids(Editable(images)))
}
