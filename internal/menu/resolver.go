// Package menu decides which menu images are shown and in what order.
//
// Ordering: images with a display order come first, ascending; images without
// one follow. Ties, including the whole unordered tail, fall back to id
// ascending so the result is total and therefore stable under re-sorting.
package menu

import (
	"cmp"
	"slices"
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
)

// Predicate selects images for a section or listing.
type Predicate func(img *model.Image) bool

// IsVisible reports whether img is published at now. A missing start or end
// bound leaves that side of the window open.
func IsVisible(img *model.Image, now time.Time) bool {
	if !img.IsPublic {
		return false
	}
	if img.StartAt != nil && img.StartAt.After(now) {
		return false
	}
	if img.EndAt != nil && img.EndAt.Before(now) {
		return false
	}
	return true
}

// Compare orders two images by display order (nulls last) then id.
func Compare(a, b *model.Image) int {
	switch {
	case a.DisplayOrder != nil && b.DisplayOrder != nil:
		if c := cmp.Compare(*a.DisplayOrder, *b.DisplayOrder); c != 0 {
			return c
		}
	case a.DisplayOrder != nil:
		return -1
	case b.DisplayOrder != nil:
		return 1
	}
	return cmp.Compare(a.ID, b.ID)
}

// Sort orders images in place.
func Sort(images []model.Image) {
	slices.SortStableFunc(images, func(a, b model.Image) int {
		return Compare(&a, &b)
	})
}

// Resolve returns the images visible at now that satisfy every predicate,
// sorted for display. The input slice is not modified.
func Resolve(images []model.Image, now time.Time, preds ...Predicate) []model.Image {
	visible := func(img *model.Image) bool { return IsVisible(img, now) }
	return Filter(images, append([]Predicate{visible}, preds...)...)
}

// Editable returns the images the admin edit listing shows: those with a
// category, sorted for display.
func Editable(images []model.Image, preds ...Predicate) []model.Image {
	return Filter(images, append([]Predicate{HasCategory()}, preds...)...)
}

// Filter keeps the images satisfying every predicate and sorts the result.
// It never returns nil.
func Filter(images []model.Image, preds ...Predicate) []model.Image {
	out := make([]model.Image, 0, len(images))
	for i := range images {
		if matchAll(&images[i], preds) {
			out = append(out, images[i])
		}
	}
	Sort(out)
	return out
}

func matchAll(img *model.Image, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(img) {
			return false
		}
	}
	return true
}

func IsPublic() Predicate {
	return func(img *model.Image) bool { return img.IsPublic }
}

func HasCategory() Predicate {
	return func(img *model.Image) bool { return img.CategoryID != nil }
}

func InCategoryID(id uint) Predicate {
	return func(img *model.Image) bool {
		return img.CategoryID != nil && *img.CategoryID == id
	}
}

// InCategoryName needs the Category relation preloaded.
func InCategoryName(name string) Predicate {
	return func(img *model.Image) bool {
		return img.Category != nil && img.Category.Name == name
	}
}

func HasTagID(id uint) Predicate {
	return func(img *model.Image) bool {
		for _, tag := range img.Tags {
			if tag.ID == id {
				return true
			}
		}
		return false
	}
}

// HasTagName needs the Tags relation preloaded.
func HasTagName(name string) Predicate {
	return func(img *model.Image) bool {
		for _, tag := range img.Tags {
			if tag.Name == name {
				return true
			}
		}
		return false
	}
}
