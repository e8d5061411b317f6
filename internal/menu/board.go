package menu

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/shirokumado/menu-backend/internal/app/model"
)

// Bucket names one independently ordered group on the admin board.
type Bucket string

const (
	BucketLimited Bucket = "limited"
	BucketNormal  Bucket = "normal"
	BucketSide    Bucket = "side"
)

// Buckets lists the board groups in display order.
var Buckets = []Bucket{BucketLimited, BucketNormal, BucketSide}

var (
	ErrUnknownBucket  = errors.New("unknown menu bucket")
	ErrMoveOutOfRange = errors.New("move index out of range")
)

// ParseBucket validates a bucket name coming from a URL.
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(s)
	if slices.Contains(Buckets, b) {
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
}

// Rules says which images fall into each bucket.
type Rules struct {
	LimitedTag   string
	NormalTag    string
	SideCategory string
}

func (r Rules) predicate(b Bucket) Predicate {
	switch b {
	case BucketLimited:
		return HasTagName(r.LimitedTag)
	case BucketNormal:
		return HasTagName(r.NormalTag)
	default:
		return InCategoryName(r.SideCategory)
	}
}

// Board holds the admin's working order for each bucket. It is rebuilt from
// the image list whenever that list changes; an image can sit in several
// buckets at once.
type Board struct {
	buckets map[Bucket][]model.Image
}

// NewBoard partitions the public images into buckets, each sorted for display.
func NewBoard(images []model.Image, rules Rules) *Board {
	board := &Board{buckets: make(map[Bucket][]model.Image, len(Buckets))}
	for _, b := range Buckets {
		board.buckets[b] = Filter(images, IsPublic(), rules.predicate(b))
	}
	return board
}

// Items returns the bucket's images in their current board order.
func (b *Board) Items(bucket Bucket) []model.Image {
	return b.buckets[bucket]
}

// Move takes the image at from out of the bucket and reinserts it at to.
func (b *Board) Move(bucket Bucket, from, to int) error {
	items, ok := b.buckets[bucket]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return fmt.Errorf("%w: from=%d to=%d size=%d", ErrMoveOutOfRange, from, to, len(items))
	}
	if from == to {
		return nil
	}

	moved := items[from]
	items = slices.Delete(slices.Clone(items), from, from+1)
	b.buckets[bucket] = slices.Insert(items, to, moved)
	return nil
}

// SortByID reorders a bucket by id, the board's "sort" toggle.
func (b *Board) SortByID(bucket Bucket, ascending bool) error {
	items, ok := b.buckets[bucket]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(x, y model.Image) int {
		if ascending {
			return cmp.Compare(x.ID, y.ID)
		}
		return cmp.Compare(y.ID, x.ID)
	})
	b.buckets[bucket] = sorted
	return nil
}

// Orders numbers every image in the bucket by its 1-based position. The
// whole bucket is rewritten, not just the image that moved.
func (b *Board) Orders(bucket Bucket) []model.DisplayOrderUpdate {
	items := b.buckets[bucket]
	orders := make([]model.DisplayOrderUpdate, 0, len(items))
	for i, img := range items {
		orders = append(orders, model.DisplayOrderUpdate{ID: img.ID, DisplayOrder: i + 1})
	}
	return orders
}
