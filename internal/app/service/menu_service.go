package service

import (
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/pkg/logger"
)

// PublicMenu is what the menu page shows, section by section.
type PublicMenu struct {
	Limited []model.Image
	Normal  []model.Image
	Side    []model.Image
}

func (m *PublicMenu) Empty() bool {
	return len(m.Limited) == 0 && len(m.Normal) == 0 && len(m.Side) == 0
}

type MenuService interface {
	Now() time.Time
	PublicMenu(now time.Time) (*PublicMenu, error)
	VisibleItem(id uint, now time.Time) (*model.Image, error)
	Board() (*menu.Board, error)
	MoveInBucket(bucket menu.Bucket, from, to int) ([]model.Image, error)
	SortBucket(bucket menu.Bucket, ascending bool) ([]model.Image, error)
}

type menuService struct {
	imageRepo    repository.ImageRepository
	imageService ImageService
	rules        menu.Rules
	loc          *time.Location
	clock        func() time.Time
}

func NewMenuService(
	imageRepo repository.ImageRepository,
	imageService ImageService,
	rules menu.Rules,
	loc *time.Location,
) MenuService {
	if loc == nil {
		loc = time.UTC
	}
	return &menuService{
		imageRepo:    imageRepo,
		imageService: imageService,
		rules:        rules,
		loc:          loc,
		clock:        time.Now,
	}
}

// Now is the current time in the menu's timezone.
func (s *menuService) Now() time.Time {
	return s.clock().In(s.loc)
}

func (s *menuService) PublicMenu(now time.Time) (*PublicMenu, error) {
	images, err := s.imageRepo.FindAll(repository.ImageFilter{})
	if err != nil {
		return nil, err
	}

	return &PublicMenu{
		Limited: menu.Resolve(images, now, menu.HasTagName(s.rules.LimitedTag)),
		Normal:  menu.Resolve(images, now, menu.HasTagName(s.rules.NormalTag)),
		Side:    menu.Resolve(images, now, menu.InCategoryName(s.rules.SideCategory)),
	}, nil
}

// VisibleItem returns the image only while it is published.
func (s *menuService) VisibleItem(id uint, now time.Time) (*model.Image, error) {
	image, err := s.imageService.GetImage(id)
	if err != nil {
		return nil, err
	}
	if !menu.IsVisible(image, now) {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *menuService) Board() (*menu.Board, error) {
	isPublic := true
	images, err := s.imageRepo.FindAll(repository.ImageFilter{IsPublic: &isPublic})
	if err != nil {
		return nil, err
	}
	return menu.NewBoard(images, s.rules), nil
}

// MoveInBucket moves one image within a bucket and persists the whole
// bucket's new order.
func (s *menuService) MoveInBucket(bucket menu.Bucket, from, to int) ([]model.Image, error) {
	board, err := s.Board()
	if err != nil {
		return nil, err
	}
	if err := board.Move(bucket, from, to); err != nil {
		return nil, err
	}

	logger.Info("Moving menu item within bucket", map[string]interface{}{
		"bucket": bucket,
		"from":   from,
		"to":     to,
	})
	return s.persist(board, bucket), nil
}

// SortBucket orders a bucket by id and persists it.
func (s *menuService) SortBucket(bucket menu.Bucket, ascending bool) ([]model.Image, error) {
	board, err := s.Board()
	if err != nil {
		return nil, err
	}
	if err := board.SortByID(bucket, ascending); err != nil {
		return nil, err
	}
	return s.persist(board, bucket), nil
}

func (s *menuService) persist(board *menu.Board, bucket menu.Bucket) []model.Image {
	orders := board.Orders(bucket)
	s.imageService.ApplyDisplayOrders(orders)

	items := board.Items(bucket)
	for i := range items {
		order := orders[i].DisplayOrder
		items[i].DisplayOrder = &order
	}
	return items
}
