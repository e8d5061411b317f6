package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/db"
	"github.com/shirokumado/menu-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStorage keeps uploads in a map.
type memoryStorage struct {
	files   map[string]string
	next    int
	failErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string]string{}}
}

func (m *memoryStorage) Save(ctx context.Context, originalName, contentType string, body io.Reader) (string, error) {
	if m.failErr != nil {
		return "", m.failErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.next++
	name := strings.Repeat("f", m.next) + ".jpg"
	m.files[name] = string(data)
	return name, nil
}

func (m *memoryStorage) Delete(ctx context.Context, name string) error {
	delete(m.files, name)
	return nil
}

func (m *memoryStorage) URL(name string) string {
	return "/images/" + name
}

type imageServiceFixture struct {
	db        *gorm.DB
	service   ImageService
	imageRepo repository.ImageRepository
	storage   *memoryStorage
}

func setupImageServiceTest(t *testing.T) imageServiceFixture {
	testDB, err := db.SetupSeededTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	imageRepo := repository.NewImageRepository(testDB)
	store := newMemoryStorage()
	svc := NewImageService(
		imageRepo,
		NewCategoryService(repository.NewCategoryRepository(testDB)),
		NewTagService(repository.NewTagRepository(testDB)),
		store,
	)
	return imageServiceFixture{db: testDB, service: svc, imageRepo: imageRepo, storage: store}
}

func createInput(title string, tagIDs ...uint) ImageCreateInput {
	return ImageCreateInput{
		Title:      title,
		CategoryID: 1,
		PriceS:     decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		IsPublic:   true,
		TagIDs:     tagIDs,
		File: Upload{
			Filename:    "photo.jpg",
			ContentType: "image/jpeg",
			Body:        strings.NewReader("jpeg"),
		},
	}
}

func mustCreate(t *testing.T, f imageServiceFixture, title string, tagIDs ...uint) *model.Image {
	image, err := f.service.CreateImage(context.Background(), createInput(title, tagIDs...))
	require.NoError(t, err)
	return image
}

func TestImageService_CreateImage(t *testing.T) {
	f := setupImageServiceTest(t)

	image := mustCreate(t, f, "  Mango  ", 1)

	assert.Equal(t, "Mango", image.Title)
	assert.Equal(t, []uint{1}, image.TagIDs())
	assert.Equal(t, "かき氷", image.CategoryName())
	assert.Nil(t, image.DisplayOrder)
	assert.True(t, image.IsPublic)
	assert.Contains(t, f.storage.files, image.FilePath)
	assert.Equal(t, "/images/"+image.FilePath, f.service.ImageURL(image))
}

func TestImageService_CreateImage_Private(t *testing.T) {
	f := setupImageServiceTest(t)

	input := createInput("Hidden")
	input.IsPublic = false
	image, err := f.service.CreateImage(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, image.IsPublic)
}

// failingImageRepo lets individual repository writes fail.
type failingImageRepo struct {
	repository.ImageRepository
	updateErr      error
	replaceTagsErr error
}

func (r *failingImageRepo) Update(image *model.Image) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return r.ImageRepository.Update(image)
}

func (r *failingImageRepo) ReplaceTags(image *model.Image, tags []model.Tag) error {
	if r.replaceTagsErr != nil {
		return r.replaceTagsErr
	}
	return r.ImageRepository.ReplaceTags(image, tags)
}

func withImageRepo(f imageServiceFixture, repo repository.ImageRepository) ImageService {
	return NewImageService(
		repo,
		NewCategoryService(repository.NewCategoryRepository(f.db)),
		NewTagService(repository.NewTagRepository(f.db)),
		f.storage,
	)
}

func TestImageService_CreateImage_PrivateIsSingleInsert(t *testing.T) {
	f := setupImageServiceTest(t)
	svc := withImageRepo(f, &failingImageRepo{
		ImageRepository: f.imageRepo,
		updateErr:       errors.New("db down"),
	})

	input := createInput("Hidden", 1)
	input.IsPublic = false
	image, err := svc.CreateImage(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, image.IsPublic)

	stored, err := f.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublic)
	assert.Equal(t, []uint{1}, stored.TagIDs())
}

func TestImageService_CreateImage_TagLinkFailureRollsBack(t *testing.T) {
	f := setupImageServiceTest(t)
	linkErr := errors.New("db down")
	svc := withImageRepo(f, &failingImageRepo{
		ImageRepository: f.imageRepo,
		replaceTagsErr:  linkErr,
	})

	input := createInput("Broken", 1, 2)
	input.IsPublic = false
	_, err := svc.CreateImage(context.Background(), input)
	assert.ErrorIs(t, err, linkErr)

	images, err := f.imageRepo.FindAll(repository.ImageFilter{})
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Empty(t, f.storage.files)

	var links int64
	require.NoError(t, f.db.Model(&model.ImageTag{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestImageService_CreateImage_Validation(t *testing.T) {
	f := setupImageServiceTest(t)

	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tests := []struct {
		name    string
		mutate  func(in *ImageCreateInput)
		wantErr error
	}{
		{"blank title", func(in *ImageCreateInput) { in.Title = " " }, ErrTitleRequired},
		{"unknown category", func(in *ImageCreateInput) { in.CategoryID = 99 }, ErrCategoryNotFound},
		{"unknown tag", func(in *ImageCreateInput) { in.TagIDs = []uint{1, 42} }, ErrTagNotFound},
		{"window reversed", func(in *ImageCreateInput) { in.StartAt, in.EndAt = &start, &end }, ErrInvalidPublishWindow},
		{"not an image", func(in *ImageCreateInput) {
			in.File.Filename = "notes.txt"
			in.File.ContentType = "text/plain"
		}, ErrInvalidUpload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := createInput("Item")
			tt.mutate(&input)
			_, err := f.service.CreateImage(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.storage.files, "rejected creates must not leave files behind")
}

func TestImageService_CreateImage_StorageFailure(t *testing.T) {
	f := setupImageServiceTest(t)
	f.storage.failErr = errors.New("disk full")

	_, err := f.service.CreateImage(context.Background(), createInput("Item"))
	assert.ErrorIs(t, err, ErrStorageFailed)

	images, err := f.service.ListImages(ImageListOptions{})
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageService_UpdateImage_PartialFields(t *testing.T) {
	f := setupImageServiceTest(t)
	image := mustCreate(t, f, "Peach", 1)

	caption := "White peach"
	_, err := f.service.UpdateImage(image.ID, ImageMutation{
		Caption:      util.Optional[string]{Set: true, Valid: true, Value: caption},
		DisplayOrder: util.Optional[int]{Set: true, Valid: true, Value: 3},
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateImage(image.ID, ImageMutation{
		PriceS: util.Optional[decimal.NullDecimal]{Set: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "Peach", updated.Title)
	require.NotNil(t, updated.Caption)
	assert.Equal(t, caption, *updated.Caption)
	require.NotNil(t, updated.DisplayOrder)
	assert.Equal(t, 3, *updated.DisplayOrder)
	assert.False(t, updated.PriceS.Valid, "present null clears the price")
	assert.Equal(t, []uint{1}, updated.TagIDs(), "tags untouched when absent")
}

func TestImageService_UpdateImage_TagSync(t *testing.T) {
	f := setupImageServiceTest(t)
	image := mustCreate(t, f, "Uji", 1, 2)

	updated, err := f.service.UpdateImage(image.ID, ImageMutation{
		TagIDs: util.Optional[[]uint]{Set: true, Valid: true, Value: []uint{2, 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, updated.TagIDs())

	updated, err = f.service.UpdateImage(image.ID, ImageMutation{
		TagIDs: util.Optional[[]uint]{Set: true, Valid: true, Value: []uint{}},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestImageService_UpdateImage_Errors(t *testing.T) {
	f := setupImageServiceTest(t)
	image := mustCreate(t, f, "Lemon")

	_, err := f.service.UpdateImage(9999, ImageMutation{})
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, err = f.service.UpdateImage(image.ID, ImageMutation{Title: util.Optional[string]{Set: true}})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.service.UpdateImage(image.ID, ImageMutation{CategoryID: util.Optional[uint]{Set: true, Valid: true, Value: 77}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.service.UpdateImage(image.ID, ImageMutation{
		StartAt: util.Optional[time.Time]{Set: true, Valid: true, Value: start},
		EndAt:   util.Optional[time.Time]{Set: true, Valid: true, Value: start.Add(-time.Minute)},
	})
	assert.ErrorIs(t, err, ErrInvalidPublishWindow)

	_, err = f.service.UpdateImage(image.ID, ImageMutation{TagIDs: util.Optional[[]uint]{Set: true, Valid: true, Value: []uint{5}}})
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestImageService_DeleteImage(t *testing.T) {
	f := setupImageServiceTest(t)
	image := mustCreate(t, f, "Melon", 1)

	require.NoError(t, f.service.DeleteImage(context.Background(), image.ID))
	assert.NotContains(t, f.storage.files, image.FilePath)

	_, err := f.service.GetImage(image.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.ErrorIs(t, f.service.DeleteImage(context.Background(), image.ID), ErrImageNotFound)
}

func TestImageService_ApplyDisplayOrders(t *testing.T) {
	f := setupImageServiceTest(t)
	a := mustCreate(t, f, "A")
	b := mustCreate(t, f, "B")

	result := f.service.ApplyDisplayOrders([]model.DisplayOrderUpdate{
		{ID: b.ID, DisplayOrder: 1},
		{ID: 9999, DisplayOrder: 2},
		{ID: a.ID, DisplayOrder: 3},
	})
	assert.Equal(t, ReorderResult{Applied: 2, Missing: 1}, result)

	images, err := f.service.ListImages(ImageListOptions{})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, b.ID, images[0].ID)
	assert.Equal(t, a.ID, images[1].ID)
}

func TestImageService_ListImages_Editable(t *testing.T) {
	f := setupImageServiceTest(t)
	mustCreate(t, f, "With category")

	orphan := &model.Image{Title: "Orphan", FilePath: "x.jpg", IsPublic: true}
	require.NoError(t, f.imageRepo.Create(orphan))

	all, err := f.service.ListImages(ImageListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	editable, err := f.service.ListImages(ImageListOptions{Editable: true})
	require.NoError(t, err)
	require.Len(t, editable, 1)
	assert.Equal(t, "With category", editable[0].Title)
}
