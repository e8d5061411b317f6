package scheduler

import (
	"bytes"
	"testing"
	"time"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/app/service"
	"github.com/shirokumado/menu-backend/internal/db"
	"github.com/shirokumado/menu-backend/internal/storage"
	"github.com/shirokumado/menu-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduler(t *testing.T) (*PublishWindowScheduler, repository.ImageRepository) {
	testDB, err := db.SetupSeededTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "/images")
	require.NoError(t, err)

	imageRepo := repository.NewImageRepository(testDB)
	imageService := service.NewImageService(
		imageRepo,
		service.NewCategoryService(repository.NewCategoryRepository(testDB)),
		service.NewTagService(repository.NewTagRepository(testDB)),
		fileStorage,
	)
	return NewPublishWindowScheduler(imageService, "*/5 * * * *", time.UTC), imageRepo
}

func windowed(title string, start, end time.Time) *model.Image {
	return &model.Image{
		Title:    title,
		FilePath: title + ".jpg",
		IsPublic: true,
		StartAt:  &start,
		EndAt:    &end,
	}
}

func TestPublishWindowScheduler_RunOnce(t *testing.T) {
	s, imageRepo := setupScheduler(t)

	day := func(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC) }

	summer := windowed("summer", day(10), day(20))
	early := windowed("early", day(1), day(5))
	always := &model.Image{Title: "always", FilePath: "always.jpg", IsPublic: true}
	require.NoError(t, imageRepo.Create(summer))
	require.NoError(t, imageRepo.Create(early))
	require.NoError(t, imageRepo.Create(always))

	// baseline
	got, err := s.RunOnce(day(3))
	require.NoError(t, err)
	assert.True(t, got.Empty())

	got, err = s.RunOnce(day(12))
	require.NoError(t, err)
	assert.Equal(t, []uint{summer.ID}, got.Entered)
	assert.Equal(t, []uint{early.ID}, got.Left)

	got, err = s.RunOnce(day(13))
	require.NoError(t, err)
	assert.True(t, got.Empty())

	// both bounds are inclusive
	got, err = s.RunOnce(day(20))
	require.NoError(t, err)
	assert.True(t, got.Empty())

	got, err = s.RunOnce(day(20).Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got.Entered)
	assert.Equal(t, []uint{summer.ID}, got.Left)
}

func TestPublishWindowScheduler_LogsOnlyChangesAtInfo(t *testing.T) {
	s, imageRepo := setupScheduler(t)

	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Initialize(logger.Config{Level: "info", Format: "json", Output: &bytes.Buffer{}}) })

	day := func(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, imageRepo.Create(windowed("festival", day(10), day(12))))

	_, err := s.RunOnce(day(1))
	require.NoError(t, err)
	_, err = s.RunOnce(day(2))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "with changes")

	_, err = s.RunOnce(day(11))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Publish window check completed with changes")
	assert.Contains(t, buf.String(), "Menu item entered its publish window")
}

func TestPublishWindowScheduler_StartRejectsBadSchedule(t *testing.T) {
	s, _ := setupScheduler(t)
	s.schedule = "not a cron line"

	assert.Error(t, s.Start())
}

func TestPublishWindowScheduler_StartStop(t *testing.T) {
	s, _ := setupScheduler(t)

	require.NoError(t, s.Start())
	s.Stop()
}
