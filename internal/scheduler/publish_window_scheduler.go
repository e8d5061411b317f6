package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirokumado/menu-backend/internal/app/service"
	"github.com/shirokumado/menu-backend/internal/menu"
	"github.com/shirokumado/menu-backend/pkg/logger"
)

// Transitions lists items whose visibility changed since the previous run.
type Transitions struct {
	Entered []uint
	Left    []uint
}

// Empty reports whether nothing changed.
func (t Transitions) Empty() bool {
	return len(t.Entered) == 0 && len(t.Left) == 0
}

// PublishWindowScheduler periodically logs menu items entering or leaving
// their publish window. It never writes to the database.
type PublishWindowScheduler struct {
	cron         *cron.Cron
	schedule     string
	loc          *time.Location
	imageService service.ImageService

	mu      sync.Mutex
	visible map[uint]bool
	primed  bool
}

func NewPublishWindowScheduler(imageService service.ImageService, schedule string, loc *time.Location) *PublishWindowScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &PublishWindowScheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		schedule:     schedule,
		loc:          loc,
		imageService: imageService,
		visible:      map[uint]bool{},
	}
}

// Start registers the job and starts the cron runner
func (s *PublishWindowScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(time.Now().In(s.loc)); err != nil {
			logger.Error("Publish window check failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for publish window check", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Publish window scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"timezone": s.loc.String(),
	})
	return nil
}

// Stop waits for a running job to finish
func (s *PublishWindowScheduler) Stop() {
	logger.Info("Stopping publish window scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Publish window scheduler stopped")
}

// RunOnce evaluates every item at now and diffs against the previous run.
// The first run only records a baseline.
func (s *PublishWindowScheduler) RunOnce(now time.Time) (Transitions, error) {
	images, err := s.imageService.ListImages(service.ImageListOptions{})
	if err != nil {
		return Transitions{}, err
	}

	current := make(map[uint]bool, len(images))
	for i := range images {
		if menu.IsVisible(&images[i], now) {
			current[images[i].ID] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result Transitions
	if s.primed {
		for i := range images {
			id := images[i].ID
			switch {
			case current[id] && !s.visible[id]:
				result.Entered = append(result.Entered, id)
				logger.Info("Menu item entered its publish window", map[string]interface{}{
					"image_id": id,
					"title":    images[i].Title,
				})
			case !current[id] && s.visible[id]:
				result.Left = append(result.Left, id)
				logger.Info("Menu item left its publish window", map[string]interface{}{
					"image_id": id,
					"title":    images[i].Title,
				})
			}
		}
		// deleted rows drop out silently
	}

	s.visible = current
	s.primed = true

	fields := map[string]interface{}{
		"visible": len(current),
		"entered": len(result.Entered),
		"left":    len(result.Left),
	}
	if result.Empty() {
		logger.Debug("Publish window check completed", fields)
	} else {
		logger.Info("Publish window check completed with changes", fields)
	}
	return result, nil
}
