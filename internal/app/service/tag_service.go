package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/pkg/logger"
)

var ErrTagNotFound = errors.New("tag not found")

type TagService interface {
	ListTags() ([]model.Tag, error)
	ResolveTags(ids []uint) ([]model.Tag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// ListTags returns every tag ordered by id.
func (s *tagService) ListTags() ([]model.Tag, error) {
	tags, err := s.tagRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return tags, nil
}

// ResolveTags loads the tags for ids, ignoring duplicates. Any id without a
// tag fails the whole lookup with ErrTagNotFound.
func (s *tagService) ResolveTags(ids []uint) ([]model.Tag, error) {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	tags, err := s.tagRepo.FindByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		missing := make([]uint, 0, len(unique))
		for _, id := range unique {
			if !slices.ContainsFunc(tags, func(t model.Tag) bool { return t.ID == id }) {
				missing = append(missing, id)
			}
		}
		logger.Warn("Unknown tag IDs", map[string]interface{}{
			"tag_ids": missing,
		})
		return nil, fmt.Errorf("%w: %v", ErrTagNotFound, missing)
	}
	return tags, nil
}
