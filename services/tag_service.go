package services

import (
	"errors"

	"github.com/talktrace/talktrace/model"
	"gorm.io/gorm"
)

// ErrTagNotFound is returned when a tag id does not exist
var ErrTagNotFound = errors.New("tag not found")

// TagService manages the reusable tag vocabulary
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new tag service
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns all tags ordered by name
func (s *TagService) List() ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// TagRequest carries the fields for creating or updating a tag
type TagRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

// Create inserts a new tag, reusing an existing one with the same name
func (s *TagService) Create(req TagRequest) (*model.Tag, error) {
	var existing model.Tag
	err := s.db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := model.Tag{Name: req.Name, Color: req.Color}
	if tag.Color == "" {
		tag.Color = "blue"
	}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update renames or recolors a tag
func (s *TagService) Update(id uint, req TagRequest) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	tag.Name = req.Name
	if req.Color != "" {
		tag.Color = req.Color
	}
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag by id
func (s *TagService) Delete(id uint) error {
	result := s.db.Delete(&model.Tag{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}
