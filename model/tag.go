package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag is a reusable display decoration (name + color) that test cases
// reference by name
type Tag struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null;index" json:"name"`
	Color     string         `gorm:"type:varchar(20)" json:"color,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
