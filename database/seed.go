package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/talktrace/talktrace/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedTags(); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	if err := s.SeedTestCases(); err != nil {
		return fmt.Errorf("failed to seed test cases: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedTags creates the starter tag vocabulary
func (s *Seeder) SeedTags() error {
	var count int64
	if err := s.db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Tags already exist, skipping...")
		return nil
	}

	tags := []model.Tag{
		{Name: "imported", Color: "blue"},
		{Name: "regression", Color: "red"},
		{Name: "finance", Color: "green"},
		{Name: "technology", Color: "purple"},
		{Name: "multi-turn", Color: "orange"},
	}
	if err := s.db.Create(&tags).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d tags", len(tags))
	return nil
}

// SeedTestCases creates a few demo catalog entries so a fresh install
// is not empty
func (s *Seeder) SeedTestCases() error {
	var count int64
	if err := s.db.Model(&model.TestCase{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Test cases already exist, skipping...")
		return nil
	}

	now := time.Now().UTC()
	cases := []model.TestCase{
		{
			ID:          seedCaseID(now, 1),
			Name:        "Fund recommendation with risk constraints",
			Description: "Single-turn query asking for a conservative fund portfolio. Checks the model honors the stated risk tolerance.",
			Status:      model.StatusApproved,
			Priority:    model.PriorityHigh,
			Domain:      "finance",
			Difficulty:  model.DifficultyMedium,
			Owner:       "qa@company.com",
			Version:     "1.0",
			CreatedDate: now.AddDate(0, 0, -14),
			Tags: model.TagRefs{
				{Name: "finance", Color: "green"},
				{Name: "regression", Color: "red"},
			},
			Metadata: model.JSONMap{"seed": true},
			TestConfig: model.TestConfig{
				Model: model.ModelConfig{Name: "gpt-4o-mini", Params: model.JSONMap{"temperature": 0.2}},
			},
			Input: model.TestCaseInput{
				CurrentQuery: model.CurrentQuery{Text: "Recommend a low-risk fund portfolio for retirement savings"},
			},
		},
		{
			ID:          seedCaseID(now, 2),
			Name:        "API pagination follow-up",
			Description: "Two-turn conversation where the second turn depends on the first answer. Checks conversation history is used.",
			Status:      model.StatusDraft,
			Priority:    model.PriorityMedium,
			Domain:      "technology",
			Difficulty:  model.DifficultyHard,
			Owner:       "system@company.com",
			Version:     "1.0",
			CreatedDate: now.AddDate(0, 0, -3),
			Tags: model.TagRefs{
				{Name: "technology", Color: "purple"},
				{Name: "multi-turn", Color: "orange"},
			},
			Metadata: model.JSONMap{"seed": true},
			Input: model.TestCaseInput{
				CurrentQuery: model.CurrentQuery{Text: "How do I add cursor pagination to that endpoint?"},
			},
		},
	}

	if err := s.db.Create(&cases).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d test cases", len(cases))
	return nil
}

func seedCaseID(now time.Time, n int) string {
	return fmt.Sprintf("TC-%s-seed%04d%s", now.Format("20060102150405"), n, uuid.NewString()[:4])
}
