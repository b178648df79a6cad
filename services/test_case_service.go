package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talktrace/talktrace/model"
	"gorm.io/gorm"
)

// ErrTestCaseNotFound is returned when a test case id does not exist
var ErrTestCaseNotFound = errors.New("test case not found")

// TestCaseService handles the test case catalog
type TestCaseService struct {
	db *gorm.DB
}

// NewTestCaseService creates a new test case service
func NewTestCaseService(db *gorm.DB) *TestCaseService {
	return &TestCaseService{db: db}
}

// ListFilter carries the list query filters
type ListFilter struct {
	Page     int
	PageSize int
	Status   string
	Domain   string
	Priority string
	Search   string
}

// List returns one filtered page of test cases, newest first
func (s *TestCaseService) List(filter ListFilter) ([]model.TestCase, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	query := s.db.Model(&model.TestCase{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Domain != "" {
		query = query.Where("domain = ?", filter.Domain)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []model.TestCase
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("created_date DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

// GetByID returns the full test case structure
func (s *TestCaseService) GetByID(id string) (*model.TestCase, error) {
	var tc model.TestCase
	if err := s.db.Where("id = ?", id).First(&tc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestCaseNotFound
		}
		return nil, err
	}
	return &tc, nil
}

// CreateRequest carries the fields accepted on creation
type CreateRequest struct {
	Name          string                `json:"name" validate:"required,max=255"`
	Description   string                `json:"description" validate:"omitempty,max=2000"`
	Owner         string                `json:"owner" validate:"required,email"`
	Priority      model.PriorityLevel   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Domain        string                `json:"domain" validate:"omitempty,max=100"`
	Difficulty    model.DifficultyLevel `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags          model.TagRefs         `json:"tags"`
	SourceSession string                `json:"source_session"`
	TestConfig    *model.TestConfig     `json:"test_config"`
	Input         *model.TestCaseInput  `json:"input"`
	Execution     *model.Execution      `json:"execution"`
}

// Create inserts a new test case. Status is always draft and any
// analysis present in the payload is ignored: a test case starts
// un-analyzed.
func (s *TestCaseService) Create(req CreateRequest) (*model.TestCase, error) {
	now := time.Now().UTC()

	tc := model.TestCase{
		ID:            fmt.Sprintf("TC-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8]),
		Name:          req.Name,
		Description:   req.Description,
		Status:        model.StatusDraft,
		Priority:      req.Priority,
		Domain:        req.Domain,
		Difficulty:    req.Difficulty,
		Owner:         req.Owner,
		Version:       "1.0",
		SourceSession: req.SourceSession,
		CreatedDate:   now,
		Tags:          req.Tags,
		Metadata:      model.JSONMap{},
	}

	if tc.Priority == "" {
		tc.Priority = model.PriorityMedium
	}
	if tc.Difficulty == "" {
		tc.Difficulty = model.DifficultyMedium
	}
	if tc.Domain == "" {
		tc.Domain = "general"
	}
	if tc.Tags == nil {
		tc.Tags = model.TagRefs{}
	}
	if req.SourceSession != "" {
		tc.Metadata["source_session"] = req.SourceSession
	}
	if req.TestConfig != nil {
		tc.TestConfig = *req.TestConfig
	}
	if req.Input != nil {
		tc.Input = *req.Input
	}
	if req.Execution != nil {
		tc.Execution = *req.Execution
	}

	if err := s.db.Create(&tc).Error; err != nil {
		return nil, err
	}
	return &tc, nil
}

// CreateImported persists an already-converted test case
func (s *TestCaseService) CreateImported(tc *model.TestCase) error {
	return s.db.Create(tc).Error
}

// UpdateRequest carries the mutable fields; nil means leave unchanged
type UpdateRequest struct {
	Name        *string                `json:"name" validate:"omitempty,max=255"`
	Description *string                `json:"description" validate:"omitempty,max=2000"`
	Status      *model.TestCaseStatus  `json:"status" validate:"omitempty,oneof=draft pending_review approved published rejected"`
	Priority    *model.PriorityLevel   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Domain      *string                `json:"domain" validate:"omitempty,max=100"`
	Difficulty  *model.DifficultyLevel `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags        *model.TagRefs         `json:"tags"`
	Analysis    *model.Analysis        `json:"analysis"`
	// AnalysisInfo arrives as raw text and is parsed opportunistically
	AnalysisInfo *string `json:"analysis_info"`
}

// Update applies a partial update and stamps updated_date. Saving an
// analysis defaults analyzed_by/analysis_date when the form left them
// empty.
func (s *TestCaseService) Update(id string, req UpdateRequest) (*model.TestCase, error) {
	tc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tc.Name = *req.Name
	}
	if req.Description != nil {
		tc.Description = *req.Description
	}
	if req.Status != nil {
		tc.Status = *req.Status
	}
	if req.Priority != nil {
		tc.Priority = *req.Priority
	}
	if req.Domain != nil {
		tc.Domain = *req.Domain
	}
	if req.Difficulty != nil {
		tc.Difficulty = *req.Difficulty
	}
	if req.Tags != nil {
		tc.Tags = *req.Tags
	}
	if req.Analysis != nil {
		analysis := *req.Analysis
		if req.AnalysisInfo != nil {
			analysis.AnalysisInfo = model.ParseAnalysisInfo(*req.AnalysisInfo)
		}
		StampAnalysis(&analysis)
		tc.Analysis = model.AnalysisColumn{Analysis: &analysis}
	}

	now := time.Now().UTC()
	tc.UpdatedDate = &now

	if err := s.db.Save(tc).Error; err != nil {
		return nil, err
	}
	return tc, nil
}

// StampAnalysis fills analyst identity and date when the form did not
// provide them
func StampAnalysis(a *model.Analysis) {
	if a.AnalyzedBy == "" {
		a.AnalyzedBy = "unknown@company.com"
	}
	if a.AnalysisDate == "" {
		a.AnalysisDate = time.Now().UTC().Format(time.RFC3339)
	}
}

// Delete removes a test case by id
func (s *TestCaseService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&model.TestCase{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTestCaseNotFound
	}
	return nil
}

// BatchRequest carries a batch action over a set of test case ids
type BatchRequest struct {
	Action string        `json:"action" validate:"required,oneof=delete update_status"`
	IDs    []string      `json:"ids" validate:"required,min=1"`
	Data   model.JSONMap `json:"data"`
}

// BatchResult reports how many rows a batch action touched
type BatchResult struct {
	Action        string `json:"action"`
	AffectedCount int64  `json:"affected_count"`
}

// Batch applies a batch delete or status update
func (s *TestCaseService) Batch(req BatchRequest) (*BatchResult, error) {
	result := &BatchResult{Action: req.Action}

	switch req.Action {
	case "delete":
		res := s.db.Where("id IN ?", req.IDs).Delete(&model.TestCase{})
		if res.Error != nil {
			return nil, res.Error
		}
		result.AffectedCount = res.RowsAffected

	case "update_status":
		status, _ := req.Data["status"].(string)
		if status == "" {
			return nil, fmt.Errorf("update_status requires data.status")
		}
		now := time.Now().UTC()
		res := s.db.Model(&model.TestCase{}).
			Where("id IN ?", req.IDs).
			Updates(map[string]interface{}{
				"status":       status,
				"updated_date": now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		result.AffectedCount = res.RowsAffected

	default:
		return nil, fmt.Errorf("unsupported batch action: %s", req.Action)
	}

	return result, nil
}

// Statistics aggregates catalog counts by status, priority, difficulty
// and domain
func (s *TestCaseService) Statistics() (model.JSONMap, error) {
	var total int64
	if err := s.db.Model(&model.TestCase{}).Count(&total).Error; err != nil {
		return nil, err
	}

	stats := model.JSONMap{
		"total_count": total,
	}

	for field, key := range map[string]string{
		"status":     "status_distribution",
		"priority":   "priority_distribution",
		"difficulty": "difficulty_distribution",
		"domain":     "domain_distribution",
	} {
		dist, err := s.countBy(field)
		if err != nil {
			return nil, err
		}
		stats[key] = dist
	}

	return stats, nil
}

type countRow struct {
	Value string `gorm:"column:value"`
	Count int64  `gorm:"column:count"`
}

func (s *TestCaseService) countBy(field string) (map[string]int64, error) {
	var rows []countRow
	if err := s.db.Model(&model.TestCase{}).
		Select(field + " AS value, COUNT(*) AS count").
		Group(field).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(rows))
	for _, row := range rows {
		dist[row.Value] = row.Count
	}
	return dist, nil
}

// TagNames returns the distinct tag names used across the catalog
func (s *TestCaseService) TagNames() ([]string, error) {
	var cases []model.TestCase
	if err := s.db.Select("tags").Find(&cases).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	names := []string{}
	for _, tc := range cases {
		for _, tag := range tc.Tags {
			if tag.Name != "" && !seen[tag.Name] {
				seen[tag.Name] = true
				names = append(names, tag.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindBySourceSessions maps session ids to the test cases already
// imported from them. Only the backend decides duplication.
func (s *TestCaseService) FindBySourceSessions(sessionIDs []string) (map[string]model.TestCase, error) {
	if len(sessionIDs) == 0 {
		return map[string]model.TestCase{}, nil
	}

	var cases []model.TestCase
	if err := s.db.Where("source_session IN ?", sessionIDs).
		Order("created_date ASC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return earliestBySourceSession(cases), nil
}

// earliestBySourceSession keeps the oldest test case per source
// session when a session was imported more than once.
func earliestBySourceSession(cases []model.TestCase) map[string]model.TestCase {
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].CreatedDate.Before(cases[j].CreatedDate)
	})
	found := make(map[string]model.TestCase, len(cases))
	for _, tc := range cases {
		if _, ok := found[tc.SourceSession]; !ok {
			found[tc.SourceSession] = tc
		}
	}
	return found
}
