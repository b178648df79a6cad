package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/talktrace/talktrace/model"
	"github.com/talktrace/talktrace/utils/cache"
)

const modelCacheKey = "history:models"

// HistoryService answers history search, session detail and model list
// queries over a SessionSource
type HistoryService struct {
	source SessionSource
	cache  *cache.RedisCache
}

// NewHistoryService creates a new history service. The cache is
// optional; without it model IDs are computed on every call.
func NewHistoryService(source SessionSource, redisCache *cache.RedisCache) *HistoryService {
	return &HistoryService{
		source: source,
		cache:  redisCache,
	}
}

// HistoryPage is one page of session records
type HistoryPage struct {
	Items      []model.SessionRecord `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Search filters session records by time range, model, rating range
// and keywords, newest first, and returns one page
func (s *HistoryService) Search(req model.HistorySearchRequest) (*HistoryPage, error) {
	records, err := s.source.All()
	if err != nil {
		return nil, err
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filtered := make([]model.SessionRecord, 0, len(records))
	for _, rec := range records {
		if !req.StartTime.IsZero() && rec.CreatedAt.Before(req.StartTime) {
			continue
		}
		if !req.EndTime.IsZero() && rec.CreatedAt.After(req.EndTime) {
			continue
		}
		if len(req.ModelIDs) > 0 && !containsString(req.ModelIDs, rec.ModelID) {
			continue
		}
		if req.RatingRange != nil {
			if rec.UserRating < req.RatingRange[0] || rec.UserRating > req.RatingRange[1] {
				continue
			}
		}
		if kw := strings.ToLower(strings.TrimSpace(req.Keywords)); kw != "" {
			if !strings.Contains(strings.ToLower(rec.UserQuery), kw) &&
				!strings.Contains(strings.ToLower(rec.AIResponse), kw) {
				continue
			}
		}
		filtered = append(filtered, rec)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := (req.Page - 1) * req.PageSize
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}

	items := filtered[start:end]
	if items == nil {
		items = []model.SessionRecord{}
	}

	totalPages := (total + req.PageSize - 1) / req.PageSize

	return &HistoryPage{
		Items:      items,
		Total:      int64(total),
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SessionDetails returns the per-turn detail rows for one session
func (s *HistoryService) SessionDetails(sessionID string) ([]model.SessionDetail, error) {
	return s.source.SessionDetails(sessionID)
}

// ModelIDs returns the distinct model ids present in the source,
// sorted, served from cache when available
func (s *HistoryService) ModelIDs(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		if err := s.cache.GetJSON(ctx, modelCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	records, err := s.source.All()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var models []string
	for _, rec := range records {
		if rec.ModelID != "" && !seen[rec.ModelID] {
			seen[rec.ModelID] = true
			models = append(models, rec.ModelID)
		}
	}
	sort.Strings(models)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, modelCacheKey, models, 10*time.Minute); err != nil {
			log.Printf("Warning: failed to cache model list: %v", err)
		}
	}

	return models, nil
}

// Healthy reports whether the session source is reachable
func (s *HistoryService) Healthy() bool {
	return s.source.Ping() == nil
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
