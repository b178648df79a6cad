package services

import (
	"context"
	"time"

	"github.com/talktrace/talktrace/model"
	"github.com/talktrace/talktrace/utils/timeutil"
)

// AnalyticsService aggregates cross-cutting statistics for the console
// dashboard
type AnalyticsService struct {
	history *HistoryService
	cases   *TestCaseService
	imports *ImportService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(history *HistoryService, cases *TestCaseService, imports *ImportService) *AnalyticsService {
	return &AnalyticsService{history: history, cases: cases, imports: imports}
}

// Overview summarizes recent conversation activity and catalog state.
// Days defaults to the last week.
func (s *AnalyticsService) Overview(ctx context.Context, days int) (model.JSONMap, error) {
	if days < 1 {
		days = 7
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	page, err := s.history.Search(model.HistorySearchRequest{
		StartTime: start,
		EndTime:   end,
		Page:      1,
		PageSize:  1,
	})
	if err != nil {
		return nil, err
	}

	caseStats, err := s.cases.Statistics()
	if err != nil {
		return nil, err
	}

	models, err := s.history.ModelIDs(ctx)
	if err != nil {
		models = []string{}
	}

	var importTotal int64
	if s.imports != nil {
		if _, total, err := s.imports.Tasks(1, 1); err == nil {
			importTotal = total
		}
	}

	return model.JSONMap{
		"period": model.JSONMap{
			"start_time": timeutil.Display(start.Format(time.RFC3339)),
			"end_time":   timeutil.Display(end.Format(time.RFC3339)),
			"days":       days,
		},
		"conversation_count": page.Total,
		"test_cases":         caseStats,
		"import_task_count":  importTotal,
		"available_models":   models,
		"generated_at":       end.Format(time.RFC3339),
	}, nil
}

// Health reports the availability of the backing data sources
func (s *AnalyticsService) Health() model.JSONMap {
	status := "healthy"
	historyOK := s.history.Healthy()
	if !historyOK {
		status = "degraded"
	}
	return model.JSONMap{
		"status":         status,
		"history_source": historyOK,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
}
