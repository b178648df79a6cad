package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talktrace/talktrace/model"
)

// ConversionService turns raw session records into test case payloads
type ConversionService struct{}

// NewConversionService creates a new conversion service
func NewConversionService() *ConversionService {
	return &ConversionService{}
}

// ConversionConfig carries the per-import defaults chosen by the operator
type ConversionConfig struct {
	DefaultOwner      string                `json:"default_owner" validate:"required,email"`
	DefaultPriority   model.PriorityLevel   `json:"default_priority" validate:"omitempty,oneof=low medium high"`
	DefaultDifficulty model.DifficultyLevel `json:"default_difficulty" validate:"omitempty,oneof=easy medium hard"`
	AutoGenerateTags  bool                  `json:"auto_generate_tags"`
	IncludeAnalysis   bool                  `json:"include_analysis"`
}

// NormalizeConfig fills unset fields with the service defaults
func (c ConversionConfig) normalize() ConversionConfig {
	if c.DefaultOwner == "" {
		c.DefaultOwner = "system@company.com"
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = model.PriorityMedium
	}
	if c.DefaultDifficulty == "" {
		c.DefaultDifficulty = model.DifficultyMedium
	}
	return c
}

var domainKeywords = map[string][]string{
	"finance":    {"invest", "fund", "stock", "portfolio", "return", "risk", "asset", "financial"},
	"technology": {"program", "code", "software", "develop", "algorithm", "data", "system", "api"},
	"healthcare": {"health", "medical", "disease", "treatment", "drug", "doctor", "symptom", "diagnosis"},
	"education":  {"learn", "course", "study", "teach", "exam", "school", "student"},
}

// ConvertSession builds a TestCase from the turns of one session.
// Analysis is never attached: a test case starts un-analyzed.
func (s *ConversionService) ConvertSession(details []model.SessionDetail, cfg ConversionConfig) (*model.TestCase, error) {
	if len(details) == 0 {
		return nil, fmt.Errorf("session data cannot be empty")
	}
	cfg = cfg.normalize()

	first := details[0]
	last := details[len(details)-1]
	domain := inferDomain(first.UserQuery)

	now := time.Now().UTC()
	id := fmt.Sprintf("TC-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])

	tc := &model.TestCase{
		ID:            id,
		Name:          generateName(first.UserQuery, domain),
		Description:   generateDescription(first, len(details)),
		Status:        model.StatusDraft,
		Priority:      cfg.DefaultPriority,
		Domain:        domain,
		Difficulty:    cfg.DefaultDifficulty,
		Owner:         cfg.DefaultOwner,
		Version:       "1.0",
		SourceSession: first.SessionID,
		CreatedDate:   now,
		Metadata: model.JSONMap{
			"source_session": first.SessionID,
			"imported_at":    now.Format(time.RFC3339),
		},
		TestConfig: buildTestConfig(first),
		Input:      buildInput(details),
		Execution:  buildExecution(last),
	}

	if cfg.AutoGenerateTags {
		tc.Tags = generateTags(domain, details)
	} else {
		tc.Tags = model.TagRefs{}
	}

	return tc, nil
}

func inferDomain(query string) string {
	lower := strings.ToLower(query)
	for domain, keywords := range domainKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return domain
			}
		}
	}
	return "general"
}

func generateName(query, domain string) string {
	name := strings.TrimSpace(query)
	if runes := []rune(name); len(runes) > 60 {
		name = string(runes[:60]) + "..."
	}
	if name == "" {
		name = "Imported session"
	}
	return fmt.Sprintf("[%s] %s", domain, name)
}

func generateDescription(first model.SessionDetail, turns int) string {
	return fmt.Sprintf("Imported from session %s (%d turns, model %s). First query: %s",
		first.SessionID, turns, first.ModelID, first.UserQuery)
}

func generateTags(domain string, details []model.SessionDetail) model.TagRefs {
	tags := model.TagRefs{{Name: domain, Color: "#1890ff"}}
	if len(details) > 1 {
		tags = append(tags, model.TagRef{Name: "multi-turn", Color: "#722ed1"})
	}
	return tags
}

func buildTestConfig(first model.SessionDetail) model.TestConfig {
	cfg := model.TestConfig{
		Model: model.ModelConfig{
			Name: first.ModelID,
		},
		Prompts: model.PromptsConfig{
			System:          "",
			UserInstruction: first.UserQuery,
		},
	}

	// Carry over the session's recorded config when present
	if first.TestConfig != nil {
		if name, ok := first.TestConfig["model_name"].(string); ok && name != "" {
			cfg.Model.Name = name
		}
		if params, ok := first.TestConfig["params"].(map[string]interface{}); ok {
			cfg.Model.Params = params
		}
		if system, ok := first.TestConfig["system_prompt"].(string); ok {
			cfg.Prompts.System = system
		}
	}

	return cfg
}

func buildInput(details []model.SessionDetail) model.TestCaseInput {
	last := details[len(details)-1]

	input := model.TestCaseInput{
		CurrentQuery: model.CurrentQuery{
			Text:      last.UserQuery,
			Timestamp: last.CreatedAt.Format(time.RFC3339),
		},
		ConversationHistory:    []model.TurnRecord{},
		CurrentRetrievedChunks: []model.RetrievedChunk{},
	}

	for i, d := range details[:len(details)-1] {
		input.ConversationHistory = append(input.ConversationHistory,
			model.TurnRecord{
				Turn:      i + 1,
				Role:      "user",
				Query:     d.UserQuery,
				Timestamp: d.CreatedAt.Format(time.RFC3339),
			},
			model.TurnRecord{
				Turn:      i + 1,
				Role:      "assistant",
				Response:  d.AIResponse,
				Timestamp: d.CreatedAt.Format(time.RFC3339),
			})
	}

	for rank, chunk := range last.RetrievalChunks {
		input.CurrentRetrievedChunks = append(input.CurrentRetrievedChunks, model.RetrievedChunk{
			ID:      chunk.ID,
			Title:   chunk.Title,
			Source:  "history",
			Content: chunk.Content,
			Metadata: model.ChunkMetadata{
				Confidence:    0,
				RetrievalRank: rank + 1,
			},
		})
	}

	return input
}

func buildExecution(last model.SessionDetail) model.Execution {
	exec := model.Execution{
		Actual: model.ActualExecution{
			Response: last.AIResponse,
			PerformanceMetrics: model.PerformanceMetrics{
				ChunksConsidered: len(last.RetrievalChunks),
			},
		},
	}

	if last.UserRating > 0 || last.UserFeedback != nil {
		feedback := &model.UserFeedback{
			Rating:         last.UserRating,
			FeedbackSource: "user",
			FeedbackDate:   last.CreatedAt.Format(time.RFC3339),
		}
		if last.UserFeedback != nil {
			feedback.Comment = *last.UserFeedback
		}
		exec.UserFeedback = feedback
	}

	return exec
}
