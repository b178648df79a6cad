package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// TestCaseStatus represents the review status of a test case
type TestCaseStatus string

const (
	StatusDraft         TestCaseStatus = "draft"
	StatusPendingReview TestCaseStatus = "pending_review"
	StatusApproved      TestCaseStatus = "approved"
	StatusPublished     TestCaseStatus = "published"
	StatusRejected      TestCaseStatus = "rejected"
)

// PriorityLevel represents test case priority
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

// DifficultyLevel represents test case difficulty
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// TagRef is a display decoration attached to a test case (name + color)
type TagRef struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TagRefs is a custom type for storing tag lists as JSONB
type TagRefs []TagRef

// Scan implements the sql.Scanner interface for reading from database
func (t *TagRefs) Scan(value interface{}) error {
	if value == nil {
		*t = TagRefs{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal TagRefs value")
	}

	return json.Unmarshal(bytes, t)
}

// Value implements the driver.Valuer interface for writing to database
func (t TagRefs) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// ModelConfig describes the model used for a test case
type ModelConfig struct {
	Name    string  `json:"name"`
	Version string  `json:"version,omitempty"`
	Params  JSONMap `json:"params,omitempty"`
}

// PromptsConfig holds the prompt texts with version tags
type PromptsConfig struct {
	System          string `json:"system"`
	UserInstruction string `json:"user_instruction"`
}

// RetrievalConfig holds retrieval parameters
type RetrievalConfig struct {
	TopK                int     `json:"top_k,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	RerankerEnabled     bool    `json:"reranker_enabled,omitempty"`
}

// TestConfig is the full model + prompt + retrieval configuration
type TestConfig struct {
	Model     ModelConfig      `json:"model"`
	Prompts   PromptsConfig    `json:"prompts"`
	Retrieval *RetrievalConfig `json:"retrieval,omitempty"`
}

// Scan implements the sql.Scanner interface for reading from database
func (t *TestConfig) Scan(value interface{}) error {
	if value == nil {
		*t = TestConfig{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal TestConfig value")
	}
	if len(bytes) == 0 {
		*t = TestConfig{}
		return nil
	}
	return json.Unmarshal(bytes, t)
}

// Value implements the driver.Valuer interface for writing to database
func (t TestConfig) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// ChunkMetadata carries confidence/rank metadata for a retrieved chunk
type ChunkMetadata struct {
	PublishDate    string  `json:"publish_date,omitempty"`
	EffectiveDate  string  `json:"effective_date,omitempty"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
	ChunkType      string  `json:"chunk_type,omitempty"`
	Confidence     float64 `json:"confidence"`
	RetrievalRank  int     `json:"retrieval_rank"`
}

// RetrievedChunk is an evidence chunk with its retrieval metadata
type RetrievedChunk struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Source   string        `json:"source"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// CurrentQuery is the query the test case exercises
type CurrentQuery struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// TurnRecord is one turn of the prior conversation history
type TurnRecord struct {
	Turn      int    `json:"turn"`
	Role      string `json:"role"`
	Query     string `json:"query,omitempty"`
	Response  string `json:"response,omitempty"`
	Timestamp string `json:"timestamp"`
}

// TestCaseInput is the input side of a test case
type TestCaseInput struct {
	CurrentQuery           CurrentQuery     `json:"current_query"`
	ConversationHistory    []TurnRecord     `json:"conversation_history"`
	CurrentRetrievedChunks []RetrievedChunk `json:"current_retrieved_chunks"`
}

// Scan implements the sql.Scanner interface for reading from database
func (t *TestCaseInput) Scan(value interface{}) error {
	if value == nil {
		*t = TestCaseInput{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal TestCaseInput value")
	}
	if len(bytes) == 0 {
		*t = TestCaseInput{}
		return nil
	}
	return json.Unmarshal(bytes, t)
}

// Value implements the driver.Valuer interface for writing to database
func (t TestCaseInput) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// PerformanceMetrics holds observed execution timings
type PerformanceMetrics struct {
	TotalResponseTime float64 `json:"total_response_time"`
	RetrievalTime     float64 `json:"retrieval_time"`
	GenerationTime    float64 `json:"generation_time"`
	TokensUsed        int     `json:"tokens_used"`
	ChunksConsidered  int     `json:"chunks_considered"`
}

// RetrievalQuality holds optional retrieval quality scores
type RetrievalQuality struct {
	MaxSimilarity  float64 `json:"max_similarity,omitempty"`
	AvgSimilarity  float64 `json:"avg_similarity,omitempty"`
	DiversityScore float64 `json:"diversity_score,omitempty"`
}

// UserFeedback is the end-user rating attached to the original session
type UserFeedback struct {
	Rating               int    `json:"rating"`
	Category             string `json:"category,omitempty"`
	Comment              string `json:"comment,omitempty"`
	Concern              string `json:"concern,omitempty"`
	SuggestedImprovement string `json:"suggested_improvement,omitempty"`
	FeedbackDate         string `json:"feedback_date,omitempty"`
	FeedbackSource       string `json:"feedback_source,omitempty"`
}

// ActualExecution is the observed AI response and its metrics
type ActualExecution struct {
	Response           string             `json:"response"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	RetrievalQuality   *RetrievalQuality  `json:"retrieval_quality,omitempty"`
}

// Execution is the execution side of a test case
type Execution struct {
	Actual       ActualExecution `json:"actual"`
	UserFeedback *UserFeedback   `json:"user_feedback,omitempty"`
}

// Scan implements the sql.Scanner interface for reading from database
func (e *Execution) Scan(value interface{}) error {
	if value == nil {
		*e = Execution{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal Execution value")
	}
	if len(bytes) == 0 {
		*e = Execution{}
		return nil
	}
	return json.Unmarshal(bytes, e)
}

// Value implements the driver.Valuer interface for writing to database
func (e Execution) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// QualityScores are the five 1-5 human quality ratings
type QualityScores struct {
	ContextUnderstanding int `json:"context_understanding"`
	AnswerAccuracy       int `json:"answer_accuracy"`
	AnswerCompleteness   int `json:"answer_completeness"`
	Clarity              int `json:"clarity"`
	CitationQuality      int `json:"citation_quality"`
}

// Analysis is a human-entered quality assessment attached to a test case
type Analysis struct {
	IssueType               string        `json:"issue_type"`
	RootCause               string        `json:"root_cause"`
	ExpectedAnswer          string        `json:"expected_answer"`
	AcceptanceCriteria      string        `json:"acceptance_criteria"`
	QualityScores           QualityScores `json:"quality_scores"`
	OptimizationSuggestions []string      `json:"optimization_suggestions"`
	Notes                   string        `json:"notes"`
	AnalyzedBy              string        `json:"analyzed_by"`
	AnalysisDate            string        `json:"analysis_date"`
	AnalysisInfo            JSONMap       `json:"analysis_info,omitempty"`
}

// AnalysisColumn wraps *Analysis for JSONB storage; a nil analysis is
// stored as SQL NULL so "un-analyzed" is distinguishable
type AnalysisColumn struct {
	*Analysis
}

// Scan implements the sql.Scanner interface for reading from database
func (a *AnalysisColumn) Scan(value interface{}) error {
	if value == nil {
		a.Analysis = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal Analysis value")
	}
	if len(bytes) == 0 || string(bytes) == "null" {
		a.Analysis = nil
		return nil
	}
	a.Analysis = &Analysis{}
	return json.Unmarshal(bytes, a.Analysis)
}

// Value implements the driver.Valuer interface for writing to database
func (a AnalysisColumn) Value() (driver.Value, error) {
	if a.Analysis == nil {
		return nil, nil
	}
	return json.Marshal(a.Analysis)
}

// MarshalJSON renders the wrapped analysis directly
func (a AnalysisColumn) MarshalJSON() ([]byte, error) {
	if a.Analysis == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.Analysis)
}

// UnmarshalJSON accepts either null or an analysis object
func (a *AnalysisColumn) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Analysis = nil
		return nil
	}
	a.Analysis = &Analysis{}
	return json.Unmarshal(data, a.Analysis)
}

// TestCase is a curated, annotatable record derived from a session
type TestCase struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Status        TestCaseStatus  `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Priority      PriorityLevel   `gorm:"type:varchar(10);default:'medium';index" json:"priority"`
	Domain        string          `gorm:"type:varchar(100);index" json:"domain"`
	Difficulty    DifficultyLevel `gorm:"type:varchar(10);default:'medium'" json:"difficulty"`
	Owner         string          `gorm:"type:varchar(255)" json:"owner"`
	Version       string          `gorm:"type:varchar(20);default:'1.0'" json:"version"`
	SourceSession string          `gorm:"type:varchar(128);index" json:"source_session,omitempty"`
	CreatedDate   time.Time       `json:"created_date"`
	UpdatedDate   *time.Time      `json:"updated_date,omitempty"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Tags       TagRefs        `gorm:"type:jsonb" json:"tags"`
	Metadata   JSONMap        `gorm:"type:jsonb;default:'{}'" json:"metadata,omitempty"`
	TestConfig TestConfig     `gorm:"type:jsonb" json:"test_config"`
	Input      TestCaseInput  `gorm:"type:jsonb" json:"input"`
	Execution  Execution      `gorm:"type:jsonb" json:"execution"`
	Analysis   AnalysisColumn `gorm:"type:jsonb" json:"analysis"`
}

// TableName specifies the table name for TestCase
func (TestCase) TableName() string {
	return "test_cases"
}

// IsAnalyzed reports whether a human analysis has been attached
func (tc *TestCase) IsAnalyzed() bool {
	return tc.Analysis.Analysis != nil
}

// ParseAnalysisInfo opportunistically parses raw analyst metadata as a
// JSON object. Parse failure stores the original text under "raw"
// instead of rejecting the save.
func ParseAnalysisInfo(raw string) JSONMap {
	if raw == "" {
		return nil
	}
	var parsed JSONMap
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}
	return JSONMap{"raw": raw}
}
