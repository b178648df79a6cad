package model

import "time"

// RetrievalChunk is a piece of source evidence the AI consulted while
// answering, attached to a session record
type RetrievalChunk struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SessionRecord represents one historical user/AI exchange as returned
// by the history search endpoint
type SessionRecord struct {
	SessionID       string           `json:"session_id"`
	UserQuery       string           `json:"user_query"`
	AIResponse      string           `json:"ai_response"`
	UserRating      int              `json:"user_rating"` // 0-5, 0 means unrated
	ModelID         string           `json:"model_id"`
	CreatedAt       time.Time        `json:"created_at"`
	RetrievalChunks []RetrievalChunk `json:"retrieval_chunks"`
	TestConfig      JSONMap          `json:"test_config,omitempty"`
}

// SessionDetail is the per-turn view of a session used by the
// session detail endpoint
type SessionDetail struct {
	SessionID       string           `json:"session_id"`
	ModelID         string           `json:"model_id"`
	UserQuery       string           `json:"user_query"`
	AIResponse      string           `json:"ai_response"`
	UserRating      int              `json:"user_rating"`
	CreatedAt       time.Time        `json:"created_at"`
	RetrievalChunks []RetrievalChunk `json:"retrieval_chunks"`
	UserFeedback    *string          `json:"user_feedback,omitempty"`
	TestConfig      JSONMap          `json:"test_config,omitempty"`
}

// HistorySearchRequest carries the parsed history search filters
type HistorySearchRequest struct {
	StartTime   time.Time
	EndTime     time.Time
	ModelIDs    []string
	RatingRange *[2]int
	Keywords    string
	Page        int
	PageSize    int
}
