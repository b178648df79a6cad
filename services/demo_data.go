package services

import (
	"fmt"
	"time"

	"github.com/talktrace/talktrace/model"
)

// AvailableModels is the fixed model list the demo dataset draws from
var AvailableModels = []string{"gpt-4o-mini", "gpt-4o", "claude-3-sonnet"}

// DemoHistoryData returns the hand-written demo session records
func DemoHistoryData() []model.SessionRecord {
	return []model.SessionRecord{
		{
			SessionID:  "session_demo_001",
			UserQuery:  "Compare the pros and cons of investing in funds versus individual stocks",
			AIResponse: "Fund investing offers diversification and professional management...",
			UserRating: 4,
			ModelID:    "gpt-4o-mini",
			CreatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			RetrievalChunks: []model.RetrievalChunk{
				{ID: "CH-1001", Title: "Fund investing basics", Content: "An investment fund is a pooled investment vehicle..."},
				{ID: "CH-1002", Title: "Stock investing guide", Content: "A share of stock represents partial ownership of a company..."},
			},
		},
		{
			SessionID:  "session_demo_002",
			UserQuery:  "What is artificial intelligence?",
			AIResponse: "Artificial intelligence is a branch of computer science...",
			UserRating: 5,
			ModelID:    "gpt-4o",
			CreatedAt:  time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			RetrievalChunks: []model.RetrievalChunk{
				{ID: "CH-2001", Title: "AI fundamentals", Content: "Artificial intelligence refers to machines simulating human intelligence..."},
			},
		},
		{
			SessionID:  "session_demo_003",
			UserQuery:  "How do I configure routing in a React project?",
			AIResponse: "You can use the React Router library to configure routes...",
			UserRating: 3,
			ModelID:    "gpt-4o-mini",
			CreatedAt:  time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			RetrievalChunks: []model.RetrievalChunk{
				{ID: "CH-3001", Title: "React Router setup", Content: "React Router is the routing library for React applications..."},
			},
		},
		{
			SessionID:  "session_demo_004",
			UserQuery:  "How do decorators work in Python?",
			AIResponse: "A decorator is a mechanism for modifying functions or classes...",
			UserRating: 5,
			ModelID:    "claude-3-sonnet",
			CreatedAt:  time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC),
			RetrievalChunks: []model.RetrievalChunk{
				{ID: "CH-4001", Title: "Python decorators explained", Content: "A decorator is essentially a function that wraps another function..."},
			},
		},
		{
			SessionID:  "session_demo_005",
			UserQuery:  "What is a microservices architecture?",
			AIResponse: "Microservices architecture is a style that splits an application into small services...",
			UserRating: 4,
			ModelID:    "gpt-4o",
			CreatedAt:  time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
			RetrievalChunks: []model.RetrievalChunk{
				{ID: "CH-5001", Title: "Microservices principles", Content: "Microservices architecture advocates splitting a monolithic application..."},
			},
		},
	}
}

var demoTopics = []string{
	"machine learning algorithm fundamentals",
	"database query optimization techniques",
	"frontend performance tuning",
	"cloud provider service comparison",
	"network security best practices",
	"mobile development framework selection",
	"API design principles",
	"code refactoring strategies",
	"project management tooling",
	"DevOps practice guide",
}

// GenerateHistoryData generates additional deterministic session
// records for the demo dataset
func GenerateHistoryData(count int) []model.SessionRecord {
	base := time.Now().UTC().Add(-7 * 24 * time.Hour).Truncate(time.Hour)

	records := make([]model.SessionRecord, 0, count)
	for i := 0; i < count; i++ {
		topic := demoTopics[i%len(demoTopics)]
		records = append(records, model.SessionRecord{
			SessionID:  fmt.Sprintf("session_gen_%03d", i+1),
			UserQuery:  fmt.Sprintf("Tell me about %s", topic),
			AIResponse: fmt.Sprintf("Here is an overview of %s and the key points to consider...", topic),
			UserRating: 1 + (i % 5),
			ModelID:    AvailableModels[i%len(AvailableModels)],
			CreatedAt:  base.Add(time.Duration(i) * 3 * time.Hour),
			RetrievalChunks: []model.RetrievalChunk{
				{
					ID:      fmt.Sprintf("CH-G%03d", i+1),
					Title:   topic,
					Content: fmt.Sprintf("Reference material covering %s.", topic),
				},
			},
		})
	}
	return records
}
