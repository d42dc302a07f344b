package dto

import (
	"time"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// ChatRequest represents a legal question. Language is optional and detected
// from the question when omitted.
type ChatRequest struct {
	Question string `json:"question" validate:"max=2000"`
	Language string `json:"language,omitempty" validate:"omitempty,len=2,alpha"`
}

// ChatResponse represents one answered question.
type ChatResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatListResponse represents a page of chat history.
type ChatListResponse struct {
	Items      []ChatResponse `json:"items"`
	Pagination *Pagination    `json:"pagination"`
}

// ToChatResponse converts a ChatExchange model to ChatResponse DTO.
func ToChatResponse(ex *model.ChatExchange) *ChatResponse {
	return &ChatResponse{
		ID:        ex.ID,
		Question:  ex.Question,
		Answer:    ex.Answer,
		Language:  ex.Language,
		Source:    string(ex.Source),
		Timestamp: ex.CreatedAt,
	}
}

// ToChatListResponse converts a page of exchanges to ChatListResponse.
func ToChatListResponse(items []*model.ChatExchange, nextCursor string) *ChatListResponse {
	responses := make([]ChatResponse, len(items))
	for i, ex := range items {
		responses[i] = *ToChatResponse(ex)
	}
	return &ChatListResponse{
		Items: responses,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    nextCursor != "",
		},
	}
}
