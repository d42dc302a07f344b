package dto

import (
	"time"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// GenerateFormRequest represents the answers for one form.
type GenerateFormRequest struct {
	FormType  string            `json:"form_type" validate:"required,max=32"`
	Responses map[string]string `json:"responses" validate:"max=64"`
}

// FormTypesResponse lists the forms that can be generated.
type FormTypesResponse struct {
	FormTypes []string `json:"form_types"`
}

// FormResponse represents a generated form.
type FormResponse struct {
	ID            string            `json:"id"`
	FormType      string            `json:"form_type"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Fields        map[string]string `json:"fields"`
	MissingFields []string          `json:"missing_fields"`
	Archived      bool              `json:"archived"`
	Timestamp     time.Time         `json:"timestamp"`
}

// FormListResponse represents a page of generated forms.
type FormListResponse struct {
	Items      []FormResponse `json:"items"`
	Pagination *Pagination    `json:"pagination"`
}

// ToFormResponse converts a FormArtifact model to FormResponse DTO.
func ToFormResponse(f *model.FormArtifact) *FormResponse {
	fields := f.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	missing := f.MissingFields
	if missing == nil {
		missing = []string{}
	}
	return &FormResponse{
		ID:            f.ID,
		FormType:      f.FormType,
		Title:         f.Title,
		Content:       f.Content,
		Fields:        fields,
		MissingFields: missing,
		Archived:      f.ArchiveKey != "",
		Timestamp:     f.CreatedAt,
	}
}

// ToFormListResponse converts a page of forms to FormListResponse.
func ToFormListResponse(items []*model.FormArtifact, nextCursor string) *FormListResponse {
	responses := make([]FormResponse, len(items))
	for i, f := range items {
		responses[i] = *ToFormResponse(f)
	}
	return &FormListResponse{
		Items: responses,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    nextCursor != "",
		},
	}
}
