package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/handler/dto"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

// FormGenerator renders legal forms. *service.FormService implements it.
type FormGenerator interface {
	Types() []string
	Fields(formType string) (*legal.FormTemplate, error)
	Generate(ctx context.Context, owner, formType string, responses map[string]string) (*model.FormArtifact, error)
}

// FormHandler handles HTTP requests for legal forms.
type FormHandler struct {
	forms  FormGenerator
	logger *slog.Logger
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(forms FormGenerator, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		forms:  forms,
		logger: logger,
	}
}

// Types handles GET /api/v1/forms.
func (h *FormHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FormTypesResponse{FormTypes: h.forms.Types()})
}

// Fields handles GET /api/v1/forms/{type}/fields.
func (h *FormHandler) Fields(w http.ResponseWriter, r *http.Request) {
	formType := chi.URLParam(r, "type")
	if err := middleware.ValidateFormType(formType); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM_TYPE", err.Error())
		return
	}

	tmpl, err := h.forms.Fields(formType)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// Generate handles POST /api/v1/forms.
func (h *FormHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateFormRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := middleware.ValidateFormType(req.FormType); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM_TYPE", err.Error())
		return
	}

	form, err := h.forms.Generate(r.Context(), auth.EmailFromContext(r.Context()), req.FormType, req.Responses)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "form_generated",
		"form_id", form.ID,
		"form_type", form.FormType,
		"missing_fields", len(form.MissingFields),
	)
	writeJSON(w, http.StatusCreated, dto.ToFormResponse(form))
}
