package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/handler/dto"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

// Answerer resolves legal questions. *service.AnswerResolver implements it.
type Answerer interface {
	Answer(ctx context.Context, owner, question, language string) *model.ChatExchange
}

// ChatHandler handles legal questions.
type ChatHandler struct {
	answers Answerer
	logger  *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(answers Answerer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		answers: answers,
		logger:  logger,
	}
}

// Ask handles POST /api/v1/chat. An answer is always returned; the source
// field says whether the remote model or the offline guides produced it.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := middleware.ValidateQuestion(req.Question); err != nil {
		code := "INVALID_QUESTION"
		if errors.Is(err, middleware.ErrQuestionTooLong) {
			code = "QUESTION_TOO_LONG"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	if err := middleware.ValidateLanguage(req.Language); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_LANGUAGE", err.Error())
		return
	}

	ex := h.answers.Answer(r.Context(), auth.EmailFromContext(r.Context()), req.Question, req.Language)

	h.logger.InfoContext(r.Context(), "question_answered",
		"exchange_id", ex.ID,
		"language", ex.Language,
		"source", string(ex.Source),
	)
	writeJSON(w, http.StatusOK, dto.ToChatResponse(ex))
}
