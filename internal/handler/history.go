package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/handler/dto"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/middleware"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

const dateLayout = "2006-01-02"

// HistoryLister reads a user's past exchanges and forms.
// *service.HistoryRecorder implements it.
type HistoryLister interface {
	ListChats(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) (*service.ChatPage, error)
	ListForms(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) (*service.FormPage, error)
}

// HistoryHandler serves the signed-in user's history.
type HistoryHandler struct {
	history HistoryLister
	logger  *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history HistoryLister, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// Chats handles GET /api/v1/data/chats.
func (h *HistoryHandler) Chats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := parseHistoryFilter(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	if lang := query.Get("language"); lang != "" {
		if err := middleware.ValidateLanguage(lang); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_LANGUAGE", err.Error())
			return
		}
		filter.Language = legal.ResolveLanguage(lang, "")
	}

	page, err := h.history.ListChats(r.Context(), auth.EmailFromContext(r.Context()), filter, query.Get("cursor"))
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToChatListResponse(page.Items, page.NextCursor))
}

// Forms handles GET /api/v1/data/forms.
func (h *HistoryHandler) Forms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := parseHistoryFilter(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	if formType := query.Get("form_type"); formType != "" {
		if err := middleware.ValidateFormType(formType); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FORM_TYPE", err.Error())
			return
		}
		filter.FormType = legal.NormalizeFormType(formType)
	}

	page, err := h.history.ListForms(r.Context(), auth.EmailFromContext(r.Context()), filter, query.Get("cursor"))
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToFormListResponse(page.Items, page.NextCursor))
}

// parseHistoryFilter reads start, end, q and limit. Dates are RFC 3339 or
// YYYY-MM-DD; a bare end date covers that whole day.
func parseHistoryFilter(query url.Values) (model.HistoryFilter, error) {
	var filter model.HistoryFilter

	if s := query.Get("start"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return filter, fmt.Errorf("start: %w", err)
		}
		filter.Start = &t
	}
	if s := query.Get("end"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return filter, fmt.Errorf("end: %w", err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.End = &t
	}

	if q := query.Get("q"); q != "" {
		if err := middleware.ValidateQuestion(q); err != nil {
			return filter, fmt.Errorf("q: %w", err)
		}
		filter.Query = q
	}

	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, errors.New("expected RFC 3339 timestamp or YYYY-MM-DD")
}
