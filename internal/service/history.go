package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/repository"
)

const defaultHistoryWriteTimeout = 3 * time.Second

// ChatPage is one page of chat history.
type ChatPage struct {
	Items      []*model.ChatExchange
	NextCursor string
}

// FormPage is one page of generated forms.
type FormPage struct {
	Items      []*model.FormArtifact
	NextCursor string
}

// HistoryRecorder stores finished exchanges and forms and lists them back to
// their owner. Writes never fail the caller.
type HistoryRecorder struct {
	store        HistoryStore
	metrics      metrics.Recorder
	logger       *slog.Logger
	writeTimeout time.Duration
}

// NewHistoryRecorder creates a new HistoryRecorder. A nil store turns every
// write into a logged no-op and every read into ErrDependencyUnavailable.
func NewHistoryRecorder(store HistoryStore, recorder metrics.Recorder, logger *slog.Logger) *HistoryRecorder {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryRecorder{
		store:        store,
		metrics:      recorder,
		logger:       logger.With("component", "history"),
		writeTimeout: defaultHistoryWriteTimeout,
	}
}

// RecordChat stores ex. Failures are logged and counted, never returned.
func (h *HistoryRecorder) RecordChat(ctx context.Context, ex *model.ChatExchange) {
	h.write(ctx, "chat", ex.ID, func(ctx context.Context) error {
		return h.store.InsertChatExchange(ctx, ex)
	})
}

// RecordForm stores form. Failures are logged and counted, never returned.
func (h *HistoryRecorder) RecordForm(ctx context.Context, form *model.FormArtifact) {
	h.write(ctx, "form", form.ID, func(ctx context.Context) error {
		return h.store.InsertFormArtifact(ctx, form)
	})
}

// write detaches from the request so a client hanging up after its answer
// does not lose the record.
func (h *HistoryRecorder) write(ctx context.Context, kind, id string, insert func(context.Context) error) {
	if h.store == nil {
		h.metrics.IncHistoryWriteFailure(kind)
		h.logger.WarnContext(ctx, "history store not configured, record dropped", "kind", kind, "id", id)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.writeTimeout)
	defer cancel()

	if err := insert(writeCtx); err != nil {
		h.metrics.IncHistoryWriteFailure(kind)
		h.logger.WarnContext(ctx, "failed to record history",
			"kind", kind,
			"id", id,
			"error", err,
		)
	}
}

// ListChats returns owner's exchanges, newest first.
func (h *HistoryRecorder) ListChats(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) (*ChatPage, error) {
	if err := h.checkList(owner, filter); err != nil {
		return nil, err
	}

	items, next, err := h.store.ListChatExchanges(ctx, owner, filter, cursor)
	if err != nil {
		return nil, listError(err)
	}
	if items == nil {
		items = []*model.ChatExchange{}
	}
	return &ChatPage{Items: items, NextCursor: next}, nil
}

// ListForms returns owner's generated forms, newest first.
func (h *HistoryRecorder) ListForms(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) (*FormPage, error) {
	if err := h.checkList(owner, filter); err != nil {
		return nil, err
	}

	items, next, err := h.store.ListFormArtifacts(ctx, owner, filter, cursor)
	if err != nil {
		return nil, listError(err)
	}
	if items == nil {
		items = []*model.FormArtifact{}
	}
	return &FormPage{Items: items, NextCursor: next}, nil
}

func (h *HistoryRecorder) checkList(owner string, filter model.HistoryFilter) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return validationError("end must not be before start")
	}
	if h.store == nil {
		return unavailable("history store", errors.New("not configured"))
	}
	return nil
}

func listError(err error) error {
	if errors.Is(err, repository.ErrInvalidCursor) {
		return validationError("invalid cursor")
	}
	return unavailable("history store", err)
}
