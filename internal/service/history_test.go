package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/repository"
)

func TestHistoryRecorder_ListIsOwnerScoped(t *testing.T) {
	store := &fakeHistory{}
	h := NewHistoryRecorder(store, nil, testLogger())
	ctx := context.Background()

	h.RecordChat(ctx, &model.ChatExchange{ID: "1", Owner: "alice@x.com", Question: "q1"})
	h.RecordChat(ctx, &model.ChatExchange{ID: "2", Owner: "bob@x.com", Question: "q2"})
	h.RecordForm(ctx, &model.FormArtifact{ID: "f1", Owner: "bob@x.com", FormType: "RTI"})

	chats, err := h.ListChats(ctx, "alice@x.com", model.HistoryFilter{}, "")
	require.NoError(t, err)
	require.Len(t, chats.Items, 1)
	assert.Equal(t, "1", chats.Items[0].ID)

	forms, err := h.ListForms(ctx, "alice@x.com", model.HistoryFilter{}, "")
	require.NoError(t, err)
	assert.NotNil(t, forms.Items)
	assert.Empty(t, forms.Items)
}

func TestHistoryRecorder_WriteFailuresAreAbsorbed(t *testing.T) {
	store := &fakeHistory{writeErr: errors.New("disk full")}
	rec := metrics.NewInMemory()
	h := NewHistoryRecorder(store, rec, testLogger())

	assert.NotPanics(t, func() {
		h.RecordChat(context.Background(), &model.ChatExchange{ID: "1", Owner: "a@x.com"})
		h.RecordForm(context.Background(), &model.FormArtifact{ID: "f1", Owner: "a@x.com"})
	})

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.HistoryWriteFailures["chat"])
	assert.Equal(t, uint64(1), snap.HistoryWriteFailures["form"])
}

func TestHistoryRecorder_NilStore(t *testing.T) {
	rec := metrics.NewInMemory()
	h := NewHistoryRecorder(nil, rec, testLogger())

	h.RecordChat(context.Background(), &model.ChatExchange{ID: "1"})
	assert.Equal(t, uint64(1), rec.Snapshot().HistoryWriteFailures["chat"])

	_, err := h.ListChats(context.Background(), "a@x.com", model.HistoryFilter{}, "")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestHistoryRecorder_ListErrors(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tests := []struct {
		name    string
		owner   string
		filter  model.HistoryFilter
		listErr error
		wantErr error
	}{
		{"no_owner", "", model.HistoryFilter{}, nil, ErrUnauthenticated},
		{"inverted_range", "a@x.com", model.HistoryFilter{Start: &start, End: &end}, nil, ErrValidation},
		{"bad_cursor", "a@x.com", model.HistoryFilter{}, fmt.Errorf("wrap: %w", repository.ErrInvalidCursor), ErrValidation},
		{"store_down", "a@x.com", model.HistoryFilter{}, errors.New("connection refused"), ErrDependencyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistoryRecorder(&fakeHistory{listErr: tt.listErr}, nil, testLogger())

			_, err := h.ListChats(context.Background(), tt.owner, tt.filter, "")
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = h.ListForms(context.Background(), tt.owner, tt.filter, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
