package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nyaysetu/nyaysetu/internal/archive"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

const (
	maxFormResponses     = 64
	maxFormResponseBytes = 4096
)

// FormService renders legal forms and records them for their owner.
type FormService struct {
	history *HistoryRecorder
	archive archive.Archive
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewFormService creates a new FormService. A nil archive keeps forms in the
// database only.
func NewFormService(history *HistoryRecorder, store archive.Archive, recorder metrics.Recorder, logger *slog.Logger) *FormService {
	if store == nil {
		store = archive.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FormService{
		history: history,
		archive: store,
		metrics: recorder,
		logger:  logger.With("component", "forms"),
		now:     time.Now,
	}
}

// Types lists the supported form types.
func (s *FormService) Types() []string {
	return legal.FormTypes()
}

// Fields describes the sections and fields of formType.
func (s *FormService) Fields(formType string) (*legal.FormTemplate, error) {
	tmpl, err := legal.Template(formType)
	if err != nil {
		return nil, formTypeError(err)
	}
	return tmpl, nil
}

// Generate renders formType from responses. Archiving and recording are best
// effort; the rendered form is returned either way.
func (s *FormService) Generate(ctx context.Context, owner, formType string, responses map[string]string) (*model.FormArtifact, error) {
	if len(responses) > maxFormResponses {
		return nil, validationError("at most %d responses allowed", maxFormResponses)
	}
	fields := make(map[string]string, len(responses))
	for k, v := range responses {
		if len(v) > maxFormResponseBytes {
			return nil, validationError("response %q longer than %d bytes", k, maxFormResponseBytes)
		}
		if v = strings.TrimSpace(v); v != "" {
			fields[k] = v
		}
	}

	now := s.now().UTC()
	rendered, err := legal.GenerateForm(formType, fields, now)
	if err != nil {
		return nil, formTypeError(err)
	}

	form := &model.FormArtifact{
		ID:            ulid.Make().String(),
		Owner:         owner,
		FormType:      rendered.Type,
		Title:         rendered.Title,
		Content:       rendered.Content,
		Fields:        fields,
		MissingFields: rendered.Missing,
		CreatedAt:     now,
	}
	if form.MissingFields == nil {
		form.MissingFields = []string{}
	}

	key, err := s.archive.Store(ctx, form)
	if err != nil {
		s.logger.WarnContext(ctx, "form not archived", "form_id", form.ID, "error", err)
	}
	form.ArchiveKey = key

	s.metrics.IncFormGenerated(form.FormType)
	if s.history != nil && owner != "" {
		s.history.RecordForm(ctx, form)
	}
	return form, nil
}

func formTypeError(err error) error {
	if errors.Is(err, legal.ErrUnknownFormType) {
		return fmt.Errorf("%w: %v (supported: %s)", ErrValidation, err, strings.Join(legal.FormTypes(), ", "))
	}
	return err
}
