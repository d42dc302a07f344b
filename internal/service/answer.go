package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nyaysetu/nyaysetu/internal/gemini"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

// AnswerResolver answers legal questions. The remote model is tried once;
// any failure routes to the offline guides. Answer never fails.
type AnswerResolver struct {
	generator Generator
	history   *HistoryRecorder
	metrics   metrics.Recorder
	logger    *slog.Logger
	fallback  func(question string) string
	now       func() time.Time
}

// NewAnswerResolver creates a new AnswerResolver. A nil generator answers
// every question offline. A nil history skips recording.
func NewAnswerResolver(generator Generator, history *HistoryRecorder, recorder metrics.Recorder, logger *slog.Logger) *AnswerResolver {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerResolver{
		generator: generator,
		history:   history,
		metrics:   recorder,
		logger:    logger.With("component", "answer"),
		fallback:  legal.FallbackAnswer,
		now:       time.Now,
	}
}

// Answer resolves question for owner in language (blank to detect it) and
// records the exchange. Canceling ctx abandons the remote call only; the
// offline answer is still produced.
func (r *AnswerResolver) Answer(ctx context.Context, owner, question, language string) *model.ChatExchange {
	question = strings.TrimSpace(question)
	lang := legal.ResolveLanguage(language, question)

	text, source := r.resolve(ctx, question, lang)

	ex := &model.ChatExchange{
		ID:        ulid.Make().String(),
		Owner:     owner,
		Question:  question,
		Language:  lang,
		Answer:    text,
		Source:    source,
		CreatedAt: r.now().UTC(),
	}

	r.metrics.IncAnswer(string(source))
	if r.history != nil && owner != "" {
		r.history.RecordChat(ctx, ex)
	}
	return ex
}

func (r *AnswerResolver) resolve(ctx context.Context, question, lang string) (string, model.AnswerSource) {
	// Nothing to ask the model, and the policy would turn the
	// clarification prompt into a refusal.
	if question == "" {
		text, _ := r.offline(question, lang)
		return text, model.SourceFallback
	}

	if r.generator != nil {
		outcome := r.generator.Generate(ctx, legal.Prompt(question, lang))
		if outcome.OK() {
			r.metrics.ObserveRemoteDuration(outcome.Duration)
			return legal.ApplyPolicy(outcome.Text, question, lang), model.SourcePrimary
		}
		r.noteFailure(ctx, outcome)
	}

	text, ok := r.offline(question, lang)
	if !ok {
		// The localized apology goes out verbatim.
		return text, model.SourceFallback
	}
	return legal.ApplyPolicy(text, question, lang), model.SourceFallback
}

func (r *AnswerResolver) noteFailure(ctx context.Context, outcome gemini.Outcome) {
	f := outcome.Failure
	r.metrics.IncRemoteFailure(string(f.Reason))

	switch f.Reason {
	case gemini.ReasonMissingCredentials:
		r.logger.DebugContext(ctx, "remote model not configured, answering offline")
	case gemini.ReasonCanceled:
		r.logger.InfoContext(ctx, "remote call abandoned by caller, answering offline")
	default:
		r.metrics.ObserveRemoteDuration(outcome.Duration)
		r.logger.WarnContext(ctx, "remote answer unavailable, answering offline",
			"reason", string(f.Reason),
			"status", f.StatusCode,
			"duration", outcome.Duration,
			"error", f.Err,
		)
	}
}

// offline never panics out and never returns blank text. ok is false when
// only the "unable to answer" message could be produced.
func (r *AnswerResolver) offline(question, lang string) (text string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("offline answer failed", "panic", rec)
			text, ok = legal.UnableMessage(lang), false
		}
	}()

	text = r.fallback(question)
	if strings.TrimSpace(text) == "" {
		return legal.UnableMessage(lang), false
	}
	return text, true
}
