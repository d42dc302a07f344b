package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/gemini"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

type answerEnv struct {
	resolver *AnswerResolver
	history  *fakeHistory
	rec      *metrics.InMemoryRecorder
}

func newAnswerEnv(gen Generator) *answerEnv {
	env := &answerEnv{history: &fakeHistory{}, rec: metrics.NewInMemory()}
	recorder := NewHistoryRecorder(env.history, env.rec, testLogger())
	env.resolver = NewAnswerResolver(gen, recorder, env.rec, testLogger())
	env.resolver.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return env
}

func TestAnswerResolver_Primary(t *testing.T) {
	gen := &fakeGenerator{outcome: gemini.Outcome{
		Text:     "A contract under the Indian Contract Act, 1872 is an agreement enforceable by law.",
		Duration: 200 * time.Millisecond,
	}}
	env := newAnswerEnv(gen)

	ex := env.resolver.Answer(context.Background(), testEmail, "What is a contract?", "en")

	assert.Equal(t, model.SourcePrimary, ex.Source)
	assert.Contains(t, ex.Answer, "Indian Contract Act")
	assert.Equal(t, "en", ex.Language)
	assert.NotEmpty(t, ex.ID)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "What is a contract?")

	require.Len(t, env.history.chats, 1)
	assert.Same(t, ex, env.history.chats[0])

	snap := env.rec.Snapshot()
	assert.Equal(t, uint64(1), snap.Answers["primary"])
	assert.Equal(t, uint64(1), snap.RemoteDurationCount)
}

// The fallback path must not depend on why the remote failed.
func TestAnswerResolver_FallbackIsFailureAgnostic(t *testing.T) {
	const question = "What is a contract?"

	baseline := newAnswerEnv(nil).resolver.Answer(context.Background(), testEmail, question, "en")
	require.Equal(t, model.SourceFallback, baseline.Source)
	require.NotEmpty(t, baseline.Answer)

	reasons := []gemini.Reason{
		gemini.ReasonMissingCredentials,
		gemini.ReasonTimeout,
		gemini.ReasonCanceled,
		gemini.ReasonStatus,
		gemini.ReasonMalformed,
		gemini.ReasonEmpty,
		gemini.ReasonTransport,
		gemini.ReasonCircuitOpen,
		gemini.ReasonThrottled,
	}
	for _, reason := range reasons {
		t.Run(string(reason), func(t *testing.T) {
			env := newAnswerEnv(failing(reason))

			ex := env.resolver.Answer(context.Background(), testEmail, question, "en")

			assert.Equal(t, model.SourceFallback, ex.Source)
			assert.Equal(t, baseline.Answer, ex.Answer)
			assert.Equal(t, uint64(1), env.rec.Snapshot().RemoteFailures[string(reason)])
			assert.Len(t, env.history.chats, 1)
		})
	}
}

func TestAnswerResolver_FallbackAnswerIsTopical(t *testing.T) {
	env := newAnswerEnv(failing(gemini.ReasonTimeout))

	const question = "What are my rights if my landlord keeps the rent deposit?"
	ex := env.resolver.Answer(context.Background(), testEmail, question, "en")

	assert.Equal(t, model.SourceFallback, ex.Source)
	assert.Equal(t, "tenancy", legal.FallbackTopic(question))
	assert.Contains(t, ex.Answer, strings.TrimSpace(legal.FallbackAnswer(question)))
}

func TestAnswerResolver_CanceledCallerStillGetsAnswer(t *testing.T) {
	env := newAnswerEnv(failing(gemini.ReasonCanceled))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := env.resolver.Answer(ctx, testEmail, "How do I file an FIR?", "en")

	assert.Equal(t, model.SourceFallback, ex.Source)
	assert.NotEmpty(t, ex.Answer)
	require.Len(t, env.history.chats, 1)
	assert.NoError(t, env.history.ctxErr, "history write must not inherit the canceled context")
}

func TestAnswerResolver_BlankQuestion(t *testing.T) {
	gen := &fakeGenerator{}
	env := newAnswerEnv(gen)

	ex := env.resolver.Answer(context.Background(), testEmail, "   ", "")

	assert.Equal(t, model.SourceFallback, ex.Source)
	assert.Equal(t, legal.FallbackAnswer(""), ex.Answer)
	assert.Empty(t, gen.prompts, "blank questions are not sent to the model")
}

func TestAnswerResolver_FallbackPanicYieldsUnableMessage(t *testing.T) {
	env := newAnswerEnv(failing(gemini.ReasonStatus))
	env.resolver.fallback = func(string) string { panic("guide table corrupted") }

	var ex *model.ChatExchange
	require.NotPanics(t, func() {
		ex = env.resolver.Answer(context.Background(), testEmail, "How do I file an FIR?", "or")
	})
	assert.Equal(t, model.SourceFallback, ex.Source)
	assert.Equal(t, legal.UnableMessage("or"), ex.Answer)
}

func TestAnswerResolver_BlankFallbackYieldsUnableMessage(t *testing.T) {
	env := newAnswerEnv(nil)
	env.resolver.fallback = func(string) string { return "  " }

	ex := env.resolver.Answer(context.Background(), testEmail, "How do I file an FIR?", "hi")
	assert.Equal(t, legal.UnableMessage("hi"), ex.Answer)
}

func TestAnswerResolver_HistoryFailureIsIgnored(t *testing.T) {
	gen := &fakeGenerator{outcome: gemini.Outcome{Text: "Under Section 2(h) of the Indian Contract Act a contract is an enforceable agreement."}}
	env := newAnswerEnv(gen)
	env.history.writeErr = errors.New("connection refused")

	ex := env.resolver.Answer(context.Background(), testEmail, "What is a contract?", "en")

	assert.Equal(t, model.SourcePrimary, ex.Source)
	assert.NotEmpty(t, ex.Answer)
	assert.Equal(t, uint64(1), env.rec.Snapshot().HistoryWriteFailures["chat"])
}

func TestAnswerResolver_DetectsLanguage(t *testing.T) {
	gen := &fakeGenerator{outcome: gemini.Outcome{Text: "भारतीय न्याय संहिता के अंतर्गत धारा 318 धोखाधड़ी से संबंधित है।"}}
	env := newAnswerEnv(gen)

	ex := env.resolver.Answer(context.Background(), testEmail, "धोखाधड़ी के लिए कानून क्या है?", "")

	assert.Equal(t, "hi", ex.Language)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, legal.Prompt("धोखाधड़ी के लिए कानून क्या है?", "hi"), gen.prompts[0])
}

func TestAnswerResolver_NoHistoryWithoutOwner(t *testing.T) {
	env := newAnswerEnv(nil)

	ex := env.resolver.Answer(context.Background(), "", "How do I file an FIR?", "en")

	assert.NotEmpty(t, ex.Answer)
	assert.Empty(t, env.history.chats)
}
