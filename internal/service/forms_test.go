package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/metrics"
)

func newFormEnv(archive *fakeArchive) (*FormService, *fakeHistory, *metrics.InMemoryRecorder) {
	store := &fakeHistory{}
	rec := metrics.NewInMemory()
	svc := NewFormService(NewHistoryRecorder(store, rec, testLogger()), archive, rec, testLogger())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC) }
	return svc, store, rec
}

func TestFormService_Generate(t *testing.T) {
	svc, store, rec := newFormEnv(&fakeArchive{key: "forms/abc/rti.txt"})

	form, err := svc.Generate(context.Background(), testEmail, "rti", map[string]string{
		"name":    "  Ramesh Kumar ",
		"address": "",
	})
	require.NoError(t, err)

	assert.Equal(t, "RTI", form.FormType)
	assert.NotEmpty(t, form.Title)
	assert.Contains(t, form.Content, "Full Name: Ramesh Kumar")
	assert.Equal(t, map[string]string{"name": "Ramesh Kumar"}, form.Fields)
	assert.Contains(t, form.MissingFields, "address")
	assert.NotContains(t, form.MissingFields, "name")
	assert.Equal(t, "forms/abc/rti.txt", form.ArchiveKey)
	assert.Equal(t, testEmail, form.Owner)

	require.Len(t, store.forms, 1)
	assert.Same(t, form, store.forms[0])
	assert.Equal(t, uint64(1), rec.Snapshot().FormsGenerated["RTI"])
}

func TestFormService_Generate_UnknownType(t *testing.T) {
	svc, store, _ := newFormEnv(nil)

	_, err := svc.Generate(context.Background(), testEmail, "PASSPORT", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.forms)
}

func TestFormService_Generate_ArchiveFailureIsIgnored(t *testing.T) {
	svc, store, _ := newFormEnv(&fakeArchive{err: errors.New("bucket missing")})

	form, err := svc.Generate(context.Background(), testEmail, "FIR", map[string]string{"name": "Sita"})
	require.NoError(t, err)
	assert.Empty(t, form.ArchiveKey)
	assert.Len(t, store.forms, 1)
}

func TestFormService_Generate_LimitsInput(t *testing.T) {
	svc, _, _ := newFormEnv(nil)

	big := make([]byte, maxFormResponseBytes+1)
	for i := range big {
		big[i] = 'x'
	}
	_, err := svc.Generate(context.Background(), testEmail, "FIR", map[string]string{"name": string(big)})
	assert.ErrorIs(t, err, ErrValidation)

	many := make(map[string]string, maxFormResponses+1)
	for i := 0; i <= maxFormResponses; i++ {
		many[string(rune('a'+i%26))+string(rune('a'+i/26))] = "v"
	}
	_, err = svc.Generate(context.Background(), testEmail, "FIR", many)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFormService_Fields(t *testing.T) {
	svc, _, _ := newFormEnv(nil)

	tmpl, err := svc.Fields("appeal")
	require.NoError(t, err)
	assert.Equal(t, "APPEAL", tmpl.Type)
	assert.NotEmpty(t, tmpl.Sections)

	_, err = svc.Fields("nope")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []string{"APPEAL", "COMPLAINT", "FIR", "RTI"}, svc.Types())
}
