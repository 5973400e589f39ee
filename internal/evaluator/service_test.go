package evaluator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

type stubCompleter struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.reply, s.err
}

type memoryCache struct {
	items  map[string]*evaluation.Judgment
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]*evaluation.Judgment{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (*evaluation.Judgment, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	j, ok := m.items[key]
	return j, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value *evaluation.Judgment) error {
	m.items[key] = value
	return nil
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Senior backend engineer, 5 years Go", "3 years Go, led a team")

	assert.Equal(t, strings.TrimSpace(p), p)
	assert.Contains(t, p, "=== DARBA APRAKSTS ===\nSenior backend engineer, 5 years Go")
	assert.Contains(t, p, "=== KANDIDĀTA CV ===\n3 years Go, led a team")
	for _, field := range []string{`"match_score"`, `"summary"`, `"strengths"`, `"missing_requirements"`, `"verdict"`} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, "strong match | possible match | not a match")
	assert.Equal(t, p, BuildPrompt("Senior backend engineer, 5 years Go", "3 years Go, led a team"))
}

func TestBuildPrompt_KeepsPercentSigns(t *testing.T) {
	p := BuildPrompt("100% remote", "Improved latency by 40%")
	assert.Contains(t, p, "100% remote")
	assert.Contains(t, p, "Improved latency by 40%")
}

func TestSavePrompt_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug", "prompt.md")

	require.NoError(t, SavePrompt(path, "first prompt"))
	require.NoError(t, SavePrompt(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSavePrompt_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, SavePrompt("", "ignored"))
}

func TestNewService_RequiresCompleter(t *testing.T) {
	_, err := NewService(Config{})
	assert.Error(t, err)
}

func TestEvaluate_Judgment(t *testing.T) {
	stub := &stubCompleter{reply: `{"match_score": 72, "summary": "ok", "strengths": ["Go expertise"], "missing_requirements": [], "verdict": "possible match"}`}
	svc, err := NewService(Config{Completer: stub})
	require.NoError(t, err)

	res := svc.Evaluate(context.Background(), "prompt")

	j, ok := res.(*evaluation.Judgment)
	require.True(t, ok, "expected judgment, got %T", res)
	assert.Equal(t, 72.0, *j.Score)
	assert.Equal(t, systemPrompt, stub.system)
	assert.Equal(t, "prompt", stub.user)
}

func TestEvaluate_MalformedKeepsRawText(t *testing.T) {
	raw := "Sorry, I cannot produce JSON {today"
	svc, err := NewService(Config{Completer: &stubCompleter{reply: raw}})
	require.NoError(t, err)

	res := svc.Evaluate(context.Background(), "prompt")

	f, ok := res.(*evaluation.Failure)
	require.True(t, ok, "expected failure, got %T", res)
	assert.Equal(t, evaluation.FailureMalformedResponse, f.Kind)
	assert.Equal(t, evaluation.InvalidJSONMarker, f.Error)
	assert.Equal(t, raw, f.RawResponse)
}

func TestEvaluate_ServiceFailure(t *testing.T) {
	svc, err := NewService(Config{Completer: &stubCompleter{err: errors.New("insufficient_quota")}})
	require.NoError(t, err)

	res := svc.Evaluate(context.Background(), "prompt")

	f, ok := res.(*evaluation.Failure)
	require.True(t, ok)
	assert.Equal(t, evaluation.FailureServiceCall, f.Kind)
	assert.Equal(t, "insufficient_quota", f.Error)
	assert.Empty(t, f.RawResponse)
}

func TestEvaluate_UsesCache(t *testing.T) {
	stub := &stubCompleter{reply: `{"match_score": 55, "verdict": "not a match"}`}
	cache := newMemoryCache()
	svc, err := NewService(Config{Completer: stub, Cache: cache, Model: "m", Temperature: 0.3})
	require.NoError(t, err)

	first := svc.Evaluate(context.Background(), "prompt")
	second := svc.Evaluate(context.Background(), "prompt")

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, first, second)
	assert.Len(t, cache.items, 1)
}

func TestEvaluate_DoesNotCacheFailures(t *testing.T) {
	stub := &stubCompleter{reply: "nope"}
	cache := newMemoryCache()
	svc, err := NewService(Config{Completer: stub, Cache: cache})
	require.NoError(t, err)

	svc.Evaluate(context.Background(), "prompt")
	svc.Evaluate(context.Background(), "prompt")

	assert.Equal(t, 2, stub.calls)
	assert.Empty(t, cache.items)
}

func TestEvaluate_CacheErrorFallsThrough(t *testing.T) {
	stub := &stubCompleter{reply: `{"match_score": 10}`}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc, err := NewService(Config{Completer: stub, Cache: cache})
	require.NoError(t, err)

	res := svc.Evaluate(context.Background(), "prompt")

	_, ok := res.(*evaluation.Judgment)
	assert.True(t, ok)
	assert.Equal(t, 1, stub.calls)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("m", 0.3, "sys", "prompt")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("m", 0.3, "sys", "prompt"))
	assert.NotEqual(t, a, Fingerprint("m", 0.7, "sys", "prompt"))
	assert.NotEqual(t, a, Fingerprint("other", 0.3, "sys", "prompt"))
	assert.NotEqual(t, a, Fingerprint("m", 0.3, "sys", "prompt2"))
}
