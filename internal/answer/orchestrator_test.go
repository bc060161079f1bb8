package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scriptqa/internal/history"
	"scriptqa/internal/scripts"
	"scriptqa/internal/services"
)

type fakeResolver struct {
	records map[string]scripts.Record
	calls   int
}

func (f *fakeResolver) Resolve(_ context.Context, title string) scripts.Record {
	f.calls++
	if record, ok := f.records[scripts.CacheKey(title)]; ok {
		return record
	}
	return scripts.NotFoundRecord(title, "", "missing", time.Now())
}

type completerCall struct {
	system string
	user   string
}

type fakeCompleter struct {
	mu       sync.Mutex
	calls    []completerCall
	response func(system, user string) (string, error)
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, completerCall{system: system, user: user})
	f.mu.Unlock()
	return f.response(system, user)
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixed(answer string) func(string, string) (string, error) {
	return func(string, string) (string, error) { return answer, nil }
}

func scriptOfLength(n int) string {
	return strings.Repeat("a", n)
}

func newResolver(title, text string) *fakeResolver {
	return &fakeResolver{records: map[string]scripts.Record{
		scripts.CacheKey(title): scripts.FoundRecord(title, "", text, time.Now()),
	}}
}

func TestAnswerEndToEnd(t *testing.T) {
	resolver := newResolver("Inception", scriptOfLength(2000))
	completer := &fakeCompleter{response: fixed("Cobb is the protagonist.")}
	store := history.NewStore(10)
	o := New(resolver, store, completer, nil, Options{MinScriptLength: DefaultMinScriptLength})

	result := o.Answer(context.Background(), Request{Title: "Inception", Question: "Who is Cobb?", SessionID: "s1"})

	require.Equal(t, Result{
		Title:    "Inception",
		Question: "Who is Cobb?",
		Answer:   "Cobb is the protagonist.",
		Status:   StatusOK,
	}, result)
	require.Equal(t, []history.Turn{{Question: "Who is Cobb?", Answer: "Cobb is the protagonist."}}, store.Get("s1", "inception"))
	require.Equal(t, 1, completer.callCount())
	require.Equal(t, SystemPrompt(ModeStrict), completer.calls[0].system)
	require.Contains(t, completer.calls[0].user, scriptOfLength(2000))
	require.Contains(t, completer.calls[0].user, "Question: Who is Cobb?")
}

func TestAnswerRejectsMissingInput(t *testing.T) {
	resolver := newResolver("Inception", scriptOfLength(2000))
	completer := &fakeCompleter{response: fixed("unused")}
	store := history.NewStore(10)
	o := New(resolver, store, completer, nil, Options{})

	for _, req := range []Request{
		{Title: "", Question: "Who?"},
		{Title: "Inception", Question: "   "},
		{Title: " ", Question: ""},
	} {
		result := o.Answer(context.Background(), req)
		require.Equal(t, StatusInvalidInput, result.Status)
		require.Equal(t, "Movie title and question are required.", result.Answer)
	}
	require.Zero(t, resolver.calls)
	require.Zero(t, completer.callCount())
	require.Zero(t, store.Len())
}

func TestAnswerMinimumScriptLengthBoundary(t *testing.T) {
	completer := &fakeCompleter{response: fixed("ok")}

	short := New(newResolver("Stub", scriptOfLength(499)), nil, completer, nil, Options{MinScriptLength: 500})
	result := short.Answer(context.Background(), Request{Title: "Stub", Question: "What happens?"})
	require.Equal(t, StatusScriptUnavailable, result.Status)
	require.Equal(t, "The script found for 'Stub' appears to be incomplete or a placeholder. Please try a different movie or check the source.", result.Answer)
	require.Zero(t, completer.callCount())

	exact := New(newResolver("Exact", scriptOfLength(500)), nil, completer, nil, Options{MinScriptLength: 500})
	result = exact.Answer(context.Background(), Request{Title: "Exact", Question: "What happens?"})
	require.Equal(t, StatusOK, result.Status)
	require.Equal(t, 1, completer.callCount())
}

func TestAnswerScriptNotFound(t *testing.T) {
	completer := &fakeCompleter{response: fixed("unused")}
	o := New(&fakeResolver{}, nil, completer, nil, Options{})

	result := o.Answer(context.Background(), Request{Title: "Nonexistent Film", Question: "Who?"})
	require.Equal(t, StatusScriptUnavailable, result.Status)
	require.Equal(t, "Nonexistent Film", result.Title)
	require.Equal(t, "Who?", result.Question)
	require.Equal(t, "Could not find or scrape the script for 'Nonexistent Film'. Please check the movie title and try again.", result.Answer)
	require.Zero(t, completer.callCount())
}

func TestAnswerUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{response: func(string, string) (string, error) {
		return "", services.Wrap(services.ErrUpstream, "llm", "complete", "", errors.New("quota exceeded"))
	}}
	store := history.NewStore(10)
	o := New(newResolver("Inception", scriptOfLength(2000)), store, completer, nil, Options{})

	result := o.Answer(context.Background(), Request{Title: "Inception", Question: "Who is Cobb?", SessionID: "s1"})
	require.Equal(t, StatusUpstreamFailure, result.Status)
	require.True(t, strings.HasPrefix(result.Answer, "An error occurred while trying to answer your question using the script. Error: "))
	require.Contains(t, result.Answer, "quota exceeded")
	require.Empty(t, store.Get("s1", "Inception"))
}

func TestAnswerNotConfiguredShortCircuits(t *testing.T) {
	resolver := newResolver("Inception", scriptOfLength(2000))
	o := New(resolver, nil, nil, nil, Options{})
	require.False(t, o.Configured())

	result := o.Answer(context.Background(), Request{Title: "Inception", Question: "Who is Cobb?"})
	require.Equal(t, StatusNotConfigured, result.Status)
	require.Equal(t, "Error: AI question answering service not available. Please check server logs.", result.Answer)
	require.Zero(t, resolver.calls)
}

func TestAnswerReplaysHistoryOldestFirst(t *testing.T) {
	completer := &fakeCompleter{}
	n := 0
	completer.response = func(string, string) (string, error) {
		n++
		return fmt.Sprintf("answer %d", n), nil
	}
	o := New(newResolver("Alien", scriptOfLength(800)), history.NewStore(10), completer, nil, Options{})

	ctx := context.Background()
	o.Answer(ctx, Request{Title: "Alien", Question: "first?", SessionID: "s"})
	o.Answer(ctx, Request{Title: "ALIEN", Question: "second?", SessionID: "s"})
	o.Answer(ctx, Request{Title: "alien", Question: "third?", SessionID: "s"})

	last := completer.calls[2].user
	first := strings.Index(last, "Previous question: first?\nPrevious answer: answer 1")
	second := strings.Index(last, "Previous question: second?\nPrevious answer: answer 2")
	question := strings.Index(last, "Question: third?")
	script := strings.Index(last, scriptOfLength(800))
	require.True(t, script >= 0 && first > script && second > first && question > second, "prompt order wrong:\n%s", last)

	require.NotContains(t, completer.calls[0].user, "Previous question:")
	require.Len(t, o.History("s", "Alien"), 3)
}

func TestAnswerHistoryScopedBySession(t *testing.T) {
	completer := &fakeCompleter{response: fixed("ok")}
	o := New(newResolver("Alien", scriptOfLength(800)), history.NewStore(10), completer, nil, Options{})

	o.Answer(context.Background(), Request{Title: "Alien", Question: "q1", SessionID: "a"})
	o.Answer(context.Background(), Request{Title: "Alien", Question: "q2", SessionID: "b"})
	require.NotContains(t, completer.calls[1].user, "Previous question:")
}

func TestConversationalMode(t *testing.T) {
	completer := &fakeCompleter{response: fixed("ok")}
	o := New(newResolver("Alien", scriptOfLength(800)), nil, completer, nil, Options{Mode: ParseMode("Conversational")})
	o.Answer(context.Background(), Request{Title: "Alien", Question: "Is it good?"})
	require.Equal(t, SystemPrompt(ModeConversational), completer.calls[0].system)
	require.Equal(t, ModeStrict, ParseMode("anything else"))
}

func TestClearHistory(t *testing.T) {
	completer := &fakeCompleter{response: fixed("ok")}
	store := history.NewStore(10)
	o := New(newResolver("Alien", scriptOfLength(800)), store, completer, nil, Options{})
	ctx := context.Background()

	confirmation := o.ClearHistory(ctx, "Never Asked", "s")
	require.Equal(t, StatusOK, confirmation.Status)

	o.Answer(ctx, Request{Title: "Alien", Question: "q", SessionID: "s"})
	confirmation = o.ClearHistory(ctx, " alien ", "s")
	require.Equal(t, StatusOK, confirmation.Status)
	require.Equal(t, "alien", confirmation.Title)
	require.Empty(t, store.Get("s", "Alien"))

	confirmation = o.ClearHistory(ctx, "  ", "s")
	require.Equal(t, StatusInvalidInput, confirmation.Status)
}

type staticSuggester []string

func (s staticSuggester) Suggest(string) []string { return s }

func TestSuggestDelegates(t *testing.T) {
	o := New(&fakeResolver{}, nil, nil, staticSuggester{"Inception"}, Options{})
	require.Equal(t, []string{"Inception"}, o.Suggest("in"))

	bare := New(&fakeResolver{}, nil, nil, nil, Options{})
	got := bare.Suggest("in")
	require.NotNil(t, got)
	require.Empty(t, got)
}
