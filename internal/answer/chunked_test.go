package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"scriptqa/internal/history"
)

// runeCounter counts one token per rune and splits on rune boundaries.
type runeCounter struct{}

func (runeCounter) Count(text string) (int, error) {
	return utf8.RuneCountInString(text), nil
}

func (runeCounter) Split(text string, maxTokens int) ([]string, error) {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += maxTokens {
		end := min(start+maxTokens, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out, nil
}

func TestAnswerChunksLongScripts(t *testing.T) {
	script := strings.Repeat("x", 3000)
	completer := &fakeCompleter{response: func(system, user string) (string, error) {
		if system == mapInstruction {
			return "note", nil
		}
		return "combined answer", nil
	}}
	store := history.NewStore(10)
	o := New(newResolver("Long", script), store, completer, nil, Options{
		MinScriptLength: 500,
		MaxPromptTokens: 2000,
		Tokens:          runeCounter{},
	})

	result := o.Answer(context.Background(), Request{Title: "Long", Question: "What happens?", SessionID: "s"})
	require.Equal(t, StatusOK, result.Status)
	require.Equal(t, "combined answer", result.Answer)

	var maps, reduces int
	for _, call := range completer.calls {
		if call.system == mapInstruction {
			maps++
		} else {
			reduces++
			require.Contains(t, call.user, "Notes from excerpt 1:\nnote")
		}
	}
	require.GreaterOrEqual(t, maps, 2)
	require.Equal(t, 1, reduces)
	require.Len(t, store.Get("s", "Long"), 1)
}

func TestAnswerChunkFailureIsUpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{response: func(system, user string) (string, error) {
		if system == mapInstruction {
			return "", errors.New("rate limited")
		}
		return "unused", nil
	}}
	o := New(newResolver("Long", strings.Repeat("x", 3000)), nil, completer, nil, Options{
		MaxPromptTokens: 2000,
		Tokens:          runeCounter{},
	})

	result := o.Answer(context.Background(), Request{Title: "Long", Question: "What happens?"})
	require.Equal(t, StatusUpstreamFailure, result.Status)
	require.Contains(t, result.Answer, "rate limited")
}

func TestAnswerSkipsChunkingWithinBudget(t *testing.T) {
	completer := &fakeCompleter{response: fixed("single")}
	o := New(newResolver("Short", strings.Repeat("x", 600)), nil, completer, nil, Options{
		MaxPromptTokens: 100000,
		Tokens:          runeCounter{},
	})

	result := o.Answer(context.Background(), Request{Title: "Short", Question: "What happens?"})
	require.Equal(t, "single", result.Answer)
	require.Equal(t, 1, completer.callCount())
}
