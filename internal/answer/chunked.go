package answer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"scriptqa/internal/history"
	"scriptqa/internal/logging"
)

const (
	nothingRelevant  = "NOTHING RELEVANT"
	mapConcurrency   = 4
	minExcerptTokens = 256
)

// TokenCounter measures and splits prompt text.
type TokenCounter interface {
	Count(text string) (int, error)
	Split(text string, maxTokens int) ([]string, error)
}

// needsChunking reports whether the single-call prompt exceeds the token budget.
func (o *Orchestrator) needsChunking(systemPrompt, userPrompt string) (bool, error) {
	if o.maxPromptTokens <= 0 || o.tokens == nil {
		return false, nil
	}
	n, err := o.tokens.Count(systemPrompt + "\n" + userPrompt)
	if err != nil {
		return false, err
	}
	return n > o.maxPromptTokens, nil
}

// answerChunked asks the question of each script excerpt, then combines the
// per-excerpt notes in one final call. Any failed call fails the whole answer.
func (o *Orchestrator) answerChunked(ctx context.Context, script string, turns []history.Turn, question string) (string, error) {
	overhead, err := o.tokens.Count(mapInstruction + "\n" + mapPrompt("", 0, 0, turns, question))
	if err != nil {
		return "", err
	}
	budget := max(o.maxPromptTokens-overhead, minExcerptTokens)
	excerpts, err := o.tokens.Split(script, budget)
	if err != nil {
		return "", err
	}

	logger := logging.WithContext(ctx, o.logger)
	logger.Info("answering over script excerpts",
		logging.String(logging.FieldEventType, "answer_chunked"),
		logging.Int("excerpt_count", len(excerpts)),
		logging.Int("excerpt_tokens", budget))

	notes := make([]string, len(excerpts))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(mapConcurrency)
	for i, excerpt := range excerpts {
		group.Go(func() error {
			note, err := o.completer.Complete(groupCtx, mapInstruction, mapPrompt(excerpt, i+1, len(excerpts), turns, question))
			if err != nil {
				return fmt.Errorf("excerpt %d of %d: %w", i+1, len(excerpts), err)
			}
			notes[i] = note
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	relevant := make([]string, 0, len(notes))
	for _, note := range notes {
		if strings.EqualFold(strings.TrimSpace(note), nothingRelevant) {
			continue
		}
		relevant = append(relevant, note)
	}
	if len(relevant) == 0 {
		relevant = []string{nothingRelevant}
	}
	return o.completer.Complete(ctx, reduceInstruction+"\n\n"+SystemPrompt(o.mode), reducePrompt(relevant, turns, question))
}
