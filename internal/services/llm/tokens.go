package llm

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter measures and splits text using a BPE encoding close to what
// OpenAI-compatible chat models use. Counts are estimates for other providers.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter loads the o200k_base encoding.
func NewTokenCounter() (*TokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &TokenCounter{codec: codec}, nil
}

// Count returns the number of tokens in text.
func (t *TokenCounter) Count(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return len(ids), nil
}

// Split breaks text into consecutive pieces of at most maxTokens tokens each.
// Joining the pieces reproduces the input modulo surrounding whitespace.
func (t *TokenCounter) Split(text string, maxTokens int) ([]string, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("split tokens: max tokens must be positive, got %d", maxTokens)
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("split tokens: %w", err)
	}
	chunks := make([]string, 0, len(ids)/maxTokens+1)
	for start := 0; start < len(ids); start += maxTokens {
		end := min(start+maxTokens, len(ids))
		piece, err := t.codec.Decode(ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("split tokens: decode chunk: %w", err)
		}
		if piece = strings.TrimSpace(piece); piece != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks, nil
}
