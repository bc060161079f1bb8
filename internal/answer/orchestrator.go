package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scriptqa/internal/history"
	"scriptqa/internal/logging"
	"scriptqa/internal/scripts"
	"scriptqa/internal/services"
)

// Status classifies the outcome of an orchestrator call.
type Status string

const (
	StatusOK                Status = "ok"
	StatusInvalidInput      Status = "invalid_input"
	StatusScriptUnavailable Status = "script_unavailable"
	StatusUpstreamFailure   Status = "upstream_failure"
	StatusNotConfigured     Status = "not_configured"
)

// DefaultMinScriptLength is the shortest script, in characters, worth asking about.
const DefaultMinScriptLength = 500

const (
	msgInputRequired     = "Movie title and question are required."
	msgTitleRequired     = "Movie title is required."
	msgNotConfigured     = "Error: AI question answering service not available. Please check server logs."
	msgNotFoundFmt       = "Could not find or scrape the script for '%s'. Please check the movie title and try again."
	msgPlaceholderFmt    = "The script found for '%s' appears to be incomplete or a placeholder. Please try a different movie or check the source."
	msgUpstreamFmt       = "An error occurred while trying to answer your question using the script. Error: %s"
	msgHistoryClearedFmt = "Conversation history cleared for '%s'."
)

// Completer produces a model response for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ScriptResolver returns the script record for a raw title.
type ScriptResolver interface {
	Resolve(ctx context.Context, title string) scripts.Record
}

// Suggester completes partial titles.
type Suggester interface {
	Suggest(query string) []string
}

// Request is one question about one movie.
type Request struct {
	Title     string
	Question  string
	SessionID string
}

// Result always carries a caller-facing answer, even on failure.
type Result struct {
	Title    string
	Question string
	Answer   string
	Status   Status
}

// Confirmation reports the outcome of a history reset.
type Confirmation struct {
	Title   string
	Status  Status
	Message string
}

// Options tunes orchestrator behaviour.
type Options struct {
	// Mode defaults to ModeStrict.
	Mode            Mode
	// MinScriptLength rejects shorter scripts as placeholders.
	MinScriptLength int
	// MaxPromptTokens enables excerpt-by-excerpt answering for prompts above
	// this size. Zero sends every script in a single call.
	MaxPromptTokens int
	Tokens          TokenCounter
	Logger          *slog.Logger
}

// Orchestrator answers questions by combining script text, conversation
// history, and an LLM completion.
type Orchestrator struct {
	resolver        ScriptResolver
	history         *history.Store
	completer       Completer
	suggester       Suggester
	mode            Mode
	minScriptLength int
	maxPromptTokens int
	tokens          TokenCounter
	logger          *slog.Logger
}

// New wires an orchestrator. A nil completer marks the question answering
// service as not configured: every Answer call short-circuits without
// touching the script archive or the model.
func New(resolver ScriptResolver, store *history.Store, completer Completer, suggester Suggester, opts Options) *Orchestrator {
	if store == nil {
		store = history.NewStore(history.DefaultMaxTurns)
	}
	minLength := max(opts.MinScriptLength, 0)
	mode := opts.Mode
	if mode == "" {
		mode = ModeStrict
	}
	return &Orchestrator{
		resolver:        resolver,
		history:         store,
		completer:       completer,
		suggester:       suggester,
		mode:            mode,
		minScriptLength: minLength,
		maxPromptTokens: opts.MaxPromptTokens,
		tokens:          opts.Tokens,
		logger:          logging.NewComponentLogger(opts.Logger, "answer"),
	}
}

// Configured reports whether a completion backend is available.
func (o *Orchestrator) Configured() bool {
	return o.completer != nil
}

// Answer runs one question through the pipeline. It never returns an error:
// every failure is mapped to a Status and a caller-facing message.
func (o *Orchestrator) Answer(ctx context.Context, req Request) Result {
	title := strings.TrimSpace(req.Title)
	question := strings.TrimSpace(req.Question)
	result := Result{Title: title, Question: question}

	if title == "" || question == "" {
		result.Status = StatusInvalidInput
		result.Answer = msgInputRequired
		return result
	}

	ctx = services.WithSessionID(ctx, req.SessionID)
	logger := logging.WithContext(ctx, o.logger).With(logging.String(logging.FieldTitle, title))

	if o.completer == nil {
		logging.ErrorWithContext(logger, "question answering service not configured", "answer_not_configured",
			logging.String(logging.FieldErrorHint, "set llm.api_key or OPENROUTER_API_KEY and restart"))
		result.Status = StatusNotConfigured
		result.Answer = msgNotConfigured
		return result
	}

	record := o.resolver.Resolve(ctx, title)
	if !record.Found {
		logger.Info("script unavailable",
			logging.String(logging.FieldEventType, "script_not_found"),
			logging.String("reason", record.Reason))
		result.Status = StatusScriptUnavailable
		result.Answer = fmt.Sprintf(msgNotFoundFmt, title)
		return result
	}
	if length := record.Length(); length < o.minScriptLength {
		logging.WarnWithContext(logger, "script too short", "script_placeholder",
			logging.Int("length", length),
			logging.Int("min_length", o.minScriptLength),
			logging.String(logging.FieldErrorHint, "the archive page is likely a stub"),
			logging.String(logging.FieldImpact, "question not answered"))
		result.Status = StatusScriptUnavailable
		result.Answer = fmt.Sprintf(msgPlaceholderFmt, title)
		return result
	}

	turns := o.history.Get(req.SessionID, title)
	started := time.Now()
	response, err := o.complete(ctx, record.Text, turns, question)
	if err != nil {
		logging.ErrorWithContext(logger, "answer generation failed", "answer_failed",
			logging.Error(err),
			logging.Int("history_turns", len(turns)),
			logging.Duration("elapsed", time.Since(started)),
			logging.String(logging.FieldErrorHint, "check llm connectivity, quota, and model name"))
		result.Status = StatusUpstreamFailure
		result.Answer = fmt.Sprintf(msgUpstreamFmt, services.Summary(err))
		return result
	}

	o.history.Append(req.SessionID, title, history.Turn{Question: question, Answer: response})
	logger.Info("question answered",
		logging.String(logging.FieldEventType, "answer_generated"),
		logging.Int("script_length", record.Length()),
		logging.Int("history_turns", len(turns)),
		logging.Duration("elapsed", time.Since(started)))

	result.Status = StatusOK
	result.Answer = response
	return result
}

func (o *Orchestrator) complete(ctx context.Context, script string, turns []history.Turn, question string) (string, error) {
	systemPrompt := SystemPrompt(o.mode)
	userPrompt := UserPrompt(script, turns, question)

	chunk, err := o.needsChunking(systemPrompt, userPrompt)
	if err != nil {
		// Counting is an optimisation; fall back to one call.
		logging.WithContext(ctx, o.logger).Debug("token count failed", logging.Error(err))
	}
	if chunk {
		return o.answerChunked(ctx, script, turns, question)
	}
	return o.completer.Complete(ctx, systemPrompt, userPrompt)
}

// ClearHistory forgets the session's conversation about title. Clearing an
// empty conversation succeeds.
func (o *Orchestrator) ClearHistory(ctx context.Context, title, sessionID string) Confirmation {
	title = strings.TrimSpace(title)
	if title == "" {
		return Confirmation{Status: StatusInvalidInput, Message: msgTitleRequired}
	}
	o.history.Clear(sessionID, title)
	logging.WithContext(services.WithSessionID(ctx, sessionID), o.logger).Debug("conversation cleared",
		logging.String(logging.FieldTitle, title))
	return Confirmation{
		Title:   title,
		Status:  StatusOK,
		Message: fmt.Sprintf(msgHistoryClearedFmt, title),
	}
}

// Suggest returns title completions for query.
func (o *Orchestrator) Suggest(query string) []string {
	if o.suggester == nil {
		return []string{}
	}
	return o.suggester.Suggest(query)
}

// History exposes the conversation turns for a session and title.
func (o *Orchestrator) History(sessionID, title string) []history.Turn {
	return o.history.Get(sessionID, title)
}
