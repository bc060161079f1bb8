package main

import (
	"context"

	"scriptqa/internal/answer"
	"scriptqa/internal/api"
)

// backend is the question answering surface shared by the in-process
// pipeline and a remote server.
type backend interface {
	Ask(ctx context.Context, title, question string) (api.AskResponse, error)
	ClearHistory(ctx context.Context, title string) (api.ClearHistoryResponse, error)
	Suggest(ctx context.Context, query string) ([]string, error)
}

const localSessionID = "cli"

type localBackend struct {
	orchestrator *answer.Orchestrator
	sessionID    string
}

func (b localBackend) Ask(ctx context.Context, title, question string) (api.AskResponse, error) {
	result := b.orchestrator.Answer(ctx, answer.Request{
		Title:     title,
		Question:  question,
		SessionID: b.sessionID,
	})
	return api.FromResult(result), nil
}

func (b localBackend) ClearHistory(ctx context.Context, title string) (api.ClearHistoryResponse, error) {
	return api.FromConfirmation(b.orchestrator.ClearHistory(ctx, title, b.sessionID)), nil
}

func (b localBackend) Suggest(_ context.Context, query string) ([]string, error) {
	return b.orchestrator.Suggest(query), nil
}

// backend returns the remote client when --server is set, otherwise the
// in-process pipeline.
func (c *commandContext) backend(ctx context.Context) (backend, error) {
	if client, ok := c.remote(); ok {
		return client, nil
	}
	app, err := c.ensureApp(ctx)
	if err != nil {
		return nil, err
	}
	session := localSessionID
	if c.sessionFlag != nil && *c.sessionFlag != "" {
		session = *c.sessionFlag
	}
	return localBackend{orchestrator: app.orchestrator, sessionID: session}, nil
}
