package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scriptqa/internal/services"
)

func TestClientAskSendsSessionHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get(HeaderSessionID); got != "cli-session" {
			t.Errorf("unexpected session header %q", got)
		}
		var req AskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(AskResponse{
			MovieTitle:   req.MovieTitle,
			UserQuestion: req.UserQuestion,
			Answer:       "Cobb is the protagonist.",
			Status:       "ok",
		})
	}))
	defer server.Close()

	client := NewClient(strings.TrimPrefix(server.URL, "http://"), "cli-session")
	resp, err := client.Ask(context.Background(), "Inception", "Who is Cobb?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "Cobb is the protagonist." || resp.MovieTitle != "Inception" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestClientAskUpstreamFailureStillDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(AskResponse{Answer: "An error occurred", Status: "upstream_failure"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, "").Ask(context.Background(), "Inception", "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Status != "upstream_failure" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
}

func TestClientAskInvalidInputReturnsValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(AskResponse{Status: "invalid_input", Error: "Movie title and question are required."})
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Ask(context.Background(), "", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientSuggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "the m" {
			t.Errorf("unexpected query %q", got)
		}
		_ = json.NewEncoder(w).Encode([]string{"The Matrix"})
	}))
	defer server.Close()

	got, err := NewClient(server.URL, "").Suggest(context.Background(), "the m")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0] != "The Matrix" {
		t.Fatalf("unexpected suggestions %v", got)
	}
}

func TestClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewClient(addr, "").Status(context.Background())
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
