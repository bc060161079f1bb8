package api

import (
	"time"

	"scriptqa/internal/answer"
)

// FromResult converts an orchestrator result into its wire form.
func FromResult(result answer.Result) AskResponse {
	resp := AskResponse{
		MovieTitle:   result.Title,
		UserQuestion: result.Question,
		Answer:       result.Answer,
		Status:       string(result.Status),
	}
	if result.Status == answer.StatusInvalidInput {
		resp.Error = result.Answer
	}
	return resp
}

// FromConfirmation converts a history reset confirmation into its wire form.
func FromConfirmation(confirmation answer.Confirmation) ClearHistoryResponse {
	return ClearHistoryResponse{
		MovieTitle: confirmation.Title,
		Status:     string(confirmation.Status),
		Message:    confirmation.Message,
	}
}

// FormatTime renders t for API payloads. Zero times render empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
