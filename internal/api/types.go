package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Header names shared by the server and client.
const (
	HeaderSessionID = "X-Session-ID"
	HeaderRequestID = "X-Request-ID"
)

// SessionCookieName carries the conversation session for browser clients.
const SessionCookieName = "scriptqa_session"

// AskRequest is the body of POST /ask.
type AskRequest struct {
	MovieTitle   string `json:"movie_title"`
	UserQuestion string `json:"user_question"`
}

// AskResponse echoes the request alongside the answer or failure message.
// Error is set only for rejected input.
type AskResponse struct {
	MovieTitle   string `json:"movie_title"`
	UserQuestion string `json:"user_question"`
	Answer       string `json:"answer"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// ClearHistoryRequest is the body of POST /clear_history.
type ClearHistoryRequest struct {
	MovieTitle string `json:"movie_title"`
}

// ClearHistoryResponse confirms a conversation reset.
type ClearHistoryResponse struct {
	MovieTitle string `json:"movie_title"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServerStatus describes the running server.
type ServerStatus struct {
	Running       bool   `json:"running"`
	PID           int    `json:"pid"`
	StartedAt     string `json:"started_at,omitempty"`
	LLMConfigured bool   `json:"llm_configured"`
	Model         string `json:"model,omitempty"`
	AnswerMode    string `json:"answer_mode"`
	CachedScripts int    `json:"cached_scripts"`
	CachePath     string `json:"cache_path,omitempty"`
	TitlesLoaded  int    `json:"titles_loaded"`
	LockFilePath  string `json:"lock_file_path"`
}
