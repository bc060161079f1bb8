package config

const (
	defaultConfigPath        = "~/.config/scriptqa/config.toml"
	defaultStateDir          = "~/.local/share/scriptqa"
	defaultLogDir            = "~/.local/share/scriptqa/logs"
	defaultTitlesFile        = "~/.local/share/scriptqa/movies.txt"
	defaultAPIBind           = "127.0.0.1:5000"
	defaultArchiveBaseURL    = "https://imsdb.com"
	defaultArchiveTimeout    = 20
	defaultArchiveUserAgent  = "scriptqa/dev"
	defaultMinScriptLength   = 500
	defaultCacheFileName     = "scripts.db"
	defaultHistoryMaxTurns   = 10
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-2.0-flash-001"
	defaultLLMReferer        = "https://github.com/scriptqa/scriptqa"
	defaultLLMTitle          = "scriptqa"
	defaultLLMTimeoutSeconds = 120
	defaultMaxPromptTokens   = 0
	defaultAnswerMode        = AnswerModeStrict
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 20
	defaultLogMaxBackups     = 5
	defaultLogMaxAgeDays     = 30
)

// Answer modes accepted by answer.mode.
const (
	AnswerModeStrict         = "strict"
	AnswerModeConversational = "conversational"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			TitlesFile: defaultTitlesFile,
			APIBind:    defaultAPIBind,
		},
		Archive: Archive{
			BaseURL:         defaultArchiveBaseURL,
			TimeoutSeconds:  defaultArchiveTimeout,
			UserAgent:       defaultArchiveUserAgent,
			MinScriptLength: defaultMinScriptLength,
		},
		History: History{
			MaxTurns: defaultHistoryMaxTurns,
		},
		LLM: LLM{
			BaseURL:         defaultLLMBaseURL,
			Model:           defaultLLMModel,
			Referer:         defaultLLMReferer,
			Title:           defaultLLMTitle,
			TimeoutSeconds:  defaultLLMTimeoutSeconds,
			MaxPromptTokens: defaultMaxPromptTokens,
		},
		Answer: Answer{
			Mode: defaultAnswerMode,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
