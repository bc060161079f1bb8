package answer

import (
	"fmt"
	"strings"

	"scriptqa/internal/history"
)

// Mode selects how strictly the model is held to the script text.
type Mode string

const (
	// ModeStrict answers only from the script.
	ModeStrict Mode = "strict"
	// ModeConversational allows outside knowledge and opinion.
	ModeConversational Mode = "conversational"
)

// ParseMode maps a config value to a Mode, defaulting to strict.
func ParseMode(value string) Mode {
	if strings.EqualFold(strings.TrimSpace(value), string(ModeConversational)) {
		return ModeConversational
	}
	return ModeStrict
}

const strictInstruction = `You are a helpful movie script expert. Answer questions based ONLY on the provided movie script content.
Do not use any external knowledge. If the answer isn't in the script, say so.
Be concise and directly answer the user's question.
If the user asks about a character, focus on their actions, dialogue, and descriptions within the script up to the point relevant to their question.
If the user seems confused or asks for a recap, summarize the key plot points and character involvement from the script relevant to their question.
Avoid spoilers beyond what would be known at the point the user says they have reached.`

const conversationalInstruction = `You are a friendly movie expert chatting about a film with the user. Use the provided movie script as your primary source.
You may add outside knowledge about the film, its production, and its reception, and you may share opinions when asked.
Make clear when something comes from outside the script.
Be concise and directly answer the user's question.
Avoid spoilers beyond what would be known at the point the user says they have reached.`

const mapInstruction = `You are reading one excerpt of a longer movie script.
Extract everything in this excerpt that helps answer the question. Quote or paraphrase the relevant lines.
If the excerpt contains nothing relevant, reply with exactly: NOTHING RELEVANT`

const reduceInstruction = `You are a helpful movie script expert. You are given notes extracted from consecutive excerpts of a movie script, in script order.
Combine them into a single answer to the user's question. Do not mention the excerpts or the notes.`

// SystemPrompt returns the fixed instruction for mode.
func SystemPrompt(mode Mode) string {
	if mode == ModeConversational {
		return conversationalInstruction
	}
	return strictInstruction
}

// UserPrompt renders the script, prior turns (oldest first), and the new question.
func UserPrompt(script string, turns []history.Turn, question string) string {
	var b strings.Builder
	b.WriteString("Here is a movie script:\n--- SCRIPT START ---\n")
	b.WriteString(script)
	b.WriteString("\n--- SCRIPT END ---\n\n")
	writeTurns(&b, turns)
	b.WriteString("Based on this script, please answer the following question:\n")
	fmt.Fprintf(&b, "Question: %s\n\nAnswer:", question)
	return b.String()
}

func mapPrompt(excerpt string, index, total int, turns []history.Turn, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Script excerpt %d of %d:\n--- EXCERPT START ---\n", index, total)
	b.WriteString(excerpt)
	b.WriteString("\n--- EXCERPT END ---\n\n")
	writeTurns(&b, turns)
	fmt.Fprintf(&b, "Question: %s\n\nRelevant notes:", question)
	return b.String()
}

func reducePrompt(notes []string, turns []history.Turn, question string) string {
	var b strings.Builder
	for i, note := range notes {
		fmt.Fprintf(&b, "Notes from excerpt %d:\n%s\n\n", i+1, note)
	}
	writeTurns(&b, turns)
	fmt.Fprintf(&b, "Question: %s\n\nAnswer:", question)
	return b.String()
}

func writeTurns(b *strings.Builder, turns []history.Turn) {
	if len(turns) == 0 {
		return
	}
	b.WriteString("Conversation so far:\n")
	for _, turn := range turns {
		fmt.Fprintf(b, "Previous question: %s\nPrevious answer: %s\n", turn.Question, turn.Answer)
	}
	b.WriteString("\n")
}
