package scripts

import (
	"time"
	"unicode/utf8"
)

// Record is the outcome of resolving one title against the archive. NotFound
// outcomes are cached as well, so a title that failed once is never re-fetched
// by the same process.
type Record struct {
	Title  string `json:"title"`
	Found  bool   `json:"found"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
	// Transient marks a NotFound caused by a timeout, network failure or
	// upstream error rather than a missing page. Such records are never
	// written to the persistent cache.
	Transient bool      `json:"transient,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FoundRecord builds a record holding normalized script text.
func FoundRecord(title, url, text string, fetchedAt time.Time) Record {
	return Record{Title: title, Found: true, Text: text, URL: url, FetchedAt: fetchedAt}
}

// NotFoundRecord builds a record for a failed fetch. Reason is kept for
// diagnostics only.
func NotFoundRecord(title, url, reason string, fetchedAt time.Time) Record {
	return Record{Title: title, URL: url, Reason: reason, FetchedAt: fetchedAt}
}

// TransientRecord builds a NotFound record for a failure that may succeed on
// a later run.
func TransientRecord(title, url, reason string, fetchedAt time.Time) Record {
	record := NotFoundRecord(title, url, reason, fetchedAt)
	record.Transient = true
	return record
}

// Persistable reports whether the record may be written to durable storage.
func (r Record) Persistable() bool {
	return r.Found || !r.Transient
}

// Length reports the script length in characters.
func (r Record) Length() int {
	return utf8.RuneCountInString(r.Text)
}
