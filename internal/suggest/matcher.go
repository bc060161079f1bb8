// Package suggest offers title completions from the known movie list.
package suggest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"

	"scriptqa/internal/logging"
)

// Limit is the maximum number of suggestions returned.
const Limit = 5

// Matcher performs case-insensitive substring matching over an ordered title
// list. It is immutable after construction and safe for concurrent use.
type Matcher struct {
	titles []string
	folded []string
}

// New builds a matcher over titles, preserving their order.
func New(titles []string) *Matcher {
	caser := cases.Fold()
	m := &Matcher{
		titles: make([]string, 0, len(titles)),
		folded: make([]string, 0, len(titles)),
	}
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		m.titles = append(m.titles, title)
		m.folded = append(m.folded, caser.String(title))
	}
	return m
}

// Parse reads newline-delimited titles, trimming each and skipping blanks.
func Parse(r io.Reader) (*Matcher, error) {
	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			titles = append(titles, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	return New(titles), nil
}

// Load reads the title list at path. A missing file yields an empty matcher
// and a warning rather than an error.
func Load(path string, logger *slog.Logger) (*Matcher, error) {
	logger = logging.NewComponentLogger(logger, "suggest")
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(logger, "title list not found", "titles_missing",
				logging.String("path", path),
				logging.String(logging.FieldErrorHint, "run `scriptqa titles sync` to download the list"),
				logging.String(logging.FieldImpact, "title suggestions will be empty"))
			return New(nil), nil
		}
		return nil, fmt.Errorf("open titles: %w", err)
	}
	defer file.Close()

	m, err := Parse(file)
	if err != nil {
		return nil, err
	}
	logger.Info("title list loaded",
		logging.String(logging.FieldEventType, "titles_loaded"),
		logging.String("path", path),
		logging.Int("title_count", m.Len()))
	return m, nil
}

// Suggest returns up to Limit titles containing query, in list order. The
// result is never nil.
func (m *Matcher) Suggest(query string) []string {
	out := []string{}
	if m == nil || query == "" {
		return out
	}
	// Casers carry state, so each call folds with its own.
	needle := cases.Fold().String(query)
	for i, folded := range m.folded {
		if strings.Contains(folded, needle) {
			out = append(out, m.titles[i])
			if len(out) == Limit {
				break
			}
		}
	}
	return out
}

// Len returns the number of known titles.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.titles)
}
