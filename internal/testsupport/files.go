package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTitles writes one title per line to path, creating parent directories.
func WriteTitles(t testing.TB, path string, titles ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := strings.Join(titles, "\n")
	if len(titles) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ScriptText returns a script body of at least size characters.
func ScriptText(opening string, size int) string {
	var b strings.Builder
	b.WriteString(opening)
	for b.Len() < size {
		b.WriteString(" The scene continues.")
	}
	return b.String()
}
