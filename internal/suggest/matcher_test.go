package suggest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestSubstringInListOrder(t *testing.T) {
	m := New([]string{"Inception", "The Matrix", "Interstellar"})
	require.Equal(t, []string{"Inception", "Interstellar"}, m.Suggest("in"))
	require.Equal(t, []string{"The Matrix"}, m.Suggest("MATRIX"))
}

func TestSuggestLimit(t *testing.T) {
	m := New([]string{"Alien", "Aliens", "Alien 3", "Alien Resurrection", "Alien: Covenant", "Alien vs. Predator"})
	got := m.Suggest("alien")
	require.Len(t, got, Limit)
	require.Equal(t, "Alien", got[0])
	require.Equal(t, "Alien: Covenant", got[4])
}

func TestSuggestEmptyInputs(t *testing.T) {
	m := New([]string{"Inception"})
	got := m.Suggest("")
	require.NotNil(t, got)
	require.Empty(t, got)

	empty := New(nil)
	got = empty.Suggest("in")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestSuggestUnicodeFolding(t *testing.T) {
	m := New([]string{"Amélie", "Straße der Sehnsucht"})
	require.Equal(t, []string{"Amélie"}, m.Suggest("AMÉLIE"))
	require.Equal(t, []string{"Straße der Sehnsucht"}, m.Suggest("STRASSE"))
}

func TestParseSkipsBlankLines(t *testing.T) {
	m, err := Parse(strings.NewReader("Inception | Christopher Nolan\n\n   \n  The Matrix | Wachowskis  \n"))
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	require.Equal(t, []string{"The Matrix | Wachowskis"}, m.Suggest("matrix"))
}

func TestLoadMissingFileYieldsEmptyMatcher(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.NoError(t, err)
	require.Zero(t, m.Len())
	require.Empty(t, m.Suggest("a"))
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alien | Ridley Scott\nHeat | Michael Mann\n"), 0o644))
	m, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Heat | Michael Mann"}, m.Suggest("heat"))
}
