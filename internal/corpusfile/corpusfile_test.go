package corpusfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONL(t *testing.T) {
	path := writeFile(t, "docs.jsonl", `{"title":"A","description":"Stocks and bonds"}
not json
{"title":"B"}
{"description": 42}

{"description":"Gym and diet"}
`)

	docs, err := LoadJSONL(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Stocks and bonds", "Gym and diet"}, docs)

	titles, err := LoadJSONL(path, "title")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestLoadJSONLEmpty(t *testing.T) {
	path := writeFile(t, "docs.jsonl", "garbage\n{\"other\":\"x\"}\n")
	_, err := LoadJSONL(path, "")
	assert.Error(t, err)

	_, err = LoadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"), "")
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "poddf.csv", "Name,Description\n"+
		"Money Show,\"Stocks, bonds and more\"\n"+
		"short\n"+
		"Gym Talk,Diet tips\n")

	docs, err := LoadCSV(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Stocks, bonds and more", "Diet tips"}, docs)

	_, err = LoadCSV(path, "Summary")
	assert.Error(t, err)
}

func TestLoadLinesAndQuery(t *testing.T) {
	path := writeFile(t, "query.txt", "  Welcome to the show.\n\nToday: stocks \r\nand bonds\n")

	lines, err := LoadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome to the show.", "Today: stocks", "and bonds"}, lines)

	q, err := ReadQuery(path)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the show. Today: stocks and bonds", q)

	empty := writeFile(t, "empty.txt", "\n  \n")
	_, err = LoadLines(empty)
	assert.Error(t, err)
	q, err = ReadQuery(empty)
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestLoadDispatch(t *testing.T) {
	jsonl := writeFile(t, "d.jsonl", `{"description":"one"}`+"\n")
	csvPath := writeFile(t, "d.csv", "Description\ntwo\n")
	txt := writeFile(t, "d.txt", "three\n")

	for path, want := range map[string]string{jsonl: "one", csvPath: "two", txt: "three"} {
		docs, err := Load(path, "")
		require.NoError(t, err, path)
		assert.Equal(t, []string{want}, docs, path)
	}
}
