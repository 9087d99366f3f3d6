// Package corpusfile reads podcast descriptions and query text from disk.
package corpusfile

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultField is the JSONL key holding a podcast description.
const DefaultField = "description"

// DefaultColumn is the CSV header of the description column in the
// podcast export.
const DefaultColumn = "Description"

// Load picks a reader by extension: .jsonl and .json are JSON lines, .csv
// is a CSV export, anything else is one document per line. field names the
// JSON key or CSV column; "" selects the format's default.
func Load(path, field string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return LoadJSONL(path, field)
	case ".csv":
		return LoadCSV(path, field)
	default:
		return LoadLines(path)
	}
}

// LoadJSONL loads the string at field from every line of a JSONL file.
// Malformed lines and lines without the field are skipped with a warning.
func LoadJSONL(path, field string) ([]string, error) {
	if field == "" {
		field = DefaultField
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []string
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var rec map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		raw, ok := rec[field]
		if !ok {
			log.Printf("Warning: line %d in %s has no %q field", i+1, path, field)
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			log.Printf("Warning: line %d in %s: %q is not a string", i+1, path, field)
			continue
		}
		docs = append(docs, text)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return docs, nil
}

// LoadCSV loads column from a CSV file with a header row. Rows too short to
// hold the column are skipped with a warning.
func LoadCSV(path, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	col := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s has no %q column", path, column)
	}

	var docs []string
	for row := 2; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if col >= len(rec) {
			log.Printf("Warning: row %d in %s has %d fields, skipping", row, path, len(rec))
			continue
		}
		docs = append(docs, rec[col])
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}
	return docs, nil
}

// LoadLines treats every non-blank line as one document.
func LoadLines(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}
	return lines, nil
}

// ReadQuery reads a query file as a single text, lines joined by a space.
func ReadQuery(path string) (string, error) {
	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, " "), nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return out, nil
}
