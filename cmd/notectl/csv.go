package main

import (
	"encoding/csv"
	"errors"
	"os"
	"regexp"
	"strings"

	"notekeeper/internal/workspace"
)

var cleanWhitespace = regexp.MustCompile(`[ \t]+`)

// readCSV returns one map per row keyed by the lower-cased header. Header keys
// are trimmed; cell values are returned as written so quoted content keeps its
// indentation and trailing blanks.
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[strings.ToLower(strings.TrimSpace(key))] = row[idx]
		}
		records = append(records, record)
	}

	return records, nil
}

// readNotesCSV maps the title, content, folder, favorite and locked columns.
// Rows with neither a title nor content are skipped.
func readNotesCSV(path string) ([]workspace.ImportedNote, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	notes := make([]workspace.ImportedNote, 0, len(records))
	for _, record := range records {
		note := workspace.ImportedNote{
			Title:    normalizeText(record["title"]),
			Content:  record["content"],
			Folder:   normalizeText(record["folder"]),
			Favorite: parseFlag(record["favorite"]),
			Locked:   parseFlag(record["locked"]),
		}
		if note.Title == "" && strings.TrimSpace(note.Content) == "" {
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func normalizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return cleanWhitespace.ReplaceAllString(value, " ")
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "x", "tak":
		return true
	default:
		return false
	}
}
