package parser

import (
	"strings"
)

// Record is one exported row, keyed by the header names of its fetch.
type Record map[string]string

// Decode turns a full CSV export into header-keyed records. The first
// non-blank line is the header; rows whose field count does not match the
// header are dropped so a truncated line cannot poison the whole sync.
func Decode(text string) []Record {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	headers := SplitLine(lines[0])
	records := make([]Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		values := SplitLine(line)
		if len(values) != len(headers) {
			continue
		}
		rec := make(Record, len(headers))
		for i, h := range headers {
			rec[h] = values[i]
		}
		records = append(records, rec)
	}
	return records
}

// SplitLine splits one CSV line on commas, honoring double-quoted spans.
// A doubled quote inside a quoted span is a literal quote. Every field is
// trimmed; the export pads some columns with spaces.
func SplitLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))
	return result
}
