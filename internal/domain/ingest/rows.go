package ingest

import "strings"

// splitRows splits raw statement text into rows of fields. Commas inside
// double-quoted fields are not treated as delimiters, and an escaped quote
// ("") inside a quoted field unescapes to a single quote. Blank lines are
// skipped.
func splitRows(content string) [][]string {
	var rows [][]string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var row []string
		var field strings.Builder
		inQuotes := false

		for i := 0; i < len(line); i++ {
			c := line[i]
			switch {
			case c == '"':
				if inQuotes && i+1 < len(line) && line[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = !inQuotes
				}
			case c == ',' && !inQuotes:
				row = append(row, strings.TrimSpace(field.String()))
				field.Reset()
			default:
				field.WriteByte(c)
			}
		}
		row = append(row, strings.TrimSpace(field.String()))
		rows = append(rows, row)
	}

	return rows
}
