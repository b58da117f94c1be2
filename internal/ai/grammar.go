package ai

import (
	"fmt"
	"log"
	"strings"
)

// Grammar describes the line format the extractors instruct the model to
// emit: an ordered list of fields rendered as name=value pairs joined by a
// separator, one record per line. The parser is strict about field names
// and order but tolerant about whitespace, and a field value may contain
// the separator as long as it is not followed by the next field name.
type Grammar struct {
	Fields    []string
	Separator string
}

// Record is one parsed line, keyed by field name.
type Record map[string]string

// UnparsedLine reports a line that did not match the grammar. Callers
// drop the line but keep the rest of the batch.
type UnparsedLine struct {
	LineNumber int
	Line       string
	Reason     string
}

// ParseLine parses a single record line against the grammar.
func (g Grammar) ParseLine(line string) (Record, error) {
	rest := strings.TrimSpace(line)
	record := make(Record, len(g.Fields))

	for i, field := range g.Fields {
		prefix := field + "="
		if !strings.HasPrefix(rest, prefix) {
			return nil, fmt.Errorf("expected field %q", field)
		}
		rest = rest[len(prefix):]

		if i == len(g.Fields)-1 {
			record[field] = strings.TrimSpace(rest)
			return record, nil
		}

		next := g.Fields[i+1] + "="
		end := -1
		for offset := 0; ; {
			j := strings.Index(rest[offset:], g.Separator)
			if j < 0 {
				break
			}
			j += offset
			after := strings.TrimLeft(rest[j+len(g.Separator):], " ")
			if strings.HasPrefix(after, next) {
				end = j
				break
			}
			offset = j + len(g.Separator)
		}
		if end < 0 {
			return nil, fmt.Errorf("missing field %q", g.Fields[i+1])
		}
		record[field] = strings.TrimSpace(rest[:end])
		rest = strings.TrimLeft(rest[end+len(g.Separator):], " ")
	}
	return record, nil
}

// Parse splits the model output into lines and parses each one, returning
// the records that matched and a diagnostic per line that did not. Blank
// lines are skipped silently.
func (g Grammar) Parse(output string) ([]Record, []UnparsedLine) {
	var records []Record
	var unparsed []UnparsedLine
	for i, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		record, err := g.ParseLine(trimmed)
		if err != nil {
			unparsed = append(unparsed, UnparsedLine{
				LineNumber: i + 1,
				Line:       trimmed,
				Reason:     err.Error(),
			})
			continue
		}
		records = append(records, record)
	}
	return records, unparsed
}

// Instructions renders a one-line description of the expected record
// shape for use in prompts, e.g. "input=...;root=...;pos=...".
func (g Grammar) Instructions() string {
	parts := make([]string, len(g.Fields))
	for i, field := range g.Fields {
		parts[i] = field + "=..."
	}
	return strings.Join(parts, g.Separator)
}

// logUnparsed reports dropped lines from one extraction call.
func logUnparsed(extractor string, unparsed []UnparsedLine) {
	for _, u := range unparsed {
		log.Printf("%s: dropped line %d (%s): %s", extractor, u.LineNumber, u.Reason, u.Line)
	}
}
