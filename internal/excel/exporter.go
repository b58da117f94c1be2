package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/tutorbot/pkg/models"
)

// sheetName is the single sheet of the vocabulary report.
const sheetName = "Vocabulary"

var headers = []string{
	"Root", "Part of speech", "Definition", "Encounters",
	"First seen", "Last seen", "Ease factor", "Interval (days)",
	"Repetitions", "Next review",
}

// ExportVocabulary renders the user's vocabulary as an xlsx workbook and
// returns the file bytes, ready to be sent as a document. Vocabs are
// sorted by root.
func ExportVocabulary(profile *models.UserProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	roots := make([]string, 0, profile.Vocabs.Len())
	for root := range profile.Vocabs.Items {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for i, root := range roots {
		vocab := profile.Vocabs.Items[root]
		if err := writeVocabRow(f, i+2, vocab); err != nil {
			return nil, fmt.Errorf("failed to write row for %q: %w", root, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeVocabRow(f *excelize.File, row int, vocab *models.Vocab) error {
	var pos, definition string
	var firstSeen, lastSeen string
	if len(vocab.Encounters) > 0 {
		first := vocab.Encounters[0]
		last := vocab.Encounters[len(vocab.Encounters)-1]
		pos = last.PartOfSpeech
		definition = last.Definition
		firstSeen = formatDay(first.Time)
		lastSeen = formatDay(last.Time)
	}

	values := []interface{}{
		vocab.Root, pos, definition, len(vocab.Encounters),
		firstSeen, lastSeen, vocab.EaseFactor, vocab.Interval,
		vocab.Repetitions, formatDayPtr(vocab.NextReview),
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func formatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatDayPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDay(*t)
}
