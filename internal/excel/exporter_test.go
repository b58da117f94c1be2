package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/tutorbot/pkg/models"
)

func TestExportVocabulary(t *testing.T) {
	profile := models.NewUserProfile(1)
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	next := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	profile.Vocabs.Items["sonnig"] = &models.Vocab{
		Root: "sonnig",
		Encounters: []models.VocabEncounter{
			{SessionID: 0, Word: "sonniger", PartOfSpeech: "Adj", Definition: "sunny", Time: first},
			{SessionID: 1, Word: "sonnig", PartOfSpeech: "Adj", Definition: "sunny", Time: second},
		},
		EaseFactor:  2.36,
		Interval:    6,
		Repetitions: 2,
		NextReview:  &next,
	}
	profile.Vocabs.Items["das Fahren"] = &models.Vocab{
		Root:       "das Fahren",
		EaseFactor: 2.5,
	}

	data, err := ExportVocabulary(profile)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per vocab")

	assert.Equal(t, "Root", rows[0][0])
	assert.Equal(t, "Next review", rows[0][9])

	// Rows are sorted by root.
	assert.Equal(t, "das Fahren", rows[1][0])
	assert.Equal(t, "sonnig", rows[2][0])

	sonnig := rows[2]
	assert.Equal(t, "Adj", sonnig[1])
	assert.Equal(t, "sunny", sonnig[2])
	assert.Equal(t, "2", sonnig[3])
	assert.Equal(t, "2024-03-01", sonnig[4])
	assert.Equal(t, "2024-03-05", sonnig[5])
	assert.Equal(t, "2024-03-11", sonnig[9])
}

func TestExportEmptyVocabulary(t *testing.T) {
	data, err := ExportVocabulary(models.NewUserProfile(2))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
