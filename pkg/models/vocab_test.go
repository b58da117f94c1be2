package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyword(root string) Keyword {
	return Keyword{
		Root:         root,
		Word:         root,
		PartOfSpeech: "Noun",
		Snippet:      "Ein Beispielsatz.",
		Definition:   "a definition",
	}
}

func TestUpdateRejectsInvalidQuality(t *testing.T) {
	v := NewVocab(testKeyword("das Haus"), 0, time.Now())

	assert.ErrorIs(t, v.Update(-1), ErrInvalidQuality)
	assert.ErrorIs(t, v.Update(6), ErrInvalidQuality)
	// The failed update must not have touched the schedule.
	assert.Nil(t, v.LastReview)
	assert.Equal(t, 2.5, v.EaseFactor)
}

func TestUpdateEaseFactorNeverBelowFloor(t *testing.T) {
	for quality := 0; quality <= 5; quality++ {
		v := NewVocab(testKeyword("die Katze"), 0, time.Now())
		// Hammer the vocab with the same quality to drive the ease
		// factor toward its extreme.
		for i := 0; i < 20; i++ {
			require.NoError(t, v.Update(quality))
			assert.GreaterOrEqual(t, v.EaseFactor, 1.3,
				"quality %d, iteration %d", quality, i)
		}
	}
}

func TestUpdateFailingQualityResetsRepetitions(t *testing.T) {
	for quality := 0; quality <= 2; quality++ {
		v := NewVocab(testKeyword("der Hund"), 0, time.Now())
		v.Repetitions = 7
		v.Interval = 42

		require.NoError(t, v.Update(quality))
		assert.Equal(t, 0, v.Repetitions, "quality %d", quality)
		assert.Equal(t, 1, v.Interval, "quality %d", quality)
	}
}

func TestUpdateIntervalLadder(t *testing.T) {
	v := NewVocab(testKeyword("laufen"), 0, time.Now())
	v.Repetitions = 0

	require.NoError(t, v.Update(5))
	assert.Equal(t, 1, v.Repetitions)
	assert.Equal(t, 1, v.Interval)

	require.NoError(t, v.Update(5))
	assert.Equal(t, 2, v.Repetitions)
	assert.Equal(t, 6, v.Interval)

	ease := v.EaseFactor
	require.NoError(t, v.Update(4))
	assert.Equal(t, 3, v.Repetitions)
	assert.Equal(t, int(6*v.EaseFactor), v.Interval)
	assert.GreaterOrEqual(t, v.EaseFactor, ease-0.01)
}

// Walks a typical lifecycle: definition lookup, then two correct quiz
// answers.
func TestUpdateScenarioDasFahren(t *testing.T) {
	v := NewVocab(testKeyword("das Fahren"), 3, time.Now())

	require.NoError(t, v.Update(QualityDefinitionLookup))
	assert.Equal(t, 1, v.Repetitions)
	assert.Equal(t, 1, v.Interval)
	assert.InDelta(t, 1.96, v.EaseFactor, 1e-9)

	require.NoError(t, v.CorrectAnswer())
	assert.Equal(t, 2, v.Repetitions)
	assert.Equal(t, 6, v.Interval)

	require.NoError(t, v.CorrectAnswer())
	assert.Equal(t, 3, v.Repetitions)
	assert.Equal(t, int(6*v.EaseFactor), v.Interval)
}

func TestUpdateFailureShrinksMatureInterval(t *testing.T) {
	v := NewVocab(testKeyword("die Reise"), 0, time.Now())
	v.Repetitions = 4
	v.Interval = 10
	v.EaseFactor = 2.0

	require.NoError(t, v.Update(1))
	assert.Equal(t, 0, v.Repetitions)
	assert.Equal(t, 1, v.Interval)
	// 2.0 + 0.1 - 4*(0.08 + 4*0.02) = 1.46
	assert.InDelta(t, 1.46, v.EaseFactor, 1e-9)

	// First success after the reset restarts the ladder.
	require.NoError(t, v.Update(5))
	assert.Equal(t, 1, v.Repetitions)
	assert.Equal(t, 1, v.Interval)
}

func TestUpdateSchedulesNextReview(t *testing.T) {
	now := time.Date(2024, 5, 14, 15, 30, 0, 0, time.UTC)
	v := NewVocab(testKeyword("das Fenster"), 0, now)

	require.NoError(t, v.updateAt(3, now))

	today := time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, v.LastReview)
	require.NotNil(t, v.NextReview)
	assert.True(t, v.LastReview.Equal(today))
	assert.True(t, v.NextReview.Equal(today.AddDate(0, 0, 1)))
	assert.False(t, v.IsDue(now))
	assert.True(t, v.IsDue(now.AddDate(0, 0, 1)))
}

func TestRecordEncounterCreatesAndAppends(t *testing.T) {
	vocabs := NewVocabulary()

	require.NoError(t, vocabs.DefineVocab(testKeyword("der Apfel"), 2))
	v, ok := vocabs.Get("der Apfel")
	require.True(t, ok)
	assert.Len(t, v.Encounters, 1)
	assert.Equal(t, 1, v.Repetitions)
	assert.Equal(t, 1, v.Interval)

	require.NoError(t, vocabs.ClickKeyword(testKeyword("der Apfel"), 3))
	assert.Len(t, v.Encounters, 2)
	assert.Equal(t, 2, v.Repetitions)
	assert.Equal(t, 6, v.Interval)
	assert.Equal(t, 1, vocabs.Len())
}

func TestDueVocabsSortedAndBounded(t *testing.T) {
	now := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	vocabs := NewVocabulary()

	addDue := func(root string, daysAgo int) {
		v := NewVocab(testKeyword(root), 0, now)
		next := dateOnly(now).AddDate(0, 0, -daysAgo)
		v.NextReview = &next
		vocabs.Items[root] = v
	}
	addDue("alt", 5)
	addDue("neu", 1)
	addDue("mittel", 3)

	// Not yet due: scheduled for tomorrow.
	future := NewVocab(testKeyword("morgen"), 0, now)
	tomorrow := dateOnly(now).AddDate(0, 0, 1)
	future.NextReview = &tomorrow
	vocabs.Items["morgen"] = future

	// Never reviewed: no next review date.
	vocabs.Items["nie"] = &Vocab{Root: "nie", EaseFactor: 2.5}

	due := vocabs.DueVocabs(10, now)
	require.Len(t, due, 3)
	assert.Equal(t, "alt", due[0].Root)
	assert.Equal(t, "mittel", due[1].Root)
	assert.Equal(t, "neu", due[2].Root)

	// Bounded by n, and repeat calls see unchanged state.
	assert.Len(t, vocabs.DueVocabs(2, now), 2)
	again := vocabs.DueVocabs(10, now)
	assert.Len(t, again, 3)
	assert.Equal(t, "alt", again[0].Root)
}

func TestDueVocabsDeterministicTieOrder(t *testing.T) {
	now := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	vocabs := NewVocabulary()
	day := dateOnly(now)
	for _, root := range []string{"c", "a", "b"} {
		v := NewVocab(testKeyword(root), 0, now)
		next := day
		v.NextReview = &next
		vocabs.Items[root] = v
	}

	for i := 0; i < 5; i++ {
		due := vocabs.DueVocabs(3, now)
		require.Len(t, due, 3)
		assert.Equal(t, "a", due[0].Root)
		assert.Equal(t, "b", due[1].Root)
		assert.Equal(t, "c", due[2].Root)
	}
}
