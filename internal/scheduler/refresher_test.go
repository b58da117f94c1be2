package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tutorbot/internal/ai"
	"github.com/example/tutorbot/pkg/models"
)

// fakeQuestionSource returns one question per requested vocab.
type fakeQuestionSource struct {
	err   error
	calls [][]string
	// return no questions at all
	empty bool
	// extra roots to emit that were never requested
	unknownRoots []string
}

func (f *fakeQuestionSource) ExtractQuestions(_ context.Context, vocabs []*models.Vocab) ([]ai.RootQuestion, error) {
	roots := make([]string, len(vocabs))
	for i, v := range vocabs {
		roots[i] = v.Root
	}
	f.calls = append(f.calls, roots)
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}

	var results []ai.RootQuestion
	for _, root := range append(roots, f.unknownRoots...) {
		results = append(results, ai.RootQuestion{
			Root: root,
			Question: models.Question{
				Text:    "Frage zu " + root,
				Options: []string{"a", "b", "c", "d"},
			},
		})
	}
	return results, nil
}

func dueVocab(root string, cached int) *models.Vocab {
	past := time.Now().UTC().AddDate(0, 0, -1)
	v := &models.Vocab{Root: root, EaseFactor: 2.5, Interval: 1, Repetitions: 1, NextReview: &past}
	for i := 0; i < cached; i++ {
		v.Quiz = append(v.Quiz, models.Question{Text: fmt.Sprintf("alt %d", i)})
	}
	return v
}

func profileWith(vocabs ...*models.Vocab) *models.UserProfile {
	p := models.NewUserProfile(1)
	for _, v := range vocabs {
		p.Vocabs.Items[v.Root] = v
	}
	return p
}

func TestRefreshAlwaysFillsEmptyPools(t *testing.T) {
	src := &fakeQuestionSource{}
	r := NewRefresher(src, rand.New(rand.NewSource(1)))
	profile := profileWith(dueVocab("leer", 0))

	added, err := r.RefreshVocabQuizzes(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, profile.Vocabs.Items["leer"].Quiz, 1)
}

func TestRefreshSkipsNotDueVocabs(t *testing.T) {
	src := &fakeQuestionSource{}
	r := NewRefresher(src, rand.New(rand.NewSource(1)))
	profile := profileWith(&models.Vocab{Root: "neu", EaseFactor: 2.5})

	added, err := r.RefreshVocabQuizzes(context.Background(), profile)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Empty(t, src.calls, "no model call when nothing is due")
}

func TestRefreshCapsCandidates(t *testing.T) {
	src := &fakeQuestionSource{}
	r := NewRefresher(src, rand.New(rand.NewSource(1)))

	vocabs := make([]*models.Vocab, 15)
	for i := range vocabs {
		vocabs[i] = dueVocab(fmt.Sprintf("wort%02d", i), 0)
	}
	profile := profileWith(vocabs...)

	added, err := r.RefreshVocabQuizzes(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, maxRefreshPerCycle, added)
	require.Len(t, src.calls, 1, "one batched call per cycle")
	assert.Len(t, src.calls[0], maxRefreshPerCycle)
}

func TestRefreshProbabilityShrinksWithPoolSize(t *testing.T) {
	// A vocab with 4 cached questions should be selected in roughly a
	// quarter of the cycles.
	rng := rand.New(rand.NewSource(42))
	selected := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		src := &fakeQuestionSource{}
		r := NewRefresher(src, rng)
		profile := profileWith(dueVocab("satt", 4))
		added, err := r.RefreshVocabQuizzes(context.Background(), profile)
		require.NoError(t, err)
		selected += added
	}
	assert.InDelta(t, trials/4, selected, trials/20)
}

func TestRefreshDropsUnknownRoots(t *testing.T) {
	src := &fakeQuestionSource{unknownRoots: []string{"fremd"}}
	r := NewRefresher(src, rand.New(rand.NewSource(1)))
	profile := profileWith(dueVocab("bekannt", 0))

	added, err := r.RefreshVocabQuizzes(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	_, ok := profile.Vocabs.Get("fremd")
	assert.False(t, ok)
}

func TestRefreshPropagatesExtractorError(t *testing.T) {
	src := &fakeQuestionSource{err: errors.New("model down")}
	r := NewRefresher(src, rand.New(rand.NewSource(1)))
	profile := profileWith(dueVocab("wort", 0))

	_, err := r.RefreshVocabQuizzes(context.Background(), profile)
	assert.Error(t, err)
}
