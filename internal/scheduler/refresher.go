package scheduler

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/example/tutorbot/internal/ai"
	"github.com/example/tutorbot/pkg/models"
)

const (
	// maxDueVocabs bounds how many due vocabs one refresh cycle considers.
	maxDueVocabs = 30
	// maxRefreshPerCycle bounds how many vocabs get a new question per
	// user per cycle, to keep one model call cheap.
	maxRefreshPerCycle = 10
)

// questionSource generates quiz questions for a batch of vocabs.
type questionSource interface {
	ExtractQuestions(ctx context.Context, vocabs []*models.Vocab) ([]ai.RootQuestion, error)
}

// Refresher tops up the cached question pools of due vocabs so that
// /vocabquiz always has material to draw from. Vocabs with an empty pool
// are always refreshed; a vocab with n cached questions is refreshed with
// probability 1/n, so well-stocked vocabs consume fewer model calls.
type Refresher struct {
	questions questionSource
	rng       *rand.Rand
}

// NewRefresher creates a refresher. The random source is injected so the
// selection is reproducible in tests.
func NewRefresher(questions questionSource, rng *rand.Rand) *Refresher {
	return &Refresher{questions: questions, rng: rng}
}

// RefreshVocabQuizzes selects due vocabs that need a fresh question,
// requests all questions in one model call and appends them to each
// vocab's pool. It mutates the profile in memory only; the caller decides
// when to persist. Returns the number of questions added.
func (r *Refresher) RefreshVocabQuizzes(ctx context.Context, profile *models.UserProfile) (int, error) {
	due := profile.Vocabs.DueVocabs(maxDueVocabs, time.Now())

	var candidates []*models.Vocab
	for _, v := range due {
		if len(candidates) >= maxRefreshPerCycle {
			break
		}
		if len(v.Quiz) == 0 || r.rng.Float64() < 1.0/float64(len(v.Quiz)) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	results, err := r.questions.ExtractQuestions(ctx, candidates)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, rq := range results {
		vocab, ok := profile.Vocabs.Get(rq.Root)
		if !ok {
			log.Printf("refresher: dropping question for unknown root %q", rq.Root)
			continue
		}
		vocab.Quiz = append(vocab.Quiz, rq.Question)
		added++
	}
	return added, nil
}
