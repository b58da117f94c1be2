package models

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// recentVocabLimit bounds the "recent vocabs" list in the profile summary.
const recentVocabLimit = 100

// UserProfile aggregates one user's learning history. It is the atomic
// persistence unit: every mutation to a session or to the vocabulary store
// is a read-modify-write of the whole profile.
type UserProfile struct {
	UserID   int64              `json:"user_id"`
	Sessions []*LearningSession `json:"sessions,omitempty"`
	Vocabs   Vocabulary         `json:"vocabs"`
}

// NewUserProfile returns an empty profile for the user.
func NewUserProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Vocabs: NewVocabulary(),
	}
}

// StartSession appends a new learning session for the given source text.
// Session IDs are sequential within the profile.
func (p *UserProfile) StartSession(chatID int64, text string, now time.Time) *LearningSession {
	session := &LearningSession{
		SessionID: len(p.Sessions),
		ChatID:    chatID,
		Text:      text,
		StartTime: now,
	}
	p.Sessions = append(p.Sessions, session)
	return session
}

// StartVocabQuiz appends a vocabulary-review session. The questions and
// roots must be aligned index for index.
func (p *UserProfile) StartVocabQuiz(chatID int64, questions []Question, roots []string, now time.Time) (*LearningSession, error) {
	if len(questions) != len(roots) {
		return nil, fmt.Errorf("vocab quiz misaligned: %d questions, %d roots", len(questions), len(roots))
	}
	session := p.StartSession(chatID, VocabQuizText, now)
	session.Quiz = questions
	session.VocabRoots = roots
	return session, nil
}

// LastSession returns the most recent session, if any.
func (p *UserProfile) LastSession() (*LearningSession, bool) {
	if len(p.Sessions) == 0 {
		return nil, false
	}
	return p.Sessions[len(p.Sessions)-1], true
}

// Summary formats the profile overview: session count, minutes across
// closed sessions, distinct vocab count and the most recently encountered
// vocabs.
func (p *UserProfile) Summary() string {
	totalMinutes := 0.0
	for _, session := range p.Sessions {
		if session.EndTime != nil {
			totalMinutes += session.EndTime.Sub(session.StartTime).Minutes()
		}
	}

	recent := p.recentVocabs(recentVocabLimit)
	roots := make([]string, len(recent))
	for i, v := range recent {
		roots[i] = v.Root
	}

	return fmt.Sprintf("User Profile Summary:\n"+
		"Total sessions: %d\n"+
		"Total time spent: %.2f minutes\n"+
		"Number of learned vocabs: %d\n"+
		"Recent vocabs: %s",
		len(p.Sessions), totalMinutes, p.Vocabs.Len(), strings.Join(roots, ", "))
}

// recentVocabs ranks vocabs by the session ID of their latest encounter,
// newest first. Vocabs with no encounters rank as session 0, and
// out-of-session lookups (session -1) rank below everything recorded
// inside a session.
func (p *UserProfile) recentVocabs(n int) []*Vocab {
	vocabs := make([]*Vocab, 0, p.Vocabs.Len())
	for _, v := range p.Vocabs.Items {
		vocabs = append(vocabs, v)
	}
	rank := func(v *Vocab) int {
		if len(v.Encounters) == 0 {
			return 0
		}
		return v.Encounters[len(v.Encounters)-1].SessionID
	}
	sort.Slice(vocabs, func(i, j int) bool {
		ri, rj := rank(vocabs[i]), rank(vocabs[j])
		if ri != rj {
			return ri > rj
		}
		return vocabs[i].Root < vocabs[j].Root
	})
	if len(vocabs) > n {
		vocabs = vocabs[:n]
	}
	return vocabs
}

// PickVocabQuiz draws one random cached question per due vocab, skipping
// vocabs with an empty question pool, up to limit. The returned questions
// and roots are aligned index for index.
func PickVocabQuiz(due []*Vocab, limit int, rng *rand.Rand) ([]Question, []string) {
	var questions []Question
	var roots []string
	for _, v := range due {
		if len(v.Quiz) == 0 {
			continue
		}
		if len(questions) >= limit {
			break
		}
		q := v.Quiz[rng.Intn(len(v.Quiz))]
		// Reset any previous answer carried over from the cached pool.
		q.AskTime, q.AnswerTime, q.AnswerIndex = nil, nil, nil
		questions = append(questions, q)
		roots = append(roots, v.Root)
	}
	return questions, roots
}
