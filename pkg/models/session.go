package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// VocabQuizText is the sentinel session text marking a vocabulary-review
// session, which has no source text or keyword collection.
const VocabQuizText = "VocabQuiz"

// ErrSessionClosed is returned by transitions on a closed session.
var ErrSessionClosed = errors.New("learning session is closed")

// SessionState names the lifecycle stage of a learning session.
type SessionState string

const (
	// StateCollecting: keywords and quiz are still being extracted.
	StateCollecting SessionState = "collecting"
	// StateActive: the quiz cursor has questions left to ask.
	StateActive SessionState = "active"
	// StateExhausted: every queued question has been asked; the session
	// can be extended with more questions or closed.
	StateExhausted SessionState = "exhausted"
	// StateClosed: the end time is set. Terminal.
	StateClosed SessionState = "closed"
)

// LearningSession is one bounded learning or quiz interaction: the source
// text (or the vocab-quiz sentinel), the extracted keywords, a quiz queue
// and progress cursors. Sessions are appended to a profile and never
// removed from history.
type LearningSession struct {
	SessionID int    `json:"session_id"`
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Quiz              []Question `json:"quiz,omitempty"`
	NextQuestionIndex int        `json:"next_question_index"`

	Keywords           []Keyword `json:"keywords,omitempty"`
	CurrentKeywordPage int       `json:"current_keyword_page"`

	// Translation caches the tutor's translation of Text.
	Translation string `json:"translation,omitempty"`

	// VocabRoots maps each quiz question back to the vocab it tests.
	// Only set for vocabulary-review sessions, aligned with Quiz.
	VocabRoots []string `json:"vocab_roots,omitempty"`
}

// IsVocabQuiz reports whether this is a vocabulary-review session.
func (s *LearningSession) IsVocabQuiz() bool {
	return s.Text == VocabQuizText
}

// State derives the session's lifecycle stage from its fields.
func (s *LearningSession) State() SessionState {
	switch {
	case s.EndTime != nil:
		return StateClosed
	case len(s.Quiz) == 0 && len(s.Keywords) == 0:
		return StateCollecting
	case s.NextQuestionIndex >= len(s.Quiz):
		return StateExhausted
	default:
		return StateActive
	}
}

// Activate installs the extracted keywords and the initial quiz batch,
// moving the session out of Collecting.
func (s *LearningSession) Activate(keywords []Keyword, quiz []Question) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}
	s.Keywords = keywords
	s.Quiz = quiz
	return nil
}

// NextQuestion advances the quiz cursor and returns the question to ask,
// stamping its ask time. It returns false once the quiz is exhausted or
// the session is closed.
func (s *LearningSession) NextQuestion(now time.Time) (*Question, bool) {
	if s.State() != StateActive {
		return nil, false
	}
	q := &s.Quiz[s.NextQuestionIndex]
	q.AskTime = &now
	s.NextQuestionIndex++
	return q, true
}

// LastAskedQuestion returns the most recently asked question, which is the
// one a poll answer refers to.
func (s *LearningSession) LastAskedQuestion() (*Question, bool) {
	if s.NextQuestionIndex == 0 || s.NextQuestionIndex > len(s.Quiz) {
		return nil, false
	}
	return &s.Quiz[s.NextQuestionIndex-1], true
}

// LastAskedVocabRoot returns the vocab root tested by the most recently
// asked question of a vocabulary-review session.
func (s *LearningSession) LastAskedVocabRoot() (string, bool) {
	if !s.IsVocabQuiz() {
		return "", false
	}
	idx := s.NextQuestionIndex - 1
	if idx < 0 || idx >= len(s.VocabRoots) {
		return "", false
	}
	return s.VocabRoots[idx], true
}

// ExtendQuiz appends freshly extracted questions, re-entering Active from
// Exhausted.
func (s *LearningSession) ExtendQuiz(questions []Question) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}
	s.Quiz = append(s.Quiz, questions...)
	return nil
}

// Close ends the session. Closing is terminal; only the summary may be
// read afterwards.
func (s *LearningSession) Close(now time.Time) error {
	if s.EndTime != nil {
		return ErrSessionClosed
	}
	s.EndTime = &now
	return nil
}

// FindKeyword looks a keyword up by its surface form, as referenced by
// chip callbacks.
func (s *LearningSession) FindKeyword(word string) (Keyword, bool) {
	for _, kw := range s.Keywords {
		if kw.Word == word {
			return kw, true
		}
	}
	return Keyword{}, false
}

// MaxKeywordPage returns the last valid keyword page for the given page
// size.
func (s *LearningSession) MaxKeywordPage(pageSize int) int {
	if len(s.Keywords) == 0 || pageSize <= 0 {
		return 0
	}
	return (len(s.Keywords) - 1) / pageSize
}

// KeywordPage returns the keywords on the current page, clamping the page
// cursor into the valid range first.
func (s *LearningSession) KeywordPage(pageSize int) []Keyword {
	if pageSize <= 0 {
		return nil
	}
	maxPage := s.MaxKeywordPage(pageSize)
	if s.CurrentKeywordPage > maxPage {
		s.CurrentKeywordPage = maxPage
	}
	if s.CurrentKeywordPage < 0 {
		s.CurrentKeywordPage = 0
	}
	start := s.CurrentKeywordPage * pageSize
	end := start + pageSize
	if end > len(s.Keywords) {
		end = len(s.Keywords)
	}
	return s.Keywords[start:end]
}

// NextKeywordPage moves one page forward. Navigating past the last page
// is a no-op and returns false.
func (s *LearningSession) NextKeywordPage(pageSize int) bool {
	if s.CurrentKeywordPage >= s.MaxKeywordPage(pageSize) {
		return false
	}
	s.CurrentKeywordPage++
	return true
}

// PrevKeywordPage moves one page back. Navigating before the first page
// is a no-op and returns false.
func (s *LearningSession) PrevKeywordPage(pageSize int) bool {
	if s.CurrentKeywordPage <= 0 {
		return false
	}
	s.CurrentKeywordPage--
	return true
}

// CorrectCount returns how many quiz questions were answered correctly.
func (s *LearningSession) CorrectCount() int {
	count := 0
	for i := range s.Quiz {
		if s.Quiz[i].IsCorrect() {
			count++
		}
	}
	return count
}

// ElapsedMinutes returns the session length in minutes, rounded to two
// decimals. Open sessions are measured against the current time.
func (s *LearningSession) ElapsedMinutes(now time.Time) float64 {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	minutes := end.Sub(s.StartTime).Minutes()
	return math.Round(minutes*100) / 100
}

// SummaryQuiz formats the quiz score and elapsed time.
func (s *LearningSession) SummaryQuiz() string {
	return fmt.Sprintf("Correct: %d / %d; Time: %.2f mins\n",
		s.CorrectCount(), len(s.Quiz), s.ElapsedMinutes(time.Now()))
}

// Summary appends the encountered keyword roots to the quiz summary.
func (s *LearningSession) Summary() string {
	roots := make([]string, len(s.Keywords))
	for i, kw := range s.Keywords {
		roots[i] = kw.Root
	}
	return fmt.Sprintf("%s\nKeywords: %s", s.SummaryQuiz(), strings.Join(roots, ", "))
}
