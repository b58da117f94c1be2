package models

import "time"

// Telegram quiz-poll limits. Questions exceeding the text or option limits
// are discarded by the extractors; oversized explanations are truncated.
const (
	MaxQuestionLength    = 255
	MaxOptionLength      = 100
	MaxExplanationLength = 200
)

// Question is a single-choice quiz question with four options.
type Question struct {
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_index"`
	Explanation  string     `json:"explanation"`
	AskTime      *time.Time `json:"ask_time,omitempty"`
	AnswerTime   *time.Time `json:"answer_time,omitempty"`
	AnswerIndex  *int       `json:"answer_index,omitempty"`
}

// IsCorrect reports whether the question has been answered with the
// correct option. An unanswered question is not correct.
func (q *Question) IsCorrect() bool {
	return q.AnswerIndex != nil && *q.AnswerIndex == q.CorrectIndex
}

// Answer records the user's chosen option and when it arrived.
func (q *Question) Answer(optionIndex int, at time.Time) {
	q.AnswerIndex = &optionIndex
	q.AnswerTime = &at
}

// ValidatePoll reports whether the question fits within Telegram's quiz
// poll limits. An explanation over the limit is truncated in place rather
// than causing rejection, so a long explanation never loses the question.
func (q *Question) ValidatePoll() bool {
	if len(q.Text) > MaxQuestionLength {
		return false
	}
	for _, option := range q.Options {
		if len(option) > MaxOptionLength {
			return false
		}
	}
	if len(q.Explanation) > MaxExplanationLength {
		q.Explanation = q.Explanation[:MaxExplanationLength]
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return false
	}
	return true
}
