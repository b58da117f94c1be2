package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/tutorbot/pkg/models"
)

var questionGrammar = Grammar{
	Fields:    []string{"text", "a", "b", "c", "d", "ans", "expl"},
	Separator: ";",
}

// QuestionExtractor generates multiple-choice comprehension questions for
// a German text.
type QuestionExtractor struct {
	llm completer
}

// NewQuestionExtractor creates a question extractor on top of the client.
func NewQuestionExtractor(llm completer) *QuestionExtractor {
	return &QuestionExtractor{llm: llm}
}

// ExtractQuestions returns quiz questions for the text. Questions failing
// the poll limits are dropped; the caller must tolerate fewer than
// requested, including none.
func (e *QuestionExtractor) ExtractQuestions(ctx context.Context, text string) ([]models.Question, error) {
	prompt := fmt.Sprintf(
		"Carefully generate 10 muti-choice German questions to test "+
			"my understanding of a German text from top to bottom. "+
			"Use only information in the text to generate question. "+
			"One question has a single correct answer. "+
			"A question has the following fields:\n"+
			"- `text`: question text\n"+
			"- `a`, `b`, `c`, `d`: 4 options\n"+
			"- `ans`: correct answer, either a, b, c, or d\n"+
			"- `expl`: explains why ans is correct.\n\n%s\n\n"+
			"The output contains one question per line. Example:\n"+
			"text=Was kauft der Autor im Kiosk?;"+
			"a=Eine Zeitung und eine Cola;b=Ein Getränk, ein Brötchen und Chips;"+
			"c=Eine Tafel Schokolade;d=Eine Flasche Wasser und ein Sandwich;"+
			"ans=b;expl=The text says \"Also kaufe ich mir ein Getränk und Chips\".",
		text)

	output, err := e.llm.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("question extraction failed: %w", err)
	}

	records, unparsed := questionGrammar.Parse(output)
	logUnparsed("question extractor", unparsed)

	var questions []models.Question
	for _, record := range records {
		question, ok := questionFromRecord(record)
		if !ok {
			continue
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// questionFromRecord builds a Question from a parsed grammar record and
// applies the poll validation policy: invalid answers and oversized
// text or options drop the question, oversized explanations are kept
// truncated.
func questionFromRecord(record Record) (models.Question, bool) {
	answer := strings.ToLower(strings.TrimSpace(record["ans"]))
	correct := strings.Index("abcd", answer)
	if len(answer) != 1 || correct < 0 {
		return models.Question{}, false
	}
	question := models.Question{
		Text:         record["text"],
		Options:      []string{record["a"], record["b"], record["c"], record["d"]},
		CorrectIndex: correct,
		Explanation:  strings.TrimSpace(record["expl"]),
	}
	if !question.ValidatePoll() {
		return models.Question{}, false
	}
	return question, true
}
