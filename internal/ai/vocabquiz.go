package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/tutorbot/pkg/models"
)

var vocabQuestionGrammar = Grammar{
	Fields:    []string{"input", "text", "a", "b", "c", "d", "ans", "expl"},
	Separator: ";",
}

// RootQuestion pairs a generated question with the vocabulary root it
// tests.
type RootQuestion struct {
	Root     string
	Question models.Question
}

// VocabQuestionExtractor generates one quiz question per vocabulary root,
// keyed back to the root so the scheduler can refill each vocab's pool.
type VocabQuestionExtractor struct {
	llm completer
}

// NewVocabQuestionExtractor creates a vocab question extractor on top of
// the client.
func NewVocabQuestionExtractor(llm completer) *VocabQuestionExtractor {
	return &VocabQuestionExtractor{llm: llm}
}

// ExtractQuestions requests one question per vocab in a single call. The
// model may omit roots it could not produce a question for, and questions
// whose root matches none of the requested vocabs are skipped; callers
// must not assume full coverage.
func (e *VocabQuestionExtractor) ExtractQuestions(ctx context.Context, vocabs []*models.Vocab) ([]RootQuestion, error) {
	roots := make([]string, len(vocabs))
	for i, v := range vocabs {
		roots[i] = v.Root
	}

	prompt := fmt.Sprintf(
		"Generate muti-choice questions to test my knowledge "+
			"of the following German keywords, "+
			"including their meaning, synonyms, antonyms, or "+
			"their various forms. One question per keyword. "+
			"Each question focuses on one keyword and contains "+
			"the following fields: "+
			"input=the keyword being asked, copied exactly from the list;"+
			"text=the question text;"+
			"a=1st option;b=2nd option;c=3rd option;d=4th option;"+
			"ans=correct answer, either a, b, c, or d;"+
			"expl=explains why ans is correct.\n\n"+
			"Keywords: %s\n\n"+
			"The output contains one question per line. Example:\n%s",
		strings.Join(roots, ", "), vocabQuestionGrammar.Instructions())

	output, err := e.llm.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("vocab question extraction failed: %w", err)
	}

	records, unparsed := vocabQuestionGrammar.Parse(output)
	logUnparsed("vocab question extractor", unparsed)

	var results []RootQuestion
	for _, record := range records {
		question, ok := questionFromRecord(record)
		if !ok {
			continue
		}
		root, ok := matchRoot(record["input"], vocabs)
		if !ok {
			continue
		}
		results = append(results, RootQuestion{Root: root, Question: question})
	}
	return results, nil
}

// matchRoot resolves the model's echo of a keyword back to the canonical
// root, case-insensitively.
func matchRoot(input string, vocabs []*models.Vocab) (string, bool) {
	for _, v := range vocabs {
		if strings.EqualFold(v.Root, strings.TrimSpace(input)) {
			return v.Root, true
		}
	}
	return "", false
}
