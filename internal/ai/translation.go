package ai

import (
	"context"
	"fmt"
	"strings"
)

// TranslationExtractor translates German text to English, sentence by
// sentence with the translation in parentheses.
type TranslationExtractor struct {
	llm completer
}

// NewTranslationExtractor creates a translation extractor on top of the
// client.
func NewTranslationExtractor(llm completer) *TranslationExtractor {
	return &TranslationExtractor{llm: llm}
}

// ExtractTranslation returns the annotated translation of the text.
func (e *TranslationExtractor) ExtractTranslation(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"As a German tutor, carefully translate the following German "+
			"text to English:\n\n%s\n\n"+
			"The output contains the original German text with each "+
			"sentence followed by its translation put in parenthesis. "+
			"For example:\n\n"+
			"Ich wache auf und liege im Bett (I wake up and lay in bed). "+
			"Ich bin müde, da ich gestern sehr spät eingeschlafen bin "+
			"(I am tired because I fell asleep very late yesterday).",
		text)

	translation, err := e.llm.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	return strings.TrimSpace(translation), nil
}

// AskAnythingExtractor answers free-form questions in the tutor's voice.
type AskAnythingExtractor struct {
	llm completer
}

// NewAskAnythingExtractor creates an ask-anything extractor on top of the
// client.
func NewAskAnythingExtractor(llm completer) *AskAnythingExtractor {
	return &AskAnythingExtractor{llm: llm}
}

// ExtractResponse returns the tutor's answer to an arbitrary request.
func (e *AskAnythingExtractor) ExtractResponse(ctx context.Context, request string) (string, error) {
	prompt := fmt.Sprintf(
		"Be concise and don't add motivation speech at the end. My request:\n\n%s",
		request)
	response, err := e.llm.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("tutor response failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}
