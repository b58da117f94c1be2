package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/tutorbot/pkg/models"
)

const tutorSystemPrompt = "You are a friendly and helpful German Tutor bot, " +
	"who helps me learn high German while having fun."

// keywordGrammar is the record shape the definition step asks the model
// to emit, one keyword per line.
var keywordGrammar = Grammar{
	Fields:    []string{"input", "root", "pos", "art", "def"},
	Separator: ";",
}

// KeywordExtractor pulls the important vocabulary out of a German text in
// two steps: list the keywords, then define each of them.
type KeywordExtractor struct {
	llm completer
}

// NewKeywordExtractor creates a keyword extractor on top of the client.
func NewKeywordExtractor(llm completer) *KeywordExtractor {
	return &KeywordExtractor{llm: llm}
}

// ExtractKeywords returns the keywords of the text, most difficult first
// as the model was asked to order them. Lines that do not match the
// grammar are dropped; an empty result is not an error.
func (e *KeywordExtractor) ExtractKeywords(ctx context.Context, text string) ([]models.Keyword, error) {
	listPrompt := fmt.Sprintf(
		"Carefully list max 25 important vocabularies (noun, verb, adj, adv,...) "+
			"sorted from most difficult to least. "+
			"The vocabs must appear exactly in the text.\n\n%s\n\n"+
			"The output is a single line containing comma-separated list of vocabs",
		text)
	keywordList, err := e.llm.Complete(ctx, tutorSystemPrompt, listPrompt)
	if err != nil {
		return nil, fmt.Errorf("keyword listing failed: %w", err)
	}

	definePrompt := fmt.Sprintf(
		"Given a list of keywords, provide detailed info for each of them. "+
			"Each keyword has: input=the requested keyword;"+
			"root=root form of the keyword;"+
			"art=the article (der/die/das) if the keyword is noun, otherwise empty;"+
			"pos=noun, verb, adj, adv, prep, conj,...;def=its meaning\n\n"+
			"Keywords: %s\n\n"+
			"The output should present one Keyword per line. Example:\n"+
			"input=Informationsschalter;root=Informationsschalter;"+
			"pos=Noun;art=der;def=information desk\n"+
			"input=sonniger;root=sonnig;pos=Adj;art=;def=sunny",
		strings.TrimSpace(keywordList))
	defined, err := e.llm.Complete(ctx, tutorSystemPrompt, definePrompt)
	if err != nil {
		return nil, fmt.Errorf("keyword definition failed: %w", err)
	}

	records, unparsed := keywordGrammar.Parse(defined)
	logUnparsed("keyword extractor", unparsed)

	keywords := make([]models.Keyword, 0, len(records))
	for _, record := range records {
		keywords = append(keywords, models.Keyword{
			Root:         rootWithArticle(record["root"], record["pos"], record["art"]),
			Word:         record["input"],
			PartOfSpeech: record["pos"],
			Definition:   record["def"],
			Snippet:      findSnippet(record["input"], text),
		})
	}
	return keywords, nil
}

// rootWithArticle pairs a noun root with its definite article, which is
// the canonical form used as the vocabulary key.
func rootWithArticle(root, pos, article string) string {
	if strings.EqualFold(pos, "noun") && article != "" {
		return article + " " + root
	}
	return root
}

// findSnippet returns the first sentence of the text containing the word,
// or an empty string.
func findSnippet(word, text string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	for _, sentence := range splitSentences(text) {
		if containsWord(strings.ToLower(sentence), lower) {
			return sentence
		}
	}
	return ""
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// containsWord reports whether word occurs in s on word boundaries.
func containsWord(s, word string) bool {
	for start := 0; ; {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		beforeOK := true
		if idx > 0 {
			r, _ := utf8.DecodeLastRuneInString(s[:idx])
			beforeOK = !isWordRune(r)
		}
		afterOK := true
		if end < len(s) {
			r, _ := utf8.DecodeRuneInString(s[end:])
			afterOK = !isWordRune(r)
		}
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
