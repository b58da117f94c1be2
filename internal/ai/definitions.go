package ai

import (
	"context"
	"fmt"

	"github.com/example/tutorbot/pkg/models"
)

var definitionGrammar = Grammar{
	Fields:    []string{"input", "root", "pos", "art", "def", "ex"},
	Separator: ";",
}

// DefinitionExtractor looks a single German word or phrase up, one record
// per meaning.
type DefinitionExtractor struct {
	llm completer
}

// NewDefinitionExtractor creates a definition extractor on top of the
// client.
func NewDefinitionExtractor(llm completer) *DefinitionExtractor {
	return &DefinitionExtractor{llm: llm}
}

// ExtractDefinitions returns one keyword per meaning of the phrase. An
// empty result means the model produced nothing usable; callers fall back
// to a free-form answer.
func (e *DefinitionExtractor) ExtractDefinitions(ctx context.Context, phrase string) ([]models.Keyword, error) {
	prompt := fmt.Sprintf(
		"Return information about the German word `%s` in English. "+
			"For each meaning of the word, provides the following fields: "+
			"input=the word being asked;root=root form of the word for the "+
			"current meaning;pos=part of speech in abbr (Noun, Adj, Adv,...);"+
			"art=the article (der/die/das) if it's a noun, otherwise leave empty;"+
			"def=meaning;ex=a German example of the word being used.\n"+
			"The output presents one meaning in a single line. Example:\n"+
			"input=fahren;root=fahren;pos=Verb;art=;def=to drive/to ride/to travel;"+
			"ex=Ich fahre morgen nach Berlin (I'm driving/going to Berlin tomorrow).\n"+
			"input=fahren;root=Fahren;pos=Noun;art=das;def=driving;"+
			"ex=Das Fahren mit dem Fahrrad macht Spaß (Riding a bicycle is fun).",
		phrase)

	output, err := e.llm.Complete(ctx, tutorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("definition extraction failed: %w", err)
	}

	records, unparsed := definitionGrammar.Parse(output)
	logUnparsed("definition extractor", unparsed)

	keywords := make([]models.Keyword, 0, len(records))
	for _, record := range records {
		root := record["root"]
		if root == "" {
			root = record["input"]
		}
		keywords = append(keywords, models.Keyword{
			Root:         rootWithArticle(root, record["pos"], record["art"]),
			Word:         record["input"],
			PartOfSpeech: record["pos"],
			Definition:   record["def"],
			Snippet:      record["ex"],
		})
	}
	return keywords, nil
}
