package models

import "fmt"

// Keyword is a single vocabulary item produced by one of the extractors.
// Keywords are never persisted on their own; they are consumed to update
// vocabulary and session state.
type Keyword struct {
	// Root is the canonical dictionary form, including the definite
	// article for nouns (e.g. "das Fahren").
	Root string `json:"root"`
	// Word is the surface form found in the source text.
	Word         string `json:"word"`
	PartOfSpeech string `json:"pos"`
	Snippet      string `json:"snippet"`
	Definition   string `json:"definition"`
}

// Summary formats the keyword for display in a chat message.
func (k Keyword) Summary() string {
	if k.Snippet == "" {
		return fmt.Sprintf("%s (%s): %s", k.Root, k.PartOfSpeech, k.Definition)
	}
	return fmt.Sprintf("%s (%s): %s\n%q", k.Root, k.PartOfSpeech, k.Definition, k.Snippet)
}
