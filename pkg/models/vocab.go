package models

import (
	"errors"
	"sort"
	"time"
)

// Quality scores fed into the spaced-repetition update for each kind of
// user interaction. Explicitly looking a word up signals it was not known;
// tapping a keyword chip signals partial familiarity; quiz outcomes are the
// strongest recall signal.
const (
	QualityDefinitionLookup = 1
	QualityWrongAnswer      = 2
	QualityKeywordClick     = 3
	QualityCorrectAnswer    = 5
)

// minEaseFactor is the SM-2 floor; the ease factor has no ceiling.
const minEaseFactor = 1.3

// ErrInvalidQuality is returned when a quality score outside [0, 5] is
// passed to Vocab.Update. This is a contract violation, never clamped.
var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

// OutOfSessionID marks vocabulary encounters recorded outside any learning
// session, such as a bare /define lookup.
const OutOfSessionID = -1

// VocabEncounter is one sighting of a vocabulary root. Encounters are
// append-only and owned by exactly one Vocab.
type VocabEncounter struct {
	SessionID    int       `json:"session_id"`
	Word         string    `json:"word"`
	PartOfSpeech string    `json:"pos"`
	Snippet      string    `json:"snippet"`
	Definition   string    `json:"definition"`
	Time         time.Time `json:"time"`
}

// Summary formats the encounter for a reminder listing.
func (e VocabEncounter) Summary() string {
	kw := Keyword{
		Root:         e.Word,
		Word:         e.Word,
		PartOfSpeech: e.PartOfSpeech,
		Snippet:      e.Snippet,
		Definition:   e.Definition,
	}
	return kw.Summary()
}

// Vocab tracks a single lexical root: its encounter history, the cached
// quiz questions generated for it, and its retention schedule.
type Vocab struct {
	Root       string           `json:"root"`
	Encounters []VocabEncounter `json:"encounters,omitempty"`
	EaseFactor float64          `json:"ease_factor"`
	LastReview *time.Time       `json:"last_review,omitempty"`
	NextReview *time.Time       `json:"next_review,omitempty"`
	// Interval is the current review interval in days.
	Interval    int `json:"interval"`
	Repetitions int `json:"repetitions"`
	// Quiz is the pool of previously generated questions for this root,
	// refilled by the due-review refresher.
	Quiz []Question `json:"quiz,omitempty"`
}

// NewVocab creates a Vocab from its first keyword encounter.
func NewVocab(kw Keyword, sessionID int, now time.Time) *Vocab {
	v := &Vocab{
		Root:       kw.Root,
		EaseFactor: 2.5,
	}
	v.addEncounter(kw, sessionID, now)
	return v
}

func (v *Vocab) addEncounter(kw Keyword, sessionID int, now time.Time) {
	v.Encounters = append(v.Encounters, VocabEncounter{
		SessionID:    sessionID,
		Word:         kw.Word,
		PartOfSpeech: kw.PartOfSpeech,
		Snippet:      kw.Snippet,
		Definition:   kw.Definition,
		Time:         now,
	})
}

// Update applies one SM-2 review with the given quality score in [0, 5]
// and reschedules the next review.
//
// A failing quality (< 3) on a vocab that has already been reviewed resets
// the repetition counter and shrinks the interval back to one day. A
// failing quality on a never-reviewed vocab counts as its first
// repetition, which also yields a one-day interval.
func (v *Vocab) Update(quality int) error {
	return v.updateAt(quality, time.Now())
}

func (v *Vocab) updateAt(quality int, now time.Time) error {
	if quality < 0 || quality > 5 {
		return ErrInvalidQuality
	}

	v.EaseFactor += 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	if v.EaseFactor < minEaseFactor {
		v.EaseFactor = minEaseFactor
	}

	if quality < 3 && v.Repetitions > 0 {
		v.Repetitions = 0
		v.Interval = 1
	} else {
		v.Repetitions++
		switch v.Repetitions {
		case 1:
			v.Interval = 1
		case 2:
			v.Interval = 6
		default:
			v.Interval = int(float64(v.Interval) * v.EaseFactor)
		}
	}

	today := dateOnly(now)
	next := today.AddDate(0, 0, v.Interval)
	v.LastReview = &today
	v.NextReview = &next
	return nil
}

// CorrectAnswer records a correctly answered quiz question for this vocab.
func (v *Vocab) CorrectAnswer() error {
	return v.Update(QualityCorrectAnswer)
}

// WrongAnswer records an incorrectly answered quiz question for this vocab.
func (v *Vocab) WrongAnswer() error {
	return v.Update(QualityWrongAnswer)
}

// IsDue reports whether the vocab is scheduled for review on or before the
// given day. A vocab that has never been reviewed is not due.
func (v *Vocab) IsDue(today time.Time) bool {
	return v.NextReview != nil && !v.NextReview.After(dateOnly(today))
}

// dateOnly truncates a timestamp to its UTC calendar date so that review
// scheduling works in whole days.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Vocabulary is a per-user mapping from root to Vocab.
type Vocabulary struct {
	Items map[string]*Vocab `json:"items"`
}

// NewVocabulary returns an empty vocabulary store.
func NewVocabulary() Vocabulary {
	return Vocabulary{Items: make(map[string]*Vocab)}
}

// Get returns the vocab for a root, if tracked.
func (vc *Vocabulary) Get(root string) (*Vocab, bool) {
	v, ok := vc.Items[root]
	return v, ok
}

// Len returns the number of distinct tracked roots.
func (vc *Vocabulary) Len() int {
	return len(vc.Items)
}

// RecordEncounter appends an encounter for the keyword's root, creating
// the vocab on first sight, and applies one scheduler update with the
// given quality.
func (vc *Vocabulary) RecordEncounter(kw Keyword, sessionID int, quality int) error {
	return vc.recordEncounterAt(kw, sessionID, quality, time.Now())
}

func (vc *Vocabulary) recordEncounterAt(kw Keyword, sessionID int, quality int, now time.Time) error {
	if vc.Items == nil {
		vc.Items = make(map[string]*Vocab)
	}
	v, ok := vc.Items[kw.Root]
	if !ok {
		v = NewVocab(kw, sessionID, now)
		vc.Items[kw.Root] = v
	} else {
		v.addEncounter(kw, sessionID, now)
	}
	return v.updateAt(quality, now)
}

// DefineVocab records an explicit definition lookup of the keyword.
func (vc *Vocabulary) DefineVocab(kw Keyword, sessionID int) error {
	return vc.RecordEncounter(kw, sessionID, QualityDefinitionLookup)
}

// ClickKeyword records a keyword chip tap during a reading session.
func (vc *Vocabulary) ClickKeyword(kw Keyword, sessionID int) error {
	return vc.RecordEncounter(kw, sessionID, QualityKeywordClick)
}

// DueVocabs returns up to n vocabs due on or before today, earliest-due
// first with ties broken by root. It never mutates schedule state, so it
// is safe to call repeatedly within one refresh cycle.
func (vc *Vocabulary) DueVocabs(n int, today time.Time) []*Vocab {
	var due []*Vocab
	for _, v := range vc.Items {
		if v.IsDue(today) {
			due = append(due, v)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(*due[j].NextReview) {
			return due[i].NextReview.Before(*due[j].NextReview)
		}
		return due[i].Root < due[j].Root
	})
	if len(due) > n {
		due = due[:n]
	}
	return due
}
