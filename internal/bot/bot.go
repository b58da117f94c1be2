package bot

import (
	"context"
	"log"
	"math/rand"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/tutorbot/internal/scheduler"
	"github.com/example/tutorbot/pkg/models"
)

// maxLearnTextLength caps how much source text one session takes on.
const maxLearnTextLength = 1500

// sender is the slice of the Telegram API the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// profileStore is the slice of the profile repository the bot needs.
type profileStore interface {
	Get(userID int64) (*models.UserProfile, error)
	Set(profile *models.UserProfile) error
}

// Extractors bundles the language-model collaborators behind small
// interfaces so handlers can be tested with canned outputs.
type Extractors struct {
	Keywords     keywordSource
	Questions    questionSource
	Definitions  definitionSource
	Translations translationSource
	Tutor        tutorSource
}

type keywordSource interface {
	ExtractKeywords(ctx context.Context, text string) ([]models.Keyword, error)
}

type questionSource interface {
	ExtractQuestions(ctx context.Context, text string) ([]models.Question, error)
}

type definitionSource interface {
	ExtractDefinitions(ctx context.Context, phrase string) ([]models.Keyword, error)
}

type translationSource interface {
	ExtractTranslation(ctx context.Context, text string) (string, error)
}

type tutorSource interface {
	ExtractResponse(ctx context.Context, request string) (string, error)
}

// Options holds the bot's presentation settings.
type Options struct {
	KeywordsPerPage int
	KeywordsPerRow  int
}

// Bot routes Telegram updates into learning sessions and the vocabulary
// scheduler.
type Bot struct {
	api       sender
	store     profileStore
	extract   Extractors
	refresher *scheduler.Refresher
	opts      Options
	rng       *rand.Rand

	// pendingLearn marks users who sent a bare /learn and owe us the text.
	pendingLearn map[int64]bool
}

// New creates a bot on top of an authorized API client.
func New(api sender, store profileStore, extract Extractors, refresher *scheduler.Refresher, opts Options) *Bot {
	return &Bot{
		api:          api,
		store:        store,
		extract:      extract,
		refresher:    refresher,
		opts:         opts,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		pendingLearn: make(map[int64]bool),
	}
}

// Run consumes updates until the channel closes or the context ends.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		err = b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.PollAnswer != nil:
		err = b.handlePollAnswer(ctx, update.PollAnswer)
	}
	if err != nil {
		log.Printf("bot: update failed: %v", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "learn", "learnnew":
		return b.handleLearn(ctx, message)
	case "stoplearn":
		return b.handleStopLearn(message)
	case "morequestions":
		return b.handleMoreQuestions(ctx, message)
	case "define", "def":
		return b.handleDefine(ctx, message)
	case "translate", "trans":
		return b.handleTranslate(ctx, message)
	case "vocabs":
		return b.handleVocabs(ctx, message)
	case "vocabquiz":
		return b.handleVocabQuiz(message)
	case "export":
		return b.handleExport(message)
	case "stats":
		return b.handleStats(message)
	case "help", "start":
		return b.handleHelp(message)
	default:
		return b.reply(message.Chat.ID, "Unknown command. Send /help to see what I can do.")
	}
}

// handleText routes non-command text: it is either the source text a bare
// /learn is waiting for, or a free-form question for the tutor.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	if b.pendingLearn[userID] {
		delete(b.pendingLearn, userID)
		return b.startLearning(ctx, userID, message.Chat.ID, message.Text)
	}
	return b.handleAskAnything(ctx, message)
}

func (b *Bot) reply(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
