package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/tutorbot/internal/excel"
	"github.com/example/tutorbot/pkg/models"
)

const helpText = `Welcome to GermanTutor Bot!

Send /learn: start learning a German text. I'll help you:
- Learn keywords from the text
- Practice with quiz questions
- Translate the text
Send /vocabs: list vocabs to learn today, extracted from your activity
Send /vocabquiz: quiz yourself on your due vocabs
Send /define Danke: short definition of the word 'Danke'
Send /translate Es war einmal: translate the phrase 'Es war einmal'
Send /export: download your vocabulary as a spreadsheet
Send /stats: see your learning statistics
Send any question, like 'Why "Ich weiß, dass ich Deutsch lernen kann" and not "dass ich kann lernen Deutsch"?'
Send /help to see this message.`

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	return b.reply(message.Chat.ID, helpText)
}

// handleLearn starts a learning session from the command argument, or asks
// for the text and remembers that it is owed.
func (b *Bot) handleLearn(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		b.pendingLearn[message.From.ID] = true
		return b.reply(message.Chat.ID, "Please send a German text you want to learn:")
	}
	return b.startLearning(ctx, message.From.ID, message.Chat.ID, text)
}

// startLearning opens a session and fills it: keyword and question
// extraction run concurrently and are joined before the first question is
// asked.
func (b *Bot) startLearning(ctx context.Context, userID, chatID int64, text string) error {
	if runes := []rune(text); len(runes) > maxLearnTextLength {
		text = string(runes[:maxLearnTextLength])
	}

	profile, err := b.store.Get(userID)
	if err != nil {
		return err
	}
	session := profile.StartSession(chatID, text, time.Now())

	if err := b.reply(chatID, "I'm extracting keywords and questions, please wait ~30 seconds..."); err != nil {
		return err
	}

	type keywordResult struct {
		keywords []models.Keyword
		err      error
	}
	type questionResult struct {
		questions []models.Question
		err       error
	}
	keywordCh := make(chan keywordResult, 1)
	questionCh := make(chan questionResult, 1)
	go func() {
		kws, err := b.extract.Keywords.ExtractKeywords(ctx, text)
		keywordCh <- keywordResult{kws, err}
	}()
	go func() {
		qs, err := b.extract.Questions.ExtractQuestions(ctx, text)
		questionCh <- questionResult{qs, err}
	}()
	kr, qr := <-keywordCh, <-questionCh
	if kr.err != nil {
		return fmt.Errorf("keyword extraction failed: %w", kr.err)
	}
	if qr.err != nil {
		return fmt.Errorf("question extraction failed: %w", qr.err)
	}

	if err := session.Activate(kr.keywords, qr.questions); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "Click a keyword to learn more:")
	msg.ReplyMarkup = b.keywordKeyboard(session)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}

	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.askNextQuestion(profile, session)
}

// askNextQuestion posts the next quiz question as a quiz poll, or the
// session summary once the quiz is exhausted.
func (b *Bot) askNextQuestion(profile *models.UserProfile, session *models.LearningSession) error {
	question, ok := session.NextQuestion(time.Now())
	if !ok {
		if err := b.reply(session.ChatID, session.SummaryQuiz()); err != nil {
			return err
		}
		if session.IsVocabQuiz() {
			return b.reply(session.ChatID, "Send /vocabs to practice more")
		}
		return b.reply(session.ChatID, "Send /morequestions, /translate, /stoplearn, or /learnnew to proceed")
	}

	poll := tgbotapi.NewPoll(session.ChatID, question.Text, question.Options...)
	poll.Type = "quiz"
	poll.IsAnonymous = false
	poll.CorrectOptionID = int64(question.CorrectIndex)
	poll.Explanation = question.Explanation
	if _, err := b.api.Send(poll); err != nil {
		return err
	}
	return b.store.Set(profile)
}

// handlePollAnswer records the answer on the last asked question. For a
// vocab quiz the outcome also grades the matched vocab before the next
// question goes out.
func (b *Bot) handlePollAnswer(_ context.Context, answer *tgbotapi.PollAnswer) error {
	profile, err := b.store.Get(answer.User.ID)
	if err != nil {
		return err
	}
	session, ok := profile.LastSession()
	if !ok {
		return nil
	}
	question, ok := session.LastAskedQuestion()
	if !ok || len(answer.OptionIDs) == 0 {
		return nil
	}
	question.Answer(answer.OptionIDs[0], time.Now())

	if root, ok := session.LastAskedVocabRoot(); ok {
		if vocab, found := profile.Vocabs.Get(root); found {
			if question.IsCorrect() {
				err = vocab.CorrectAnswer()
			} else {
				err = vocab.WrongAnswer()
			}
			if err != nil {
				return err
			}
		}
	}

	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.askNextQuestion(profile, session)
}

// handleMoreQuestions extends the current session's quiz with a fresh
// batch and resumes asking.
func (b *Bot) handleMoreQuestions(ctx context.Context, message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	session, ok := profile.LastSession()
	if !ok || session.State() == models.StateClosed {
		return b.reply(message.Chat.ID, "No open session. Send /learn to start one.")
	}

	if err := b.reply(message.Chat.ID, "Generating new quiz..."); err != nil {
		return err
	}
	questions, err := b.extract.Questions.ExtractQuestions(ctx, session.Text)
	if err != nil {
		return fmt.Errorf("question extraction failed: %w", err)
	}
	if err := session.ExtendQuiz(questions); err != nil {
		return err
	}
	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.askNextQuestion(profile, session)
}

func (b *Bot) handleStopLearn(message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	session, ok := profile.LastSession()
	if !ok {
		return b.reply(message.Chat.ID, "No session to stop.")
	}
	if err := session.Close(time.Now()); err != nil {
		return b.reply(message.Chat.ID, "The session is already closed.")
	}
	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.reply(message.Chat.ID, session.Summary())
}

// handleDefine looks up a phrase. Every returned keyword counts as a
// definition lookup against the vocabulary scheduler, outside any session.
// When the extractor finds nothing the tutor answers free-form instead.
func (b *Bot) handleDefine(ctx context.Context, message *tgbotapi.Message) error {
	phrase := strings.TrimSpace(message.CommandArguments())
	if phrase == "" {
		return b.reply(message.Chat.ID, "No word to define. Send /define <word>")
	}

	keywords, err := b.extract.Definitions.ExtractDefinitions(ctx, phrase)
	if err != nil {
		return fmt.Errorf("definition extraction failed: %w", err)
	}
	if len(keywords) == 0 {
		answer, err := b.extract.Tutor.ExtractResponse(ctx, fmt.Sprintf("What does `%s` mean?", phrase))
		if err != nil {
			return err
		}
		return b.reply(message.Chat.ID, answer)
	}

	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	summaries := make([]string, len(keywords))
	for i, keyword := range keywords {
		if err := profile.Vocabs.DefineVocab(keyword, models.OutOfSessionID); err != nil {
			return err
		}
		summaries[i] = keyword.Summary()
	}
	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.reply(message.Chat.ID, strings.Join(summaries, "\n\n"))
}

// handleTranslate translates the given text, or the open session's text
// with the result cached on the session.
func (b *Bot) handleTranslate(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.CommandArguments())
	if text != "" {
		translation, err := b.extract.Translations.ExtractTranslation(ctx, text)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		return b.reply(message.Chat.ID, translation)
	}

	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	session, ok := profile.LastSession()
	if !ok || session.State() == models.StateClosed {
		return b.reply(message.Chat.ID, "No text to translate. Send /translate <text>")
	}
	if session.Translation == "" {
		translation, err := b.extract.Translations.ExtractTranslation(ctx, session.Text)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		session.Translation = translation
		if err := b.store.Set(profile); err != nil {
			return err
		}
	}
	return b.reply(message.Chat.ID, session.Translation)
}

// handleVocabs lists today's due vocabs with their encounter history, then
// tops up their quiz pools so /vocabquiz has questions ready.
func (b *Bot) handleVocabs(ctx context.Context, message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}

	due := profile.Vocabs.DueVocabs(10, time.Now())
	if len(due) == 0 {
		return b.reply(message.Chat.ID, "No more vocabs due today, great job!")
	}

	if err := b.reply(message.Chat.ID, formatDueVocabs(due)); err != nil {
		return err
	}

	if _, err := b.refresher.RefreshVocabQuizzes(ctx, profile); err != nil {
		return fmt.Errorf("quiz refresh failed: %w", err)
	}
	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.reply(message.Chat.ID, "Send /vocabquiz to show how well you remember these words.")
}

func formatDueVocabs(due []*models.Vocab) string {
	var sb strings.Builder
	sb.WriteString("Here are your due vocabs for today:\n\n")
	for i, vocab := range due {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, vocab.Root)
		for _, encounter := range vocab.Encounters {
			fmt.Fprintf(&sb, "  - %s\n", encounter.Summary())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// handleVocabQuiz builds a review session from due vocabs that have cached
// questions and starts asking.
func (b *Bot) handleVocabQuiz(message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}

	due := profile.Vocabs.DueVocabs(20, time.Now())
	questions, roots := models.PickVocabQuiz(due, 10, b.rng)
	if len(questions) == 0 {
		return b.reply(message.Chat.ID, "No quiz questions ready yet. Send /vocabs first.")
	}

	session, err := profile.StartVocabQuiz(message.Chat.ID, questions, roots, time.Now())
	if err != nil {
		return err
	}
	if err := b.store.Set(profile); err != nil {
		return err
	}
	return b.askNextQuestion(profile, session)
}

// handleExport sends the vocabulary report as a spreadsheet.
func (b *Bot) handleExport(message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	data, err := excel.ExportVocabulary(profile)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  "vocabulary.xlsx",
		Bytes: data,
	})
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleStats(message *tgbotapi.Message) error {
	profile, err := b.store.Get(message.From.ID)
	if err != nil {
		return err
	}
	return b.reply(message.Chat.ID, profile.Summary())
}

// handleAskAnything forwards a free-form question to the tutor.
func (b *Bot) handleAskAnything(ctx context.Context, message *tgbotapi.Message) error {
	answer, err := b.extract.Tutor.ExtractResponse(ctx, message.Text)
	if err != nil {
		return fmt.Errorf("tutor response failed: %w", err)
	}
	return b.reply(message.Chat.ID, answer)
}

// SendDueReminder implements the scheduler's notifier: it posts the due
// list to the user's most recent chat. Users with no sessions yet have no
// chat to write to and are skipped.
func (b *Bot) SendDueReminder(profile *models.UserProfile, due []*models.Vocab) error {
	session, ok := profile.LastSession()
	if !ok {
		return nil
	}
	if err := b.reply(session.ChatID, formatDueVocabs(due)); err != nil {
		return err
	}
	return b.reply(session.ChatID, "Send /vocabquiz to show how well you remember these words.")
}
