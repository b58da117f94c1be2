package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/tutorbot/pkg/models"
)

// Callback data for keyword keyboard navigation. Keyword chips carry
// "keyword <word>".
const (
	callbackPrevPage = "prev_page"
	callbackNextPage = "next_page"
	keywordPrefix    = "keyword "
)

// keywordKeyboard renders the current keyword page as tappable chips with
// navigation controls on the last row.
func (b *Bot) keywordKeyboard(session *models.LearningSession) tgbotapi.InlineKeyboardMarkup {
	page := session.KeywordPage(b.opts.KeywordsPerPage)

	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 0; start < len(page); start += b.opts.KeywordsPerRow {
		end := start + b.opts.KeywordsPerRow
		if end > len(page) {
			end = len(page)
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, kw := range page[start:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(kw.Word, keywordPrefix+kw.Word))
		}
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("<<", callbackPrevPage),
		tgbotapi.NewInlineKeyboardButtonData(">>", callbackNextPage),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleCallback reacts to keyword chip taps and page navigation.
func (b *Bot) handleCallback(_ context.Context, query *tgbotapi.CallbackQuery) error {
	profile, err := b.store.Get(query.From.ID)
	if err != nil {
		return err
	}
	session, ok := profile.LastSession()
	if !ok {
		return b.answerCallback(query.ID, "No active session.")
	}

	switch {
	case query.Data == callbackPrevPage:
		if !session.PrevKeywordPage(b.opts.KeywordsPerPage) {
			return b.answerCallback(query.ID, "")
		}
		if err := b.store.Set(profile); err != nil {
			return err
		}
		return b.editKeyboard(query, session)

	case query.Data == callbackNextPage:
		if !session.NextKeywordPage(b.opts.KeywordsPerPage) {
			return b.answerCallback(query.ID, "")
		}
		if err := b.store.Set(profile); err != nil {
			return err
		}
		return b.editKeyboard(query, session)

	case strings.HasPrefix(query.Data, keywordPrefix):
		word := strings.TrimPrefix(query.Data, keywordPrefix)
		keyword, found := session.FindKeyword(word)
		if !found {
			// Stale chip from an earlier session.
			return b.answerCallback(query.ID, "Keyword not found.")
		}
		if err := profile.Vocabs.ClickKeyword(keyword, session.SessionID); err != nil {
			return err
		}
		if err := b.store.Set(profile); err != nil {
			return err
		}
		if query.Message != nil && query.Message.Text == keyword.Summary() {
			// Same chip tapped twice, nothing to redraw.
			return b.answerCallback(query.ID, "")
		}
		edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, keyword.Summary())
		markup := b.keywordKeyboard(session)
		edit.ReplyMarkup = &markup
		_, err = b.api.Send(edit)
		return err
	}
	return b.answerCallback(query.ID, "")
}

func (b *Bot) editKeyboard(query *tgbotapi.CallbackQuery, session *models.LearningSession) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(
		query.Message.Chat.ID, query.Message.MessageID, b.keywordKeyboard(session))
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) answerCallback(queryID, text string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(queryID, text))
	return err
}
