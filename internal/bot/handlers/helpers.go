package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorneev/tarobot/internal/translations"
)

const (
	readingTimeout     = 3 * time.Minute
	sendMessageTimeout = 10 * time.Second
)

// preferredLanguage resolves the language for a sender: the stored profile
// preference if present, otherwise the primary subtag of the Telegram client
// language, otherwise the catalog default.
func preferredLanguage(ctx context.Context, deps HandlerDeps, from *models.User) string {
	if from == nil {
		return translations.DefaultLanguage
	}
	if user, err := deps.Store.GetUserByTelegramID(ctx, from.ID); err == nil && user != nil && user.Language != "" {
		return user.Language
	}
	lang := from.LanguageCode
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return translations.DefaultLanguage
	}
	return lang
}

// callbackChatID extracts the originating chat of a callback query. Inline
// mode callbacks carry no chat and report ok=false.
func callbackChatID(cq *models.CallbackQuery) (int64, bool) {
	if cq == nil || cq.Message.Message == nil {
		return 0, false
	}
	return cq.Message.Message.Chat.ID, true
}

// answerCallback acknowledges a callback query so the client stops showing
// the progress indicator. Failures are non-fatal and only logged.
func answerCallback(ctx context.Context, b *bot.Bot, deps HandlerDeps, cq *models.CallbackQuery) {
	if cq == nil {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		deps.Logger.WarnContext(ctx, "Failed to answer callback query", "error", err, "callback_id", cq.ID)
	}
}

// mainMenu builds the top-level action keyboard in the given language.
func mainMenu(deps HandlerDeps, lang string) models.InlineKeyboardMarkup {
	return MainMenu(deps.Phrases, lang)
}

// MainMenu builds the top-level action keyboard in the given language.
// Exported for the broadcast task, which attaches it to outgoing readings.
func MainMenu(p *translations.Catalog, lang string) models.InlineKeyboardMarkup {
	return models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: p.Phrase("menu_answers", lang), CallbackData: "answers"},
				{Text: p.Phrase("menu_yes_no", lang), CallbackData: "yes_no"},
			},
			{
				{Text: p.Phrase("menu_prediction", lang), CallbackData: "prediction"},
			},
			{
				{Text: p.Phrase("menu_compatibility", lang), CallbackData: "compatibility"},
				{Text: p.Phrase("menu_qualities", lang), CallbackData: "qualities"},
			},
		},
	}
}

// runReading drives the shared flow for every chat reading: show a shuffling
// message, run the generator with a bounded context, then edit the shuffling
// message into the result, or into the failTag phrase on error.
func runReading(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, lang, failTag string, generate func(context.Context) (string, error)) {
	log := deps.Logger.With("chat_id", chatID)

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	loading, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Phrases.Phrase("shuffling", lang),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send shuffling message", "error", err)
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, readingTimeout)
	defer cancel()

	text, err := generate(readCtx)
	if err != nil {
		log.ErrorContext(ctx, "Reading generation failed", "error", err)
		editMessage(ctx, b, deps, chatID, loading.ID, deps.Phrases.Phrase(failTag, lang))
		return
	}

	editMessage(ctx, b, deps, chatID, loading.ID, text)
}

// editMessage replaces a message's text, trying Markdown first and falling
// back to plain text when the generated content does not parse.
func editMessage(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, messageID int, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := b.EditMessageText(sendCtx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err == nil {
		return
	}

	deps.Logger.WarnContext(ctx, "Markdown edit failed, retrying as plain text", "error", err, "chat_id", chatID, "message_id", messageID)
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

// editInlineMessage is editMessage for inline mode results, addressed by
// inline message ID instead of chat and message IDs.
func editInlineMessage(ctx context.Context, b *bot.Bot, deps HandlerDeps, inlineMessageID, text string) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		InlineMessageID: inlineMessageID,
		Text:            text,
		ParseMode:       models.ParseModeMarkdown,
	})
	if err == nil {
		return
	}

	deps.Logger.WarnContext(ctx, "Markdown inline edit failed, retrying as plain text", "error", err)
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		InlineMessageID: inlineMessageID,
		Text:            text,
	}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to edit inline message", "error", err)
	}
}
