package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command. It greets
// returning users with the action menu and walks new users through
// onboarding (display name, then birth date).
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID
	lang := preferredLanguage(ctx, h.deps, from)

	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", from.ID)

	user, err := h.deps.Store.GetUserByTelegramID(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up user", "error", err, "user_id", from.ID)
	}

	if user != nil && user.ZodiacSign != "" {
		h.deps.States.Clear(chatID)
		name := user.Name
		if name == "" {
			name = from.Username
		}
		greeting := fmt.Sprintf(h.deps.Phrases.Phrase("start_registered_greeting", lang),
			name, h.deps.Phrases.Phrase(user.ZodiacSign, lang))
		kb := mainMenu(h.deps, lang)
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: greeting, ReplyMarkup: &kb}); err != nil {
			log.ErrorContext(ctx, "Failed to send greeting", "error", err, "chat_id", chatID)
		}
		return
	}

	if user != nil {
		// Name already chosen, onboarding stopped before the birth date.
		h.deps.States.Set(chatID, StateAwaitingBirthDate)
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("ask_birth_date", lang)}); err != nil {
			log.ErrorContext(ctx, "Failed to send birth date prompt", "error", err, "chat_id", chatID)
		}
		return
	}

	if from.Username == "" {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("no_nickname", lang)}); err != nil {
			log.ErrorContext(ctx, "Failed to send nickname warning", "error", err, "chat_id", chatID)
		}
	} else {
		greeting := fmt.Sprintf(h.deps.Phrases.Phrase("start_greeting", lang), "@"+from.Username)
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: greeting}); err != nil {
			log.ErrorContext(ctx, "Failed to send greeting", "error", err, "chat_id", chatID)
		}
	}

	h.deps.States.Set(chatID, StateAwaitingName)
	kb := nameKeyboard(h.deps, lang, from)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Phrases.Phrase("ask_name", lang),
		ReplyMarkup: &kb,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send name prompt", "error", err, "chat_id", chatID)
	}
}

// nameKeyboard offers the sender's username and full name as one-tap display
// name choices, plus a skip button.
func nameKeyboard(deps HandlerDeps, lang string, from *models.User) models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	if from.Username != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "@" + from.Username, CallbackData: "name_username"},
		})
	}
	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if fullName != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: fullName, CallbackData: "name_full"},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: deps.Phrases.Phrase("skip_button", lang), CallbackData: "name_skip"},
	})
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
