package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorneev/tarobot/internal/database"
)

// NewNameHandler returns a handler for the onboarding name keyboard
// ("name_username", "name_full", "name_skip" callbacks).
func NewNameHandler(deps HandlerDeps) bot.HandlerFunc {
	return nameHandler{deps}.Handle
}

type nameHandler struct {
	deps HandlerDeps
}

func (h nameHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "name")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	answerCallback(ctx, b, h.deps, cq)

	chatID, ok := callbackChatID(cq)
	if !ok {
		log.WarnContext(ctx, "Name callback without chat", "callback_id", cq.ID)
		return
	}
	if h.deps.States.Get(chatID) != StateAwaitingName {
		return
	}

	var name string
	switch cq.Data {
	case "name_username":
		name = "@" + cq.From.Username
	case "name_full":
		name = strings.TrimSpace(cq.From.FirstName + " " + cq.From.LastName)
	case "name_skip":
		name = ""
	default:
		log.WarnContext(ctx, "Unknown name callback", "data", cq.Data)
		return
	}

	lang := preferredLanguage(ctx, h.deps, &cq.From)
	completeNameStep(ctx, b, h.deps, chatID, &cq.From, name, lang)
}

// completeNameStep persists the user with the chosen display name and moves
// the conversation on to the birth date question. Shared by the keyboard
// callbacks and free-text name input.
func completeNameStep(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, from *models.User, name, lang string) {
	log := deps.Logger.With("handler", "name")

	user := &database.User{
		TelegramUserID: from.ID,
		TelegramChatID: chatID,
		Username:       from.Username,
		Name:           name,
		Language:       lang,
	}
	if err := deps.Store.SaveUser(ctx, user); err != nil {
		log.ErrorContext(ctx, "Failed to save user", "error", err, "user_id", from.ID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Phrases.Phrase("error_generic", lang)}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	deps.States.Set(chatID, StateAwaitingBirthDate)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Phrases.Phrase("ask_birth_date", lang)}); err != nil {
		log.ErrorContext(ctx, "Failed to send birth date prompt", "error", err, "chat_id", chatID)
	}
}
