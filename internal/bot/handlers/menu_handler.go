package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMenuHandler returns a handler for the main menu callbacks. The daily
// prediction runs immediately; the other actions prompt for input and park
// the chat in the matching conversation state.
func NewMenuHandler(deps HandlerDeps) bot.HandlerFunc {
	return menuHandler{deps}.Handle
}

type menuHandler struct {
	deps HandlerDeps
}

func (h menuHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "menu")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	answerCallback(ctx, b, h.deps, cq)

	chatID, ok := callbackChatID(cq)
	if !ok {
		log.WarnContext(ctx, "Menu callback without chat", "callback_id", cq.ID, "data", cq.Data)
		return
	}
	lang := preferredLanguage(ctx, h.deps, &cq.From)

	log.InfoContext(ctx, "Handling menu action", "chat_id", chatID, "action", cq.Data)

	switch cq.Data {
	case "prediction":
		h.deps.States.Clear(chatID)
		nickname := cq.From.Username
		runReading(ctx, b, h.deps, chatID, lang, "prediction_failed", func(readCtx context.Context) (string, error) {
			return h.deps.Reporter.SingleUserReport(readCtx, nickname, h.deps.Prompts.Prediction)
		})

	case "answers":
		h.prompt(ctx, b, chatID, lang, "ask_question", StateAwaitingQuestion)

	case "yes_no":
		h.prompt(ctx, b, chatID, lang, "ask_yes_no_question", StateAwaitingYesNoQuestion)

	case "compatibility":
		h.prompt(ctx, b, chatID, lang, "ask_account", StateAwaitingCompatNick)

	case "qualities":
		h.prompt(ctx, b, chatID, lang, "ask_account", StateAwaitingQualitiesNick)

	default:
		log.WarnContext(ctx, "Unknown menu callback", "data", cq.Data)
	}
}

func (h menuHandler) prompt(ctx context.Context, b *bot.Bot, chatID int64, lang, tag string, state ChatState) {
	h.deps.States.Set(chatID, state)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase(tag, lang)}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send menu prompt", "error", err, "chat_id", chatID, "tag", tag)
	}
}
