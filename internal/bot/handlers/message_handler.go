package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorneev/tarobot/internal/astro"
	"github.com/mkorneev/tarobot/internal/database"
)

const birthDateLayout = "02.01.2006"

var accountPattern = regexp.MustCompile(`^@[A-Za-z0-9_]{3,}$`)

// NewMessageHandler returns the default handler for free-text messages. It
// routes input according to the chat's conversation state: onboarding
// answers, reading questions, or account nicknames.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		// Unknown command, not conversation input.
		return
	}

	chatID := msg.Chat.ID
	from := msg.From
	text := strings.TrimSpace(msg.Text)
	lang := preferredLanguage(ctx, h.deps, from)

	switch h.deps.States.Get(chatID) {
	case StateAwaitingName:
		completeNameStep(ctx, b, h.deps, chatID, from, text, lang)

	case StateAwaitingBirthDate:
		h.handleBirthDate(ctx, b, chatID, from, text, lang)

	case StateAwaitingQuestion:
		h.deps.States.Clear(chatID)
		nickname := from.Username
		prompt := text + "\n\n" + h.deps.Prompts.Answers
		runReading(ctx, b, h.deps, chatID, lang, "prediction_failed", func(readCtx context.Context) (string, error) {
			return h.deps.Reporter.SingleUserReport(readCtx, nickname, prompt)
		})

	case StateAwaitingYesNoQuestion:
		h.deps.States.Clear(chatID)
		nickname := from.Username
		prompt := text + "\n\n" + h.deps.Prompts.YesNo
		runReading(ctx, b, h.deps, chatID, lang, "prediction_failed", func(readCtx context.Context) (string, error) {
			return h.deps.Reporter.SingleUserReport(readCtx, nickname, prompt)
		})

	case StateAwaitingCompatNick:
		about, ok := h.parseAccount(ctx, b, chatID, text, lang)
		if !ok {
			return
		}
		h.deps.States.Clear(chatID)
		fromNick := from.Username
		runReading(ctx, b, h.deps, chatID, lang, "tarot_unknown_person", func(readCtx context.Context) (string, error) {
			return h.deps.Reporter.DualUserReport(readCtx, fromNick, about, h.deps.Prompts.Compatibility)
		})

	case StateAwaitingQualitiesNick:
		about, ok := h.parseAccount(ctx, b, chatID, text, lang)
		if !ok {
			return
		}
		h.deps.States.Clear(chatID)
		runReading(ctx, b, h.deps, chatID, lang, "tarot_unknown_person", func(readCtx context.Context) (string, error) {
			return h.deps.Reporter.SingleUserReport(readCtx, about, h.deps.Prompts.Qualities)
		})

	default:
		log.DebugContext(ctx, "Free text outside any conversation state", "chat_id", chatID)
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("use_menu", lang)}); err != nil {
			log.ErrorContext(ctx, "Failed to send menu hint", "error", err, "chat_id", chatID)
		}
	}
}

// parseAccount validates an "@nickname" reply and returns the bare nickname.
// On bad input it re-prompts and keeps the conversation state unchanged.
func (h messageHandler) parseAccount(ctx context.Context, b *bot.Bot, chatID int64, text, lang string) (string, bool) {
	if !accountPattern.MatchString(text) {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("invalid_account_format", lang)}); err != nil {
			h.deps.Logger.ErrorContext(ctx, "Failed to send format hint", "error", err, "chat_id", chatID)
		}
		return "", false
	}
	return strings.TrimPrefix(text, "@"), true
}

func (h messageHandler) handleBirthDate(ctx context.Context, b *bot.Bot, chatID int64, from *models.User, text, lang string) {
	log := h.deps.Logger.With("handler", "message")

	birthDate, err := time.Parse(birthDateLayout, text)
	if err != nil {
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("invalid_birth_date", lang)}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send date hint", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	user, err := h.deps.Store.GetUserByTelegramID(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up user", "error", err, "user_id", from.ID)
	}
	if user == nil {
		user = &database.User{TelegramUserID: from.ID, Language: lang}
	}
	user.TelegramChatID = chatID
	user.Username = from.Username
	user.ZodiacSign = astro.ZodiacSign(birthDate)

	if err := h.deps.Store.SaveUser(ctx, user); err != nil {
		log.ErrorContext(ctx, "Failed to save user", "error", err, "user_id", from.ID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Phrases.Phrase("error_generic", lang)}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	h.deps.States.Clear(chatID)
	done := fmt.Sprintf(h.deps.Phrases.Phrase("registration_done", lang), h.deps.Phrases.Phrase(user.ZodiacSign, lang))
	kb := mainMenu(h.deps, lang)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: done, ReplyMarkup: &kb}); err != nil {
		log.ErrorContext(ctx, "Failed to send registration confirmation", "error", err, "chat_id", chatID)
	}
}
