// Package handlers contains Telegram bot command, callback, and inline query
// handlers, along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that checks if the message sender is the
// configured admin user. If not, it replies with a not-authorized phrase and
// stops processing.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, bot, update)
				return
			}

			userID := update.Message.From.ID
			if userID != deps.Config.Telegram.AdminUserID {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AdminOnly")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				lang := preferredLanguage(ctx, deps, update.Message.From)
				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Phrases.Phrase("not_authorized", lang),
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// RegisteredOnly creates a middleware that requires the sender to have
// completed /start onboarding. Unregistered senders are asked to run /start.
func RegisteredOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			from, chatID := senderAndChat(update)
			if from == nil {
				next(ctx, bot, update)
				return
			}

			user, err := deps.Store.GetUserByTelegramID(ctx, from.ID)
			if err != nil {
				deps.Logger.ErrorContext(ctx, "Failed to look up user for registration check", "error", err, "user_id", from.ID)
			}
			if user != nil {
				next(ctx, bot, update)
				return
			}

			if chatID == 0 {
				return
			}
			lang := preferredLanguage(ctx, deps, from)
			_, err = bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: chatID,
				Text:   deps.Phrases.Phrase("need_start", lang),
			})
			if err != nil {
				deps.Logger.ErrorContext(ctx, "Failed to send registration prompt", "error", err, "chat_id", chatID)
			}
		}
	}
}

// senderAndChat extracts the sender and chat from a message or callback
// update. Inline-mode callbacks have a sender but no chat.
func senderAndChat(update *models.Update) (*models.User, int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From, update.Message.Chat.ID
	case update.CallbackQuery != nil:
		from := &update.CallbackQuery.From
		if chatID, ok := callbackChatID(update.CallbackQuery); ok {
			return from, chatID
		}
		return from, 0
	default:
		return nil, 0
	}
}
