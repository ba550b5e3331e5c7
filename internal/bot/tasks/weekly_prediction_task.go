package tasks

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorneev/tarobot/internal/bot/handlers"
	"github.com/mkorneev/tarobot/internal/database"
	"github.com/mkorneev/tarobot/internal/translations"
)

const weeklyReadingTimeout = 3 * time.Minute

// newWeeklyPredictionTask creates the scheduled task that sends every
// registered user a prediction. Per-user failures are logged and skipped so
// one bad account does not stop the broadcast; sends are paced by the
// configured broadcast delay to stay under Telegram rate limits.
func newWeeklyPredictionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "weekly_prediction")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting weekly prediction broadcast...")
		startTime := time.Now()

		users, err := deps.Store.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users for broadcast: %w", err)
		}

		sent, failed := 0, 0
		for i, user := range users {
			if ctx.Err() != nil {
				log.WarnContext(ctx, "Broadcast interrupted", "error", ctx.Err(), "sent", sent, "failed", failed)
				return ctx.Err()
			}
			if i > 0 && deps.Config.Telegram.BroadcastDelay > 0 {
				select {
				case <-time.After(deps.Config.Telegram.BroadcastDelay):
				case <-ctx.Done():
					log.WarnContext(ctx, "Broadcast interrupted", "error", ctx.Err(), "sent", sent, "failed", failed)
					return ctx.Err()
				}
			}

			if err := sendWeeklyPrediction(ctx, deps, &user); err != nil {
				log.ErrorContext(ctx, "Failed to send weekly prediction", "error", err,
					"telegram_user_id", user.TelegramUserID, "chat_id", user.TelegramChatID)
				failed++
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Weekly prediction broadcast finished",
			"sent", sent, "failed", failed, "duration", time.Since(startTime))
		return nil
	}
}

func sendWeeklyPrediction(ctx context.Context, deps TaskDeps, user *database.User) error {
	if user.TelegramChatID == 0 {
		return fmt.Errorf("user %d has no chat", user.TelegramUserID)
	}

	readCtx, cancel := context.WithTimeout(ctx, weeklyReadingTimeout)
	defer cancel()

	report, err := deps.Reporter.SingleUserReport(readCtx, user.Username, deps.Prompts.Prediction)
	if err != nil {
		return fmt.Errorf("reading generation failed: %w", err)
	}

	lang := user.Language
	if lang == "" {
		lang = translations.DefaultLanguage
	}
	name := user.Name
	if name == "" {
		name = "@" + user.Username
	}
	text := fmt.Sprintf("%s %s\n\n%s", deps.Phrases.Phrase("weekly_header", lang), name, report)
	menu := handlers.MainMenu(deps.Phrases, lang)

	_, err = deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      user.TelegramChatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: &menu,
	})
	if err != nil {
		// Generated text may contain markup Telegram rejects.
		_, err = deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      user.TelegramChatID,
			Text:        text,
			ReplyMarkup: &menu,
		})
	}
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}
