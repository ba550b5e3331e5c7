// Package tasks implements scheduled tasks for the bot: the weekly
// prediction broadcast and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/mkorneev/tarobot/internal/bot/handlers"
	"github.com/mkorneev/tarobot/internal/config"
	"github.com/mkorneev/tarobot/internal/database"
	"github.com/mkorneev/tarobot/internal/prompts"
	"github.com/mkorneev/tarobot/internal/translations"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Bot      *tgbot.Bot
	Reporter handlers.Reporter
	Prompts  *prompts.Set
	Phrases  *translations.Catalog
}
