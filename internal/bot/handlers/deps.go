package handlers

import (
	"context"
	"log/slog"

	"github.com/mkorneev/tarobot/internal/config"
	"github.com/mkorneev/tarobot/internal/database"
	"github.com/mkorneev/tarobot/internal/prompts"
	"github.com/mkorneev/tarobot/internal/translations"
)

// Reporter produces reading text for one or two subjects. Implemented by
// report.Pipeline; narrowed to an interface so handlers can be tested with
// a fake.
type Reporter interface {
	SingleUserReport(ctx context.Context, nickname, prompt string) (string, error)
	DualUserReport(ctx context.Context, fromNick, aboutNick, prompt string) (string, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Reporter Reporter
	Prompts  *prompts.Set
	Phrases  *translations.Catalog
	States   *ChatStates

	// Questions holds pending inline-mode questions keyed by the short ID
	// embedded in callback data, since callback payloads are too small to
	// carry the question text itself.
	Questions *QuestionCache
}
