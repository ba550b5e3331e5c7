package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a handler with its registration details and
// middleware. MatchFunc, when set, takes precedence over Pattern/MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	MatchType   tgbot.MatchType
	MatchFunc   tgbot.MatchFunc
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
}

// RegisterAllCommands initializes and returns a map of all bot handlers:
// commands, menu and onboarding callbacks, and inline mode.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	if deps.Questions == nil {
		deps.Questions = NewQuestionCache()
	}

	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/stats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stats",
		Handler:     NewStatsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{AdminOnly(deps)},
	}

	menuHandler := NewMenuHandler(deps)
	menuMiddleware := []tgbot.Middleware{RegisteredOnly(deps)}
	for _, action := range []string{"answers", "yes_no", "prediction", "compatibility", "qualities"} {
		handlers["menu:"+action] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     action,
			Handler:     menuHandler,
			MatchType:   tgbot.MatchTypeExact,
			Middleware:  menuMiddleware,
		}
	}

	handlers["onboarding:name"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "name_",
		Handler:     NewNameHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	handlers["inline:readings"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "get_",
		Handler:     NewInlineCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["inline:query"] = RegisteredHandler{
		MatchFunc: func(update *models.Update) bool {
			return update.InlineQuery != nil
		},
		Handler: NewInlineQueryHandler(deps),
	}

	return handlers
}
