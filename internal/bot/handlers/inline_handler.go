package handlers

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var (
	inlineNickPattern = regexp.MustCompile(`^@([A-Za-z0-9_]{3,})$`)

	// Pair nicknames are capped at 26 characters each so the joined
	// "get_comp2_" callback data stays within Telegram's 64-byte limit.
	// Longer pairs fall through to the question branch.
	inlineNickPairPattern = regexp.MustCompile(`^@([A-Za-z0-9_]{3,26})\s+@([A-Za-z0-9_]{3,26})$`)
)

// NewInlineQueryHandler returns a handler for inline queries. A single
// "@nickname" offers a prediction, a qualities reading, and a compatibility
// reading with the sender; "@a @b" offers compatibility for the pair; any
// other text is treated as a question.
func NewInlineQueryHandler(deps HandlerDeps) bot.HandlerFunc {
	return inlineQueryHandler{deps}.Handle
}

type inlineQueryHandler struct {
	deps HandlerDeps
}

func (h inlineQueryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "inline_query")

	iq := update.InlineQuery
	if iq == nil {
		return
	}
	query := strings.TrimSpace(iq.Query)
	results := h.results(ctx, iq)

	_, err := b.AnswerInlineQuery(ctx, &bot.AnswerInlineQueryParams{
		InlineQueryID: iq.ID,
		Results:       results,
		CacheTime:     1,
		IsPersonal:    true,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer inline query", "error", err, "query", query)
	}
}

// results builds the article list offered for an inline query.
func (h inlineQueryHandler) results(ctx context.Context, iq *models.InlineQuery) []models.InlineQueryResult {
	lang := preferredLanguage(ctx, h.deps, iq.From)
	query := strings.TrimSpace(iq.Query)

	switch {
	case query == "":
		return []models.InlineQueryResult{h.hintArticle(lang)}

	case inlineNickPairPattern.MatchString(query):
		m := inlineNickPairPattern.FindStringSubmatch(query)
		return []models.InlineQueryResult{
			h.readingArticle("comp2", "menu_compatibility", lang, "@"+m[1]+" @"+m[2],
				"get_comp2_"+EncodeNickname(m[1])+"_"+EncodeNickname(m[2])),
		}

	case inlineNickPattern.MatchString(query):
		nick := inlineNickPattern.FindStringSubmatch(query)[1]
		enc := EncodeNickname(nick)
		return []models.InlineQueryResult{
			h.readingArticle("pred", "menu_prediction", lang, "@"+nick, "get_pred_"+enc),
			h.readingArticle("qual", "menu_qualities", lang, "@"+nick, "get_qual_"+enc),
			h.readingArticle("comp", "menu_compatibility", lang, "@"+nick, "get_comp_"+enc),
		}

	default:
		id := h.deps.Questions.Put(query)
		return []models.InlineQueryResult{
			h.readingArticle("q", "menu_answers", lang, query, "get_q_"+id),
			h.readingArticle("yesno", "menu_yes_no", lang, query, "get_yesno_"+id),
		}
	}
}

func (h inlineQueryHandler) hintArticle(lang string) models.InlineQueryResult {
	p := h.deps.Phrases
	return &models.InlineQueryResultArticle{
		ID:          "hint",
		Title:       p.Phrase("inline_hint_title", lang),
		Description: p.Phrase("inline_hint_description", lang),
		InputMessageContent: &models.InputTextMessageContent{
			MessageText: p.Phrase("inline_hint_text", lang),
		},
	}
}

// readingArticle builds an article whose sent message carries a single
// button; pressing it generates the reading in place.
func (h inlineQueryHandler) readingArticle(id, titleTag, lang, payload, callbackData string) models.InlineQueryResult {
	p := h.deps.Phrases
	title := p.Phrase(titleTag, lang)
	return &models.InlineQueryResultArticle{
		ID:          id,
		Title:       title,
		Description: payload,
		InputMessageContent: &models.InputTextMessageContent{
			MessageText: title + "\n" + payload,
		},
		ReplyMarkup: models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: p.Phrase("inline_get_button", lang), CallbackData: callbackData}},
			},
		},
	}
}

// NewInlineCallbackHandler returns a handler for the "get_*" buttons attached
// to inline-mode messages. It replaces the message text with the generated
// reading.
func NewInlineCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return inlineCallbackHandler{deps}.Handle
}

type inlineCallbackHandler struct {
	deps HandlerDeps
}

func (h inlineCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "inline_callback")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	answerCallback(ctx, b, h.deps, cq)

	if cq.InlineMessageID == "" {
		log.WarnContext(ctx, "Reading callback without inline message", "data", cq.Data)
		return
	}

	lang := preferredLanguage(ctx, h.deps, &cq.From)
	payload := strings.TrimPrefix(cq.Data, "get_")

	generate, failTag, ok := h.resolve(payload, &cq.From)
	if !ok {
		log.WarnContext(ctx, "Unresolvable reading callback", "data", cq.Data)
		editInlineMessage(ctx, b, h.deps, cq.InlineMessageID, h.deps.Phrases.Phrase("error_generic", lang))
		return
	}

	log.InfoContext(ctx, "Handling inline reading", "data", cq.Data, "user_id", cq.From.ID)

	editInlineMessage(ctx, b, h.deps, cq.InlineMessageID, h.deps.Phrases.Phrase("shuffling", lang))

	readCtx, cancel := context.WithTimeout(ctx, readingTimeout)
	defer cancel()

	text, err := generate(readCtx)
	if err != nil {
		log.ErrorContext(ctx, "Inline reading generation failed", "error", err, "data", cq.Data)
		editInlineMessage(ctx, b, h.deps, cq.InlineMessageID, h.deps.Phrases.Phrase(failTag, lang))
		return
	}
	editInlineMessage(ctx, b, h.deps, cq.InlineMessageID, text)
}

// resolve maps callback payloads to a generator and the phrase to show on
// failure. "comp2" is matched before "comp" because they share a prefix.
func (h inlineCallbackHandler) resolve(payload string, from *models.User) (func(context.Context) (string, error), string, bool) {
	deps := h.deps

	switch {
	case strings.HasPrefix(payload, "pred_"):
		nick := DecodeNickname(strings.TrimPrefix(payload, "pred_"))
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.SingleUserReport(ctx, nick, deps.Prompts.Prediction)
		}, "prediction_failed", true

	case strings.HasPrefix(payload, "qual_"):
		nick := DecodeNickname(strings.TrimPrefix(payload, "qual_"))
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.SingleUserReport(ctx, nick, deps.Prompts.Qualities)
		}, "tarot_unknown_person", true

	case strings.HasPrefix(payload, "comp2_"):
		parts := strings.SplitN(strings.TrimPrefix(payload, "comp2_"), "_", 2)
		if len(parts) != 2 {
			return nil, "", false
		}
		first, second := DecodeNickname(parts[0]), DecodeNickname(parts[1])
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.DualUserReport(ctx, first, second, deps.Prompts.Compatibility)
		}, "tarot_unknown_person", true

	case strings.HasPrefix(payload, "comp_"):
		nick := DecodeNickname(strings.TrimPrefix(payload, "comp_"))
		fromNick := from.Username
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.DualUserReport(ctx, fromNick, nick, deps.Prompts.Compatibility)
		}, "tarot_unknown_person", true

	case strings.HasPrefix(payload, "q_"):
		question, ok := deps.Questions.Get(strings.TrimPrefix(payload, "q_"))
		if !ok {
			return nil, "", false
		}
		fromNick := from.Username
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.SingleUserReport(ctx, fromNick, question+"\n\n"+deps.Prompts.Answers)
		}, "prediction_failed", true

	case strings.HasPrefix(payload, "yesno_"):
		question, ok := deps.Questions.Get(strings.TrimPrefix(payload, "yesno_"))
		if !ok {
			return nil, "", false
		}
		fromNick := from.Username
		return func(ctx context.Context) (string, error) {
			return deps.Reporter.SingleUserReport(ctx, fromNick, question+"\n\n"+deps.Prompts.YesNo)
		}, "prediction_failed", true

	default:
		return nil, "", false
	}
}
