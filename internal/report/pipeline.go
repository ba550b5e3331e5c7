// Package report implements the report-generation pipeline: nickname
// resolution, analytics summary fetch, custom-report synthesis with a
// two-level JSON envelope unwrap, bullet normalization, and a language-model
// fallback for every failure point along the way.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mkorneev/tarobot/internal/vox"
)

// Analytics is the subset of the analytics service client the pipeline uses.
type Analytics interface {
	GetUserID(ctx context.Context, username string) (int64, error)
	AIAnalytics(ctx context.Context, subject vox.Subject, subjectID int64) (*vox.AIAnalytics, error)
	CustomReport(ctx context.Context, subject vox.Subject, subjectID int64, customPrompt string) (*vox.AIAnalytics, error)
}

// Completer is the last-resort language-model client. It receives the task
// prompt alone; analytics context is never available on the fallback path.
type Completer interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

var (
	errEmptyResult = errors.New("analytics service returned no data")
	errUnwrap      = errors.New("report envelope unwrap failed")
)

// Pipeline produces normalized report text for one or two subjects. Every
// analytics-side failure degrades to the fallback completer; only a failure
// of the completer itself propagates to the caller. A successful return is
// never empty.
type Pipeline struct {
	analytics Analytics
	completer Completer
	log       *slog.Logger
}

// NewPipeline wires the pipeline with its two collaborators.
func NewPipeline(analytics Analytics, completer Completer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		analytics: analytics,
		completer: completer,
		log:       log.With("component", "report_pipeline"),
	}
}

// SingleUserReport generates report text for one nickname. An empty nickname
// skips resolution entirely and goes straight to the fallback path.
func (p *Pipeline) SingleUserReport(ctx context.Context, nickname, prompt string) (string, error) {
	if nickname == "" {
		p.log.InfoContext(ctx, "No nickname supplied, using fallback")
		return p.fallback(ctx, prompt)
	}

	userID, err := p.analytics.GetUserID(ctx, nickname)
	if err != nil {
		p.log.WarnContext(ctx, "Nickname resolution failed, using fallback", "nickname", nickname, "error", err)
		return p.fallback(ctx, prompt)
	}

	summary, err := p.analytics.AIAnalytics(ctx, vox.SubjectUser, userID)
	if err != nil || summary.Empty() {
		if err != nil {
			p.log.WarnContext(ctx, "Analytics fetch failed, using fallback", "user_id", userID, "error", err)
		} else {
			p.log.InfoContext(ctx, "No analytics data for user, using fallback", "user_id", userID)
		}
		return p.fallback(ctx, prompt)
	}

	composed := summary.Report + "\n\n" + prompt
	text, err := p.customReport(ctx, userID, composed)
	if err != nil {
		p.log.WarnContext(ctx, "Custom report failed, using fallback", "user_id", userID, "error", err)
		return p.fallback(ctx, prompt)
	}
	return text, nil
}

// DualUserReport generates report text about aboutNick as asked by fromNick.
// Each side's analytics context degrades independently to a placeholder when
// the service has nothing for it; the custom-report call is anchored on the
// about-user's id, since that is the subject of inquiry.
func (p *Pipeline) DualUserReport(ctx context.Context, fromNick, aboutNick, prompt string) (string, error) {
	var (
		fromContext  string
		aboutContext string
		aboutID      int64
		aboutKnown   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, fromContext = p.subjectContext(gctx, fromNick)
		return nil
	})
	g.Go(func() error {
		var id int64
		id, aboutContext = p.subjectContext(gctx, aboutNick)
		aboutID, aboutKnown = id, id != 0
		return nil
	})
	// The side lookups never report errors, they degrade to placeholders.
	_ = g.Wait()

	if !aboutKnown {
		p.log.WarnContext(ctx, "Subject of inquiry could not be resolved, using fallback", "about", aboutNick)
		return p.fallback(ctx, prompt)
	}

	composed := fmt.Sprintf("I am %s\n%s\n\nAsked about %s\n%s\n\n%s",
		fromNick, fromContext, aboutNick, aboutContext, prompt)

	text, err := p.customReport(ctx, aboutID, composed)
	if err != nil {
		p.log.WarnContext(ctx, "Custom report failed, using fallback", "about_id", aboutID, "error", err)
		return p.fallback(ctx, prompt)
	}
	return text, nil
}

// subjectContext resolves one side of a dual report. It returns the resolved
// id (0 when resolution failed) and the analytics summary, or the
// "User: {nickname}" placeholder when the side has no usable data.
func (p *Pipeline) subjectContext(ctx context.Context, nickname string) (int64, string) {
	placeholder := "User: " + nickname
	if nickname == "" {
		return 0, placeholder
	}

	userID, err := p.analytics.GetUserID(ctx, nickname)
	if err != nil {
		p.log.WarnContext(ctx, "Nickname resolution failed, using placeholder", "nickname", nickname, "error", err)
		return 0, placeholder
	}

	summary, err := p.analytics.AIAnalytics(ctx, vox.SubjectUser, userID)
	if err != nil || summary.Empty() {
		p.log.InfoContext(ctx, "No analytics summary for user, using placeholder", "nickname", nickname, "user_id", userID)
		return userID, placeholder
	}
	return userID, summary.Report
}

// customReport submits the composed prompt, unwraps the nested envelope, and
// normalizes the result.
func (p *Pipeline) customReport(ctx context.Context, subjectID int64, composedPrompt string) (string, error) {
	envelope, err := p.analytics.CustomReport(ctx, vox.SubjectUser, subjectID, composedPrompt)
	if err != nil {
		return "", err
	}

	text, err := unwrapEnvelope(envelope)
	if err != nil {
		return "", err
	}

	normalized := NormalizeBullets(text)
	if strings.TrimSpace(normalized) == "" {
		return "", errUnwrap
	}
	return normalized, nil
}

// unwrapEnvelope extracts the human-readable report from the service
// envelope. The outer report field holds a JSON-encoded string whose own
// report field carries the text. The double wrap is the service's wire
// contract, not an accident; both levels must be present.
func unwrapEnvelope(envelope *vox.AIAnalytics) (string, error) {
	if envelope.Empty() {
		return "", errEmptyResult
	}

	var inner struct {
		Report string `json:"report"`
	}
	if err := json.Unmarshal([]byte(envelope.Report), &inner); err != nil {
		return "", fmt.Errorf("%w: %v", errUnwrap, err)
	}
	if inner.Report == "" {
		return "", fmt.Errorf("%w: inner report field missing", errUnwrap)
	}
	return inner.Report, nil
}

// fallback produces a generic answer from the language model with the task
// prompt alone. This is the end of the degradation chain, so its failure is
// the only error the pipeline surfaces.
func (p *Pipeline) fallback(ctx context.Context, prompt string) (string, error) {
	text, err := p.completer.Ask(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("fallback completion failed: %w", err)
	}

	normalized := NormalizeBullets(text)
	if strings.TrimSpace(normalized) == "" {
		return "", errors.New("fallback completion returned no content")
	}
	return normalized, nil
}
