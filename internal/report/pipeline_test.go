package report_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mkorneev/tarobot/internal/report"
	"github.com/mkorneev/tarobot/internal/vox"
)

// fakeAnalytics resolves nicknames and serves summaries from fixed maps.
// CustomReport either delegates to customFn or wraps customText in the
// double JSON envelope the real service produces.
type fakeAnalytics struct {
	ids        map[string]int64
	summaries  map[int64]string
	customText string
	customFn   func(subjectID int64, prompt string) (*vox.AIAnalytics, error)

	gotCustomID     int64
	gotCustomPrompt string
}

func (f *fakeAnalytics) GetUserID(_ context.Context, username string) (int64, error) {
	id, ok := f.ids[username]
	if !ok {
		return 0, fmt.Errorf("%w: no user %q", vox.ErrNotFound, username)
	}
	return id, nil
}

func (f *fakeAnalytics) AIAnalytics(_ context.Context, _ vox.Subject, subjectID int64) (*vox.AIAnalytics, error) {
	return &vox.AIAnalytics{ID: subjectID, Report: f.summaries[subjectID]}, nil
}

func (f *fakeAnalytics) CustomReport(_ context.Context, _ vox.Subject, subjectID int64, customPrompt string) (*vox.AIAnalytics, error) {
	f.gotCustomID = subjectID
	f.gotCustomPrompt = customPrompt
	if f.customFn != nil {
		return f.customFn(subjectID, customPrompt)
	}
	return envelope(f.customText), nil
}

// envelope wraps text the way the service does: the outer report field holds
// a JSON object whose own report field carries the text.
func envelope(text string) *vox.AIAnalytics {
	inner := fmt.Sprintf("{\"report\": %q}", text)
	return &vox.AIAnalytics{Report: inner}
}

type fakeCompleter struct {
	text      string
	err       error
	gotPrompt string
	calls     int
}

func (f *fakeCompleter) Ask(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.text, f.err
}

func TestSingleUserReportHappyPath(t *testing.T) {
	t.Parallel()

	analytics := &fakeAnalytics{
		ids:        map[string]int64{"alice": 7},
		summaries:  map[int64]string{7: "alice talks a lot about cats"},
		customText: "Line1\n* bullet point\nLine3",
	}
	completer := &fakeCompleter{text: "should not be used"}
	p := report.NewPipeline(analytics, completer, nil)

	got, err := p.SingleUserReport(context.Background(), "alice", "PROMPT")
	if err != nil {
		t.Fatalf("SingleUserReport() error = %v", err)
	}
	if want := "Line1\n- bullet point\nLine3"; got != want {
		t.Errorf("SingleUserReport() = %q, want %q", got, want)
	}
	if completer.calls != 0 {
		t.Errorf("completer called %d times on the happy path", completer.calls)
	}
	if analytics.gotCustomID != 7 {
		t.Errorf("custom report anchored on id %d, want 7", analytics.gotCustomID)
	}
	if want := "alice talks a lot about cats\n\nPROMPT"; analytics.gotCustomPrompt != want {
		t.Errorf("composed prompt = %q, want %q", analytics.gotCustomPrompt, want)
	}
}

func TestSingleUserReportFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		nickname  string
		analytics *fakeAnalytics
	}{
		{
			name:      "empty nickname skips resolution",
			nickname:  "",
			analytics: &fakeAnalytics{},
		},
		{
			name:      "unknown nickname",
			nickname:  "ghost",
			analytics: &fakeAnalytics{ids: map[string]int64{}},
		},
		{
			name:     "no analytics summary",
			nickname: "bob",
			analytics: &fakeAnalytics{
				ids:       map[string]int64{"bob": 3},
				summaries: map[int64]string{},
			},
		},
		{
			name:     "custom report fails",
			nickname: "bob",
			analytics: &fakeAnalytics{
				ids:       map[string]int64{"bob": 3},
				summaries: map[int64]string{3: "summary"},
				customFn: func(int64, string) (*vox.AIAnalytics, error) {
					return nil, vox.ErrServer
				},
			},
		},
		{
			name:     "inner report field missing",
			nickname: "bob",
			analytics: &fakeAnalytics{
				ids:       map[string]int64{"bob": 3},
				summaries: map[int64]string{3: "summary"},
				customFn: func(int64, string) (*vox.AIAnalytics, error) {
					return &vox.AIAnalytics{Report: `{"not_report": "x"}`}, nil
				},
			},
		},
		{
			name:     "envelope is not JSON",
			nickname: "bob",
			analytics: &fakeAnalytics{
				ids:       map[string]int64{"bob": 3},
				summaries: map[int64]string{3: "summary"},
				customFn: func(int64, string) (*vox.AIAnalytics, error) {
					return &vox.AIAnalytics{Report: "plain text, no envelope"}, nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			completer := &fakeCompleter{text: "* generic reading"}
			p := report.NewPipeline(tt.analytics, completer, nil)

			got, err := p.SingleUserReport(context.Background(), tt.nickname, "PROMPT")
			if err != nil {
				t.Fatalf("SingleUserReport() error = %v", err)
			}
			if want := "- generic reading"; got != want {
				t.Errorf("SingleUserReport() = %q, want %q", got, want)
			}
			if completer.calls != 1 {
				t.Errorf("completer called %d times, want 1", completer.calls)
			}
			if completer.gotPrompt != "PROMPT" {
				t.Errorf("fallback prompt = %q, want the task prompt alone", completer.gotPrompt)
			}
		})
	}
}

func TestSingleUserReportFallbackErrors(t *testing.T) {
	t.Parallel()

	t.Run("completer error propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("model unavailable")
		p := report.NewPipeline(&fakeAnalytics{}, &fakeCompleter{err: wantErr}, nil)

		_, err := p.SingleUserReport(context.Background(), "", "PROMPT")
		if !errors.Is(err, wantErr) {
			t.Errorf("SingleUserReport() error = %v, want wrapped %v", err, wantErr)
		}
	})

	t.Run("empty completion is an error", func(t *testing.T) {
		t.Parallel()

		p := report.NewPipeline(&fakeAnalytics{}, &fakeCompleter{text: "   \n  "}, nil)

		got, err := p.SingleUserReport(context.Background(), "", "PROMPT")
		if err == nil {
			t.Fatalf("SingleUserReport() = %q, want error for empty completion", got)
		}
	})
}

func TestDualUserReport(t *testing.T) {
	t.Parallel()

	t.Run("anchored on the about user", func(t *testing.T) {
		t.Parallel()

		analytics := &fakeAnalytics{
			ids:        map[string]int64{"alice": 1, "bob": 2},
			summaries:  map[int64]string{1: "alice summary", 2: "bob summary"},
			customText: "they get along",
		}
		completer := &fakeCompleter{}
		p := report.NewPipeline(analytics, completer, nil)

		got, err := p.DualUserReport(context.Background(), "alice", "bob", "PROMPT")
		if err != nil {
			t.Fatalf("DualUserReport() error = %v", err)
		}
		if got != "they get along" {
			t.Errorf("DualUserReport() = %q", got)
		}
		if analytics.gotCustomID != 2 {
			t.Errorf("custom report anchored on id %d, want the about user's 2", analytics.gotCustomID)
		}

		want := "I am alice\nalice summary\n\nAsked about bob\nbob summary\n\nPROMPT"
		if analytics.gotCustomPrompt != want {
			t.Errorf("composed prompt = %q, want %q", analytics.gotCustomPrompt, want)
		}
		if completer.calls != 0 {
			t.Errorf("completer called %d times on the happy path", completer.calls)
		}
	})

	t.Run("asker side degrades to placeholder", func(t *testing.T) {
		t.Parallel()

		analytics := &fakeAnalytics{
			ids:        map[string]int64{"bob": 2},
			summaries:  map[int64]string{2: "bob summary"},
			customText: "reading",
		}
		p := report.NewPipeline(analytics, &fakeCompleter{}, nil)

		if _, err := p.DualUserReport(context.Background(), "alice", "bob", "PROMPT"); err != nil {
			t.Fatalf("DualUserReport() error = %v", err)
		}
		if !strings.Contains(analytics.gotCustomPrompt, "User: alice") {
			t.Errorf("composed prompt %q missing asker placeholder", analytics.gotCustomPrompt)
		}
		if !strings.Contains(analytics.gotCustomPrompt, "bob summary") {
			t.Errorf("composed prompt %q missing about summary", analytics.gotCustomPrompt)
		}
	})

	t.Run("unresolvable about user falls back", func(t *testing.T) {
		t.Parallel()

		analytics := &fakeAnalytics{
			ids:       map[string]int64{"alice": 1},
			summaries: map[int64]string{1: "alice summary"},
		}
		completer := &fakeCompleter{text: "generic reading"}
		p := report.NewPipeline(analytics, completer, nil)

		got, err := p.DualUserReport(context.Background(), "alice", "ghost", "PROMPT")
		if err != nil {
			t.Fatalf("DualUserReport() error = %v", err)
		}
		if got != "generic reading" {
			t.Errorf("DualUserReport() = %q", got)
		}
		if completer.gotPrompt != "PROMPT" {
			t.Errorf("fallback prompt = %q, want the task prompt alone", completer.gotPrompt)
		}
	})
}
