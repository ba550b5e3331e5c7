package report_test

import (
	"strings"
	"testing"

	"github.com/mkorneev/tarobot/internal/report"
)

func TestNormalizeBullets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text untouched",
			input:    "The cards are silent today.",
			expected: "The cards are silent today.",
		},
		{
			name:     "bullet line rewritten",
			input:    "Line1\n* bullet point\nLine3",
			expected: "Line1\n- bullet point\nLine3",
		},
		{
			name:     "indented bullet keeps indentation",
			input:    "  * indented bullet",
			expected: "  - indented bullet",
		},
		{
			name:     "star without trailing space untouched",
			input:    "*emphasis* stays",
			expected: "*emphasis* stays",
		},
		{
			name:     "star in middle of line untouched",
			input:    "two * three = six",
			expected: "two * three = six",
		},
		{
			name:     "only first star of a bullet line replaced",
			input:    "* strong *words* here",
			expected: "- strong *words* here",
		},
		{
			name:     "multiple bullet lines",
			input:    "* one\n* two\ntext\n* three",
			expected: "- one\n- two\ntext\n- three",
		},
		{
			name:     "trailing newline preserved",
			input:    "* one\n",
			expected: "- one\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := report.NormalizeBullets(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeBullets(%q) = %q, want %q", tt.input, got, tt.expected)
			}

			if gotLines, wantLines := strings.Count(got, "\n"), strings.Count(tt.input, "\n"); gotLines != wantLines {
				t.Errorf("line count changed: got %d newlines, want %d", gotLines, wantLines)
			}

			if again := report.NormalizeBullets(got); again != got {
				t.Errorf("not idempotent: second pass changed %q to %q", got, again)
			}
		})
	}
}
