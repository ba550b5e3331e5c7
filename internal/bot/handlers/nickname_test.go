package handlers_test

import (
	"strings"
	"testing"

	"github.com/mkorneev/tarobot/internal/bot/handlers"
)

func TestNicknameCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		nickname string
		encoded  string
	}{
		{"alice", "alice"},
		{"bob_the_cat", "bob-the-cat"},
		{"_lead_and_trail_", "-lead-and-trail-"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.nickname, func(t *testing.T) {
			t.Parallel()

			enc := handlers.EncodeNickname(tt.nickname)
			if enc != tt.encoded {
				t.Errorf("EncodeNickname(%q) = %q, want %q", tt.nickname, enc, tt.encoded)
			}
			if strings.Contains(enc, "_") {
				t.Errorf("encoded nickname %q still contains the callback separator", enc)
			}
			if got := handlers.DecodeNickname(enc); got != tt.nickname {
				t.Errorf("DecodeNickname(%q) = %q, want %q", enc, got, tt.nickname)
			}
		})
	}
}

func TestNicknamePairCallbackData(t *testing.T) {
	t.Parallel()

	// A pair payload must split unambiguously even when both nicknames
	// contain underscores.
	data := "comp2_" + handlers.EncodeNickname("ann_a") + "_" + handlers.EncodeNickname("bob_b")
	parts := strings.SplitN(strings.TrimPrefix(data, "comp2_"), "_", 2)
	if len(parts) != 2 {
		t.Fatalf("payload %q did not split into two parts", data)
	}
	if got := handlers.DecodeNickname(parts[0]); got != "ann_a" {
		t.Errorf("first nickname = %q, want ann_a", got)
	}
	if got := handlers.DecodeNickname(parts[1]); got != "bob_b" {
		t.Errorf("second nickname = %q, want bob_b", got)
	}
}
