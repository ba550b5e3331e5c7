package translations_test

import (
	"strings"
	"testing"

	"github.com/mkorneev/tarobot/internal/translations"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := translations.Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Every tag used by the handlers must resolve in both shipped languages.
	tags := []string{
		"menu_answers", "menu_yes_no", "menu_prediction", "menu_compatibility", "menu_qualities",
		"start_greeting", "start_registered_greeting", "ask_name", "skip_button",
		"ask_birth_date", "invalid_birth_date", "registration_done",
		"ask_question", "ask_yes_no_question", "ask_account", "invalid_account_format",
		"shuffling", "no_nickname", "use_menu", "need_start", "not_authorized",
		"error_generic", "prediction_failed", "tarot_unknown_person",
		"weekly_header", "stats_users",
		"inline_hint_title", "inline_hint_description", "inline_hint_text", "inline_get_button",
		"zodiac_aries", "zodiac_taurus", "zodiac_gemini", "zodiac_cancer",
		"zodiac_leo", "zodiac_virgo", "zodiac_libra", "zodiac_scorpio",
		"zodiac_sagittarius", "zodiac_capricorn", "zodiac_aquarius", "zodiac_pisces",
	}
	for _, lang := range []string{"ru", "en"} {
		for _, tag := range tags {
			if got := c.Phrase(tag, lang); got == tag || got == "" {
				t.Errorf("Phrase(%q, %q) did not resolve, got %q", tag, lang, got)
			}
		}
	}
}

func TestPhraseFallbacks(t *testing.T) {
	t.Parallel()

	c, err := translations.Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("unknown language uses default catalog", func(t *testing.T) {
		t.Parallel()
		if got, want := c.Phrase("skip_button", "fr"), c.Phrase("skip_button", "ru"); got != want {
			t.Errorf("Phrase(skip_button, fr) = %q, want the ru phrase %q", got, want)
		}
	})

	t.Run("unknown tag falls back to itself", func(t *testing.T) {
		t.Parallel()
		if got := c.Phrase("no_such_tag", "ru"); got != "no_such_tag" {
			t.Errorf("Phrase(no_such_tag, ru) = %q, want the tag itself", got)
		}
	})
}

func TestPhraseVariants(t *testing.T) {
	t.Parallel()

	c, err := translations.Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// "shuffling" ships several variants; random picks must always come from
	// the fixed variant set.
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		seen[c.PhraseAt("shuffling", "ru", i)] = true
	}
	if len(seen) != 3 {
		t.Fatalf("PhraseAt returned %d distinct shuffling variants, want 3", len(seen))
	}
	for i := 0; i < 50; i++ {
		got := c.Phrase("shuffling", "ru")
		if !seen[got] {
			t.Fatalf("Phrase(shuffling) = %q, not one of the declared variants", got)
		}
		if !strings.Contains(got, "🔮") {
			t.Errorf("shuffling variant %q lost its emoji", got)
		}
	}
}
