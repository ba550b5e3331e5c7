package astro_test

import (
	"testing"
	"time"

	"github.com/mkorneev/tarobot/internal/astro"
)

func TestZodiacSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want string
	}{
		// Boundary starts and ends for every sign.
		{"21.03", "zodiac_aries"},
		{"19.04", "zodiac_aries"},
		{"20.04", "zodiac_taurus"},
		{"20.05", "zodiac_taurus"},
		{"21.05", "zodiac_gemini"},
		{"20.06", "zodiac_gemini"},
		{"21.06", "zodiac_cancer"},
		{"22.07", "zodiac_cancer"},
		{"23.07", "zodiac_leo"},
		{"22.08", "zodiac_leo"},
		{"23.08", "zodiac_virgo"},
		{"22.09", "zodiac_virgo"},
		{"23.09", "zodiac_libra"},
		{"22.10", "zodiac_libra"},
		{"23.10", "zodiac_scorpio"},
		{"21.11", "zodiac_scorpio"},
		{"22.11", "zodiac_sagittarius"},
		{"21.12", "zodiac_sagittarius"},
		{"22.12", "zodiac_capricorn"},
		{"19.01", "zodiac_capricorn"},
		{"20.01", "zodiac_aquarius"},
		{"18.02", "zodiac_aquarius"},
		{"19.02", "zodiac_pisces"},
		{"20.03", "zodiac_pisces"},
		// Mid-sign sanity checks.
		{"01.01", "zodiac_capricorn"},
		{"15.08", "zodiac_leo"},
		{"29.02", "zodiac_pisces"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			t.Parallel()

			date, err := time.Parse("02.01.2006", tt.date+".2000")
			if err != nil {
				t.Fatalf("bad test date %q: %v", tt.date, err)
			}
			if got := astro.ZodiacSign(date); got != tt.want {
				t.Errorf("ZodiacSign(%s) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}
