// Package astro derives zodiac signs from birth dates.
package astro

import "time"

// ZodiacSign returns the translation tag of the zodiac sign for a birth
// date, e.g. "zodiac_aries".
func ZodiacSign(birthDate time.Time) string {
	month := birthDate.Month()
	day := birthDate.Day()

	switch {
	case (month == time.March && day >= 21) || (month == time.April && day <= 19):
		return "zodiac_aries"
	case (month == time.April && day >= 20) || (month == time.May && day <= 20):
		return "zodiac_taurus"
	case (month == time.May && day >= 21) || (month == time.June && day <= 20):
		return "zodiac_gemini"
	case (month == time.June && day >= 21) || (month == time.July && day <= 22):
		return "zodiac_cancer"
	case (month == time.July && day >= 23) || (month == time.August && day <= 22):
		return "zodiac_leo"
	case (month == time.August && day >= 23) || (month == time.September && day <= 22):
		return "zodiac_virgo"
	case (month == time.September && day >= 23) || (month == time.October && day <= 22):
		return "zodiac_libra"
	case (month == time.October && day >= 23) || (month == time.November && day <= 21):
		return "zodiac_scorpio"
	case (month == time.November && day >= 22) || (month == time.December && day <= 21):
		return "zodiac_sagittarius"
	case (month == time.December && day >= 22) || (month == time.January && day <= 19):
		return "zodiac_capricorn"
	case (month == time.January && day >= 20) || (month == time.February && day <= 18):
		return "zodiac_aquarius"
	default:
		return "zodiac_pisces"
	}
}
