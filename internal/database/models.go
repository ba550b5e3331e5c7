package database

import "time"

// User is the registration record collected during onboarding. ZodiacSign
// holds a translation tag (e.g. "zodiac_aries") rather than display text so
// the phrase catalog can localize it.
type User struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	TelegramUserID int64  `db:"telegram_user_id"`
	TelegramChatID int64  `db:"telegram_chat_id"`
	Username       string `db:"username"`
	Name           string `db:"name"`
	ZodiacSign     string `db:"zodiac_sign"`
	Language       string `db:"language"`
}
