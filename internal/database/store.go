package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user-record persistence. Methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetUserByTelegramID retrieves a user by Telegram user id.
	// Returns nil, nil when the user is not registered.
	GetUserByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)

	// SaveUser inserts or updates a user record keyed by Telegram user id.
	SaveUser(ctx context.Context, user *User) error

	// ListUsers retrieves all registered users, for the weekly broadcast.
	ListUsers(ctx context.Context) ([]User, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx. It requires a
// connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetUserByTelegramID(ctx context.Context, telegramUserID int64) (*User, error) {
	var user User
	query := `SELECT * FROM users WHERE telegram_user_id = ?`
	err := s.db.GetContext(ctx, &user, query, telegramUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Error fetching user", "telegram_user_id", telegramUserID, "error", err)
		return nil, fmt.Errorf("failed to fetch user %d: %w", telegramUserID, err)
	}
	return &user, nil
}

func (s *sqlxStore) SaveUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil user")
	}
	if user.TelegramUserID == 0 {
		return fmt.Errorf("user must have a non-zero telegram_user_id")
	}
	if user.TelegramChatID == 0 {
		return fmt.Errorf("user must have a non-zero telegram_chat_id")
	}

	now := time.Now().UTC()
	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.Language == "" {
		user.Language = "ru"
	}

	query := `
        INSERT INTO users (telegram_user_id, telegram_chat_id, username, name, zodiac_sign, language, created_at, updated_at)
        VALUES (:telegram_user_id, :telegram_chat_id, :username, :name, :zodiac_sign, :language, :created_at, :updated_at)
        ON CONFLICT(telegram_user_id) DO UPDATE SET
            telegram_chat_id = excluded.telegram_chat_id,
            username         = excluded.username,
            name             = excluded.name,
            zodiac_sign      = excluded.zodiac_sign,
            language         = excluded.language,
            updated_at       = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error saving user", "telegram_user_id", user.TelegramUserID, "error", err)
		return fmt.Errorf("failed to save user %d: %w", user.TelegramUserID, err)
	}

	s.logger.DebugContext(ctx, "Saved user", "telegram_user_id", user.TelegramUserID)
	return nil
}

func (s *sqlxStore) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	query := `SELECT * FROM users ORDER BY id`
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *sqlxStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Maintenance statement failed", "stmt", stmt, "error", err)
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
