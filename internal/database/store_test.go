package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mkorneev/tarobot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestPing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestGetUserByTelegramIDMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	user, err := store.GetUserByTelegramID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if user != nil {
		t.Errorf("GetUserByTelegramID() = %+v, want nil for unknown user", user)
	}
}

func TestSaveUserRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user := &database.User{
		TelegramUserID: 100,
		TelegramChatID: 200,
		Username:       "alice",
		Name:           "Alice",
		ZodiacSign:     "zodiac_leo",
		Language:       "en",
	}
	if err := store.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	got, err := store.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetUserByTelegramID() = nil after save")
	}
	if got.TelegramChatID != 200 || got.Username != "alice" || got.Name != "Alice" ||
		got.ZodiacSign != "zodiac_leo" || got.Language != "en" {
		t.Errorf("loaded user = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}
}

func TestSaveUserUpsert(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := &database.User{TelegramUserID: 100, TelegramChatID: 200, Username: "bob", Name: "Bob"}
	if err := store.SaveUser(ctx, first); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	second := &database.User{TelegramUserID: 100, TelegramChatID: 201, Username: "bob", Name: "Bob", ZodiacSign: "zodiac_virgo"}
	if err := store.SaveUser(ctx, second); err != nil {
		t.Fatalf("SaveUser() second error = %v", err)
	}

	got, err := store.GetUserByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if got.TelegramChatID != 201 || got.ZodiacSign != "zodiac_virgo" {
		t.Errorf("upsert did not update fields, got %+v", got)
	}

	count, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers() = %d after upsert, want 1", count)
	}
}

func TestSaveUserDefaultsLanguage(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveUser(ctx, &database.User{TelegramUserID: 1, TelegramChatID: 2}); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	got, err := store.GetUserByTelegramID(ctx, 1)
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if got.Language != "ru" {
		t.Errorf("Language = %q, want default ru", got.Language)
	}
}

func TestSaveUserValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveUser(ctx, nil); err == nil {
		t.Error("SaveUser(nil) did not fail")
	}
	if err := store.SaveUser(ctx, &database.User{TelegramChatID: 2}); err == nil {
		t.Error("SaveUser without telegram_user_id did not fail")
	}
	if err := store.SaveUser(ctx, &database.User{TelegramUserID: 1}); err == nil {
		t.Error("SaveUser without telegram_chat_id did not fail")
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if err := store.SaveUser(ctx, &database.User{TelegramUserID: i, TelegramChatID: i * 10}); err != nil {
			t.Fatalf("SaveUser(%d) error = %v", i, err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("ListUsers() returned %d users, want 3", len(users))
	}
	for i, u := range users {
		if u.TelegramUserID != int64(i+1) {
			t.Errorf("users[%d].TelegramUserID = %d, want %d", i, u.TelegramUserID, i+1)
		}
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() error = %v", err)
	}
}
