package handlers_test

import (
	"sync"
	"testing"

	"github.com/mkorneev/tarobot/internal/bot/handlers"
)

func TestChatStates(t *testing.T) {
	t.Parallel()

	s := handlers.NewChatStates()

	if got := s.Get(1); got != handlers.StateNone {
		t.Errorf("Get() on untracked chat = %v, want StateNone", got)
	}

	s.Set(1, handlers.StateAwaitingQuestion)
	s.Set(2, handlers.StateAwaitingBirthDate)

	if got := s.Get(1); got != handlers.StateAwaitingQuestion {
		t.Errorf("Get(1) = %v, want StateAwaitingQuestion", got)
	}
	if got := s.Get(2); got != handlers.StateAwaitingBirthDate {
		t.Errorf("Get(2) = %v, want StateAwaitingBirthDate", got)
	}

	s.Clear(1)
	if got := s.Get(1); got != handlers.StateNone {
		t.Errorf("Get(1) after Clear = %v, want StateNone", got)
	}
	if got := s.Get(2); got != handlers.StateAwaitingBirthDate {
		t.Errorf("Clear(1) disturbed chat 2, Get(2) = %v", got)
	}
}

func TestChatStatesConcurrency(t *testing.T) {
	t.Parallel()

	s := handlers.NewChatStates()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s.Set(chatID, handlers.StateAwaitingName)
			_ = s.Get(chatID)
			s.Clear(chatID)
		}(int64(i % 5))
	}
	wg.Wait()
}
