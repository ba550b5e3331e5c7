package handlers

import "sync"

// ChatState identifies what kind of input the bot is waiting for in a chat.
type ChatState int

const (
	StateNone ChatState = iota
	StateAwaitingName
	StateAwaitingBirthDate
	StateAwaitingQuestion
	StateAwaitingYesNoQuestion
	StateAwaitingCompatNick
	StateAwaitingQualitiesNick
)

// ChatStates tracks the conversation state per chat. Handlers run
// concurrently, so access is guarded by a mutex.
type ChatStates struct {
	mu     sync.Mutex
	states map[int64]ChatState
}

// NewChatStates creates an empty conversation state tracker.
func NewChatStates() *ChatStates {
	return &ChatStates{states: make(map[int64]ChatState)}
}

// Set records the state for a chat.
func (s *ChatStates) Set(chatID int64, state ChatState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = state
}

// Get returns the current state for a chat, StateNone if untracked.
func (s *ChatStates) Get(chatID int64) ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[chatID]
}

// Clear resets the chat back to StateNone.
func (s *ChatStates) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
}
