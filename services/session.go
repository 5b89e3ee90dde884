package services

import (
	"sync"

	"resto-telegram/models"

	"github.com/google/uuid"
)

// SessionStore holds the authenticated user per chat for the lifetime of the
// process. Nothing is written to disk: restarting the bot logs everyone out,
// the same way closing the browser ends a session.
type SessionStore struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewSessionStore() *SessionStore {
	return &SessionStore{users: make(map[int64]models.User)}
}

// Login caches the authenticated user for a chat.
func (s *SessionStore) Login(chatID int64, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[chatID] = user
}

// Current returns the cached user. A cached identity with a malformed user id
// is dropped and reported as unauthenticated rather than surfaced as an error.
func (s *SessionStore) Current(chatID int64) (models.User, bool) {
	s.mu.RLock()
	user, ok := s.users[chatID]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, false
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		s.Logout(chatID)
		return models.User{}, false
	}
	return user, true
}

func (s *SessionStore) IsAdmin(chatID int64) bool {
	user, ok := s.Current(chatID)
	return ok && user.IsAdmin()
}

func (s *SessionStore) Logout(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, chatID)
}
