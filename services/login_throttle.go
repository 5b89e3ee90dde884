package services

import (
	"math"
	"sync"
	"time"
)

const ThrottleCooldownCapSeconds = 30

// LoginThrottle backs off repeated failed logins per chat before the login
// endpoint is even called: cooldown = min(30, 2^failCount) seconds. State is
// in memory only; a restart forgives everyone.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[int64]*throttleEntry
}

type throttleEntry struct {
	failCount     int
	cooldownUntil time.Time
}

func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{entries: make(map[int64]*throttleEntry)}
}

// WaitSeconds returns how many seconds the chat must wait before the next
// attempt (0 if none), rounded up.
func (t *LoginThrottle) WaitSeconds(chatID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[chatID]
	if !ok || time.Now().After(e.cooldownUntil) {
		return 0
	}
	return int(time.Until(e.cooldownUntil).Seconds()) + 1
}

// RecordFailure increments the fail count and arms the next cooldown.
func (t *LoginThrottle) RecordFailure(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[chatID]
	if !ok {
		e = &throttleEntry{}
		t.entries[chatID] = e
	}
	e.failCount++
	e.cooldownUntil = time.Now().Add(time.Duration(CooldownSecondsForFailCount(e.failCount)) * time.Second)
}

// RecordSuccess resets the chat's throttle state.
func (t *LoginThrottle) RecordSuccess(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, chatID)
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	s := int(math.Pow(2, float64(failCount)))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return s
}
