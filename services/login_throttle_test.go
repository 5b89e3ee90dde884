package services

import "testing"

func TestCooldownSecondsForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      int
	}{
		{failCount: 1, want: 2},
		{failCount: 2, want: 4},
		{failCount: 3, want: 8},
		{failCount: 4, want: 16},
		{failCount: 5, want: 30},
		{failCount: 10, want: 30},
	}
	for _, tc := range tests {
		if got := CooldownSecondsForFailCount(tc.failCount); got != tc.want {
			t.Errorf("CooldownSecondsForFailCount(%d) = %d, want %d", tc.failCount, got, tc.want)
		}
	}
}

func TestThrottleFailureArmsCooldown(t *testing.T) {
	th := NewLoginThrottle()

	if got := th.WaitSeconds(1); got != 0 {
		t.Fatalf("fresh chat wait = %d, want 0", got)
	}

	th.RecordFailure(1)
	if got := th.WaitSeconds(1); got <= 0 || got > 2+1 {
		t.Errorf("wait after 1 failure = %d, want within (0, 3]", got)
	}

	// Other chats are unaffected.
	if got := th.WaitSeconds(2); got != 0 {
		t.Errorf("unrelated chat wait = %d, want 0", got)
	}
}

func TestThrottleSuccessResets(t *testing.T) {
	th := NewLoginThrottle()
	th.RecordFailure(1)
	th.RecordFailure(1)
	th.RecordSuccess(1)

	if got := th.WaitSeconds(1); got != 0 {
		t.Errorf("wait after success = %d, want 0", got)
	}

	// The next failure starts the ladder over.
	th.RecordFailure(1)
	if got := th.WaitSeconds(1); got > 3 {
		t.Errorf("wait after reset + 1 failure = %d, want at most 3", got)
	}
}
