// Package lockout implements the account lockout state machine driving login
// attempt handling. An account is Active while LockedUntil is in the past and
// Locked otherwise; five consecutive failures lock it for thirty minutes.
package lockout

import (
	"time"

	"github.com/filevault/filevault-server/internal/model"
)

const (
	// FailureThreshold is the number of consecutive failures that locks an account.
	FailureThreshold = 5
	// LockDuration is how long a triggered lock lasts.
	LockDuration = 30 * time.Minute
)

// Result classifies the outcome of one login attempt.
type Result int

const (
	// ResultSuccess means the password verified and counters were reset.
	ResultSuccess Result = iota
	// ResultInvalid means the password failed but the account stays active.
	ResultInvalid
	// ResultLockTriggered means this failure crossed the threshold and locked
	// the account.
	ResultLockTriggered
	// ResultAlreadyLocked means the attempt was rejected without verifying the
	// password because the account was locked when it arrived.
	ResultAlreadyLocked
)

// Decision describes what happened and what the caller must do next.
type Decision struct {
	Result Result
	// AttemptsRemaining is set for ResultInvalid.
	AttemptsRemaining int
	// RemainingMinutes is set for ResultAlreadyLocked.
	RemainingMinutes int
	// Persist reports whether the user record was mutated and must be saved.
	Persist bool
}

// Evaluate runs one login attempt through the state machine, mutating user in
// place. The verify callback is only invoked when the account is active, so a
// locked account never pays for a key derivation.
//
// The failure counter is not reset when the lock triggers; it resets only on
// a successful login. An account unlocked by the passage of time alone
// therefore re-locks on its very next failure.
func Evaluate(user *model.User, now time.Time, verify func() bool) Decision {
	if user.Locked(now) {
		return Decision{
			Result:           ResultAlreadyLocked,
			RemainingMinutes: remainingMinutes(user.LockedUntil, now),
		}
	}

	if !verify() {
		user.FailedLoginCount++
		if user.FailedLoginCount >= FailureThreshold {
			user.LockedUntil = now.Add(LockDuration)
			return Decision{Result: ResultLockTriggered, Persist: true}
		}
		return Decision{
			Result:            ResultInvalid,
			AttemptsRemaining: FailureThreshold - user.FailedLoginCount,
			Persist:           true,
		}
	}

	user.FailedLoginCount = 0
	user.LockedUntil = time.Time{}
	return Decision{Result: ResultSuccess, Persist: true}
}

// remainingMinutes rounds the remaining lock window up to whole minutes so
// the caller never reports "0 minutes" for an active lock.
func remainingMinutes(lockedUntil, now time.Time) int {
	return int(lockedUntil.Sub(now).Minutes()) + 1
}
