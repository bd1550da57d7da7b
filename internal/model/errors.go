package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// Callers must surface the same outward message for both so that login
	// responses carry no account-enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked marks a login attempt against a locked account.
	ErrAccountLocked = errors.New("account locked")

	// ErrDecryption is returned for malformed or undecipherable filename tokens.
	ErrDecryption = errors.New("unable to decrypt filename")

	// ErrDuplicateFile is returned when an upload collides with a stored file.
	ErrDuplicateFile = errors.New("file already exists")

	// ErrFileTypeNotAllowed is returned for uploads with a disallowed extension.
	ErrFileTypeNotAllowed = errors.New("file type not allowed")

	// ErrFileTooLarge is returned for uploads exceeding the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrFileNotFound is returned when a requested file is not in storage.
	ErrFileNotFound = errors.New("file not found")

	// ErrPathTraversal is returned when a storage key resolves outside the
	// base directory. Never recovered.
	ErrPathTraversal = errors.New("path escapes storage directory")

	// ErrStorageWrite wraps underlying blob storage I/O failures.
	ErrStorageWrite = errors.New("storage write failed")
)

// InvalidCredentialsError carries the remaining attempt count for internal
// consumers (audit, logging). Its Error text and outward rendering stay
// identical regardless of whether the account exists.
type InvalidCredentialsError struct {
	AttemptsRemaining int
}

func (e *InvalidCredentialsError) Error() string {
	return ErrInvalidCredentials.Error()
}

func (e *InvalidCredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}

// AccountLockedError reports a rejected attempt against a locked account.
// JustLocked distinguishes the attempt that crossed the failure threshold.
type AccountLockedError struct {
	RemainingMinutes int
	JustLocked       bool
}

func (e *AccountLockedError) Error() string {
	if e.JustLocked {
		return "account locked for 30 minutes due to repeated failed login attempts"
	}
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes)
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}
