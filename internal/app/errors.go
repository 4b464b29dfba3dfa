package app

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTrialNotStarted      = errors.New("trial not started")
	ErrNoPendingTermination = errors.New("no pending termination record")
	ErrViolationNotFound    = errors.New("violation not found")
	ErrScanInProgress       = errors.New("violation scan already in progress")
)
