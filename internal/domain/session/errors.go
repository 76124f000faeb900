package session

import "errors"

var (
	// ErrSessionTerminated reports an operation on a terminated session
	ErrSessionTerminated = errors.New("session terminated")
	// ErrChannelSend reports a logout notification that could not be delivered
	ErrChannelSend = errors.New("channel send failed")
	// ErrAlreadyAuthenticated reports a login on an authenticated session
	ErrAlreadyAuthenticated = errors.New("session already authenticated")
	// ErrInvalidUser reports a login without a usable user
	ErrInvalidUser = errors.New("invalid user")
	// ErrWatchdogNotIdle reports arming a watchdog that already ran
	ErrWatchdogNotIdle = errors.New("watchdog already armed")
)
