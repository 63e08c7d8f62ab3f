package timer

import "errors"

// Error is a recoverable timer misuse reported to the caller.
type Error uint8

const (
	// ErrTimerActive: the operation is not valid while the timer runs.
	ErrTimerActive Error = iota + 1
	// ErrTimerInactive: the timer is not running.
	ErrTimerInactive
	// ErrAlarmInactive is reserved for alarm-specific misuse.
	ErrAlarmInactive
)

func (e Error) Error() string {
	switch e {
	case ErrTimerActive:
		return "timer: timer is active"
	case ErrTimerInactive:
		return "timer: timer is inactive"
	case ErrAlarmInactive:
		return "timer: alarm is inactive"
	default:
		return "timer: unknown error"
	}
}

// ErrWouldBlock is returned by Periodic.Wait while the period has not elapsed.
var ErrWouldBlock = errors.New("timer: would block")
