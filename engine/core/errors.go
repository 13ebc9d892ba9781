package core

import (
	"errors"
)

var (
	ErrEventSystemNotRunning = errors.New("event system is not running")
	ErrUnknown               = errors.New("unknown")
)
