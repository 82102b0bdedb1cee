package model

import "errors"

var (
	ErrNoPollOptions       = errors.New("no poll options available")
	ErrInsufficientOptions = errors.New("not enough eligible poll options")
	ErrPollInProgress      = errors.New("a poll result is still pending")
	ErrEngineInactive      = errors.New("poll engine is not active")
)
