package server

import "errors"

var (
	ErrFeedRunning   = errors.New("feed is already serving")
	ErrInvalidConfig = errors.New("invalid feed configuration")
	ErrListen        = errors.New("feed listener failed")
)
