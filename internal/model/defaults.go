package model

import "time"

// Shared defaults used by both the daemon and the dashboard client.
const (
	DefaultQuestionCapacity = 3
	DefaultQuestionTTLMin   = 20 // seconds, inclusive
	DefaultQuestionTTLMax   = 30 // seconds, exclusive

	DefaultCountdownInterval = time.Second
	DefaultBackfillInterval  = 8 * time.Second
	DefaultHealthInterval    = 30 * time.Second

	DefaultRequestTimeout = 10 * time.Second
	DefaultHealthTimeout  = 3 * time.Second

	// Consecutive probe failures before liveness degrades.
	DefaultDegradeThreshold = 3

	DefaultUpdateInterval = time.Second
	DefaultSkin           = "default"
)
