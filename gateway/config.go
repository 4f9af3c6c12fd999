package gateway

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultOutboundQueue = 256
	DefaultHistoryLimit  = 50
	DefaultRateLimit     = rate.Limit(20)
	DefaultRateBurst     = 40
)

type Config struct {
	// OutboundQueue bounds the frames waiting to be written to a connection.
	// A session whose queue is full is closed with ErrBackpressure.
	OutboundQueue int
	// RateLimit and RateBurst bound the inbound intents of one session.
	RateLimit rate.Limit
	RateBurst int
	// HistoryLimit is the page size of a history intent without a limit.
	HistoryLimit int
	Retry        RetryPolicy
}

func (c Config) withDefaults() Config {
	if c.OutboundQueue <= 0 {
		c.OutboundQueue = DefaultOutboundQueue
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.Retry.Attempts <= 0 {
		c.Retry = DefaultRetryPolicy()
	}
	return c
}

// RetryPolicy is a bounded exponential backoff with jitter.
type RetryPolicy struct {
	Base     time.Duration
	Factor   float64
	Attempts int
	// Jitter is the fraction of each delay drawn at random, in [0, 1].
	Jitter float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Base: 50 * time.Millisecond, Factor: 2, Attempts: 4, Jitter: 0.2}
}
