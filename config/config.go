package config

import (
	"log"
	"time"
)

type (
	NET struct {
		// ReadBufferSize is the size of every pooled buffer the socket is
		// read into, so it is also how many bytes a single read event can
		// deliver at most.
		ReadBufferSize int
		// AcceptRetryMin and AcceptRetryMax bound the pause after a failed
		// accept. The pause grows with consecutive failures and resets on
		// the next successful one.
		AcceptRetryMin time.Duration
		AcceptRetryMax time.Duration
	}

	Log struct {
		// Sink receives all diagnostics. Leaving it nil sends them through
		// log.Default().
		Sink *log.Logger `test:"nullable"`
		// Debug additionally reports per-connection lifecycle events.
		Debug bool `test:"nullable"`
	}
)

// Config holds settings used across various parts of keel. Zero values are
// backfilled via Fill, so a partially initialized config is fine.
type Config struct {
	NET NET
	Log Log
}

// Default returns the well-balanced defaults.
func Default() Config {
	return Config{
		NET: NET{
			ReadBufferSize: 4 * 1024, // more than enough for ordinary request heads
			AcceptRetryMin: 5 * time.Millisecond,
			AcceptRetryMax: time.Second,
		},
	}
}

// Fill takes a config and fills it with default values everywhere where it
// is not filled.
func Fill(original Config) (modified Config) {
	defaults := Default()

	original.NET.ReadBufferSize = customOrDefault(
		original.NET.ReadBufferSize, defaults.NET.ReadBufferSize,
	)
	original.NET.AcceptRetryMin = customOrDefault(
		original.NET.AcceptRetryMin, defaults.NET.AcceptRetryMin,
	)
	original.NET.AcceptRetryMax = customOrDefault(
		original.NET.AcceptRetryMax, defaults.NET.AcceptRetryMax,
	)

	return original
}

func customOrDefault[T int | time.Duration](custom, defaultVal T) T {
	if custom == 0 {
		return defaultVal
	}

	return custom
}
