// Package optimization provides concurrency tuning profiles for the demo server.
package optimization

import (
	"fmt"
	"runtime"
	"strings"
)

// Config holds tuned parameters for the hub, its clients and the journal.
type Config struct {
	// Channel buffer sizes
	ActionQueueBuffer      int
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Journal connection pool
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Rate limiting
	MaxActionsPerSecond int
	MaxClients          int
}

// Profile names accepted by ForName.
const (
	ProfileDefault     = "default"
	ProfileStress      = "stress"
	ProfileLowResource = "low"
)

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		ActionQueueBuffer:      256,
		BroadcastChannelBuffer: 64,
		ClientSendBuffer:       64,

		// SQLite serialises writers; extra open conns only help readers.
		DBMaxOpenConns: numCPU,
		DBMaxIdleConns: 2,

		MaxActionsPerSecond: 20,
		MaxClients:          200,
	}
}

// StressTestConfig returns aggressive settings for load runs with the agitator.
func StressTestConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		ActionQueueBuffer:      4096,
		BroadcastChannelBuffer: 512,
		ClientSendBuffer:       128,

		DBMaxOpenConns: numCPU * 2,
		DBMaxIdleConns: numCPU,

		MaxActionsPerSecond: 500,
		MaxClients:          500,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		ActionQueueBuffer:      16,
		BroadcastChannelBuffer: 8,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,

		MaxActionsPerSecond: 5,
		MaxClients:          20,
	}
}

// ForName resolves a profile name. An empty name selects the default profile.
func ForName(name string) (*Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileDefault:
		return DefaultConfig(), nil
	case ProfileStress:
		return StressTestConfig(), nil
	case ProfileLowResource:
		return LowResourceConfig(), nil
	default:
		return nil, fmt.Errorf("unknown tuning profile %q", name)
	}
}
