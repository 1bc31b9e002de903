package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Only messages from this chat are handled
	ChatID int64
	// Long polling timeout, in seconds
	PollTimeout int
	// Upper bound for a single fetch of due reviews
	FetchTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		PollTimeout:  60,
		FetchTimeout: 30 * time.Second,
	}
}
