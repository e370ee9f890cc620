package release

import (
	"fmt"
	"strings"
)

// Channel identifies the distribution channel a release is submitted to.
type Channel string

const (
	// ChannelInternal distributes to internal testers only.
	ChannelInternal Channel = "internal"
	// ChannelBeta distributes to the beta program (TestFlight, open testing).
	ChannelBeta Channel = "beta"
	// ChannelProduction distributes to the public store listing.
	ChannelProduction Channel = "production"
)

// AllChannels returns all valid release channels.
func AllChannels() []Channel {
	return []Channel{ChannelInternal, ChannelBeta, ChannelProduction}
}

// String returns the string representation of the channel.
func (c Channel) String() string {
	return string(c)
}

// IsValid returns true if the channel is a known release channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelInternal, ChannelBeta, ChannelProduction:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the channel.
func (c Channel) Description() string {
	switch c {
	case ChannelInternal:
		return "Internal testers"
	case ChannelBeta:
		return "Beta program"
	case ChannelProduction:
		return "Public release"
	default:
		return "Unknown channel"
	}
}

// ParseChannel parses a string into a Channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q (must be internal, beta, or production)", ErrInvalidChannel, s)
	}
	return c, nil
}
