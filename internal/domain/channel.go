package domain

type ChannelName string

// ChannelInfo is a read-only view of one channel for the channel list.
type ChannelInfo struct {
	Name      ChannelName `json:"name"`
	UserCount int         `json:"userCount"`
}

// RosterEntry is a read-only view of one channel member (no transport
// fields). Recomputed on demand, never stored.
type RosterEntry struct {
	ID         ClientID `json:"id"`
	Username   string   `json:"username"`
	Role       Role     `json:"role"`
	IsSpeaking bool     `json:"isSpeaking"`
}
