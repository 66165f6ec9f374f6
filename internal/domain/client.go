// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxChannelLen  = 36
)

var (
	ErrChannelRequired  = errors.New("channel required")
	ErrUsernameRequired = errors.New("username required")
)

// ClientID identifies one live transport connection. Assigned at connect
// time and never reused while any state still references it.
type ClientID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Client is the per-connection session record. Channel is empty while the
// connection has not joined anywhere.
type Client struct {
	ID         ClientID
	Username   string
	Channel    ChannelName
	Role       Role
	IsSpeaking bool
}

// TruncateName caps caller-supplied display strings at n bytes.
func TruncateName(raw string, n int) string {
	if len(raw) > n {
		return raw[:n]
	}
	return raw
}
