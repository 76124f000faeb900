package types

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
)

// PacketType discriminates packets on the server link
type PacketType string

const (
	PacketLogin   PacketType = "login"
	PacketLogout  PacketType = "logout"
	PacketPing    PacketType = "ping"
	PacketPong    PacketType = "pong"
	PacketMessage PacketType = "message"
)

// Logout reasons
const (
	LogoutIdleTimeout = "idle_timeout"
)

// Packet is a single message exchanged with the server
type Packet struct {
	ID        id.PacketID    `json:"id,omitempty"`
	Type      PacketType     `json:"type"`
	SessionID id.SessionID   `json:"session_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// NewPacket creates a packet stamped with a fresh ID and the current time
func NewPacket(t PacketType, payload map[string]any) *Packet {
	return &Packet{
		ID:        id.NewPacketID(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
}

// NewLogoutPacket builds the logout notification sent when a session ends
func NewLogoutPacket(sessionID id.SessionID, reason string) *Packet {
	p := NewPacket(PacketLogout, map[string]any{"reason": reason})
	p.SessionID = sessionID
	return p
}
