package ws

import "errors"

var (
	// ErrChannelClosed reports a send on a closed channel
	ErrChannelClosed = errors.New("channel closed")
	// ErrInvalidPacket reports a frame that is not a typed packet
	ErrInvalidPacket = errors.New("invalid packet")
)
