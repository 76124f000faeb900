package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Handler processes one inbound packet
type Handler func(ctx context.Context, packet *types.Packet) error

// Encoder marshals outbound packets
type Encoder struct {
	mu        sync.RWMutex
	sessionID id.SessionID
}

// NewEncoder creates an unbound encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// BindSession stamps sessionID on packets that carry none
func (e *Encoder) BindSession(sessionID id.SessionID) {
	e.mu.Lock()
	e.sessionID = sessionID
	e.mu.Unlock()
}

// Encode fills missing envelope fields and marshals the packet
func (e *Encoder) Encode(packet *types.Packet) ([]byte, error) {
	if packet == nil || packet.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidPacket)
	}

	e.mu.RLock()
	sessionID := e.sessionID
	e.mu.RUnlock()

	if packet.SessionID == "" {
		packet.SessionID = sessionID
	}
	if packet.ID == "" {
		packet.ID = id.NewPacketID()
	}
	if packet.Timestamp == 0 {
		packet.Timestamp = time.Now().Unix()
	}

	data, err := sonic.Marshal(packet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode packet: %w", err)
	}
	return data, nil
}

// Decoder unmarshals inbound frames and routes them to handlers
type Decoder struct {
	mu       sync.RWMutex
	handlers map[types.PacketType]Handler
}

// NewDecoder creates a decoder with no handlers
func NewDecoder() *Decoder {
	return &Decoder{handlers: make(map[types.PacketType]Handler)}
}

// Handle registers h for packets of type t, replacing any previous handler
func (d *Decoder) Handle(t types.PacketType, h Handler) {
	d.mu.Lock()
	d.handlers[t] = h
	d.mu.Unlock()
}

// Decode unmarshals one frame
func (d *Decoder) Decode(data []byte) (*types.Packet, error) {
	var packet types.Packet
	if err := sonic.Unmarshal(data, &packet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPacket, err)
	}
	if packet.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidPacket)
	}
	return &packet, nil
}

// Dispatch decodes a frame and runs its handler. Packets without a
// handler are accepted and dropped.
func (d *Decoder) Dispatch(ctx context.Context, data []byte) (*types.Packet, error) {
	packet, err := d.Decode(data)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	handler := d.handlers[packet.Type]
	d.mu.RUnlock()

	if handler == nil {
		return packet, nil
	}
	return packet, handler(ctx, packet)
}
