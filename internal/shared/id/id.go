// Package id provides prefixed ULID generation for the client.
//
// IDs are lexicographically sortable and carry a short type prefix so that
// log lines stay readable:
//   - sess_*: a login session
//   - ctl_*:  a controller produced by a catalog resolution
//   - win_*:  an auxiliary window
//   - pkt_*:  an outbound packet
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a login session
type SessionID string

// ControllerID identifies a resolved view controller
type ControllerID string

// WindowID identifies an auxiliary window
type WindowID string

// PacketID identifies an outbound packet
type PacketID string

const (
	SessionPrefix    = "sess"
	ControllerPrefix = "ctl"
	WindowPrefix     = "win"
	PacketPrefix     = "pkt"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Tests use it for deterministic output.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewControllerID generates a new controller ID
func NewControllerID() ControllerID {
	return ControllerID(Default().GenerateWithPrefix(ControllerPrefix))
}

// NewWindowID generates a new window ID
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewPacketID generates a new packet ID
func NewPacketID() PacketID {
	return PacketID(Default().GenerateWithPrefix(PacketPrefix))
}

func (id SessionID) String() string    { return string(id) }
func (id ControllerID) String() string { return string(id) }
func (id WindowID) String() string     { return string(id) }
func (id PacketID) String() string     { return string(id) }

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the creation time from an unprefixed ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
