package session

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Snapshot is a point-in-time view of a session
type Snapshot struct {
	ID           id.SessionID         `json:"id"`
	State        State                `json:"state"`
	User         *types.User          `json:"user,omitempty"`
	Started      bool                 `json:"started"`
	TimedOut     bool                 `json:"timed_out"`
	Watchdog     string               `json:"watchdog"`
	CreatedAt    time.Time            `json:"created_at"`
	LastActivity time.Time            `json:"last_activity"`
	IdleFor      time.Duration        `json:"idle_for"`
	Primary      *navigation.View     `json:"primary,omitempty"`
	Auxiliary    *navigation.View     `json:"auxiliary,omitempty"`
	Subviews     []navigation.Subview `json:"subviews"`
	Navigation   navigation.Stats     `json:"navigation"`
}

// Snapshot captures the session and its navigation state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		User:      s.user,
		Started:   s.started,
		TimedOut:  s.timedOut,
		CreatedAt: s.createdAt,
	}
	s.mu.Unlock()

	snap.Watchdog = s.watchdog.State().String()
	snap.LastActivity = s.LastActivity()
	snap.IdleFor = s.clock.Now().Sub(snap.LastActivity)

	if v, ok := s.navigator.Primary(); ok {
		snap.Primary = &v
	}
	if v, ok := s.navigator.Auxiliary(); ok {
		snap.Auxiliary = &v
	}
	snap.Subviews = s.navigator.Subviews()
	snap.Navigation = s.navigator.Stats()
	return snap
}
