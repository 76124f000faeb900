// Package session implements the client session lifecycle.
//
// A Session starts Unauthenticated (no user, login view primary) or
// Authenticated (resumed user). Start arms a Watchdog that checks idleness
// at a fixed rate; once the last activity is older than the threshold the
// session expires: it moves to TimedOut, sends one logout packet, closes
// the server channel, releases its views and ends Terminated. Finish ends
// the session without a logout. Whichever of the two runs first wins; the
// other is a no-op.
//
// Components:
//   - Session: user identity, navigation delegation, terminal cleanup
//   - Watchdog: Idle -> Armed -> Fired | Stopped, fires at most once
//
// Activity is recorded by every navigation call and by the packet decoder
// of a channel implementing Binder.
//
// Example Usage:
//
//	s := session.New(session.Dependencies{
//		Catalog:   catalog,
//		Presenter: presenter,
//		Channel:   channel,
//		Logger:    logger,
//	}, nil)
//	_ = s.Start()
//	_ = s.Login(&types.User{Username: "ada"})
//	_ = s.NavigateTo(ctx, "home", true)
//	<-s.Done()
package session
