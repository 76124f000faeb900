// Package http exposes the local control API.
//
// The API drives a single client session from outside the process: it
// starts the idle watchdog, logs a user in, navigates between views, opens
// and closes the auxiliary window and embeds subviews into declared
// containers. Read-only routes report the session, the catalog and the
// rendered stage.
//
// Errors map onto status codes:
//
//	view not found            404
//	not a subview             422
//	unsupported container     422
//	render failure            502
//	session terminated        410
package http
