// Package types provides shared data structures for the client.
//
// Core Types:
//   - ViewDescriptor: immutable metadata for a navigable view
//   - Controller: handle produced when the catalog resolves a view
//   - Rendered: handle to presentation output
//   - User: the logged-in identity
//   - Packet: a message exchanged over the server link
//
// Example Usage:
//
//	desc := types.ViewDescriptor{ID: "friend_card", Subview: true, Title: "Friend"}
//	ctrl := &types.Controller{ID: id.NewControllerID(), View: desc, Resource: desc.Resource}
package types
