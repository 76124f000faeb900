// Package ws carries session packets to the backend over a websocket.
//
// Components:
//   - Channel: dialled connection with a guarded writer and a read loop
//   - Encoder: stamps outbound packets with the bound session and marshals them
//   - Decoder: unmarshals inbound frames, records activity, dispatches by type
//
// Channel implements session.PacketChannel, session.Binder and io.Closer,
// so a session stamps its id on every outbound packet, counts every inbound
// packet as activity and closes the link after an idle logout.
//
// Example Usage:
//
//	ch, err := ws.Dial(ctx, ws.Config{URL: "ws://localhost:8000/stream"}, logger, metrics)
//	ch.Handle(types.PacketMessage, onMessage)
//	go ch.Run(ctx)
//	s := session.New(session.Dependencies{Channel: ch, ...}, nil)
package ws
