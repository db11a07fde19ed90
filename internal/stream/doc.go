// Package stream implements one session against the OpenSea Stream API.
//
// A session:
//   - Dials the Phoenix socket (wss://stream.openseabeta.com/socket/websocket?token=...)
//   - Joins the "collection:<slug>" channel
//   - Sends a Phoenix heartbeat every 30s
//   - Hands item_listed events to a handler, one at a time, on the reader goroutine
//
// Run returns when the session ends for any reason. Reconnecting is the
// caller's job.
package stream
