// Package pipeline wires the listing stream to metadata enrichment, the
// rarity filter and the notification sink.
//
// Listings are handled one at a time on the stream reader, so a burst of
// events is processed serially and the socket is not drained faster than
// alerts can be delivered. When a session ends the pipeline waits a fixed
// delay and reconnects until its context is cancelled.
package pipeline
