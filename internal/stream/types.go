package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Errors
var (
	ErrMalformedMessage = errors.New("malformed stream message")
	ErrJoinFailed       = errors.New("join collection channel")
)

// Phoenix protocol constants.
const (
	EventJoin       = "phx_join"
	EventReply      = "phx_reply"
	EventHeartbeat  = "heartbeat"
	EventItemListed = "item_listed"

	TopicPhoenix = "phoenix"
)

// DefaultURL is the OpenSea Stream socket endpoint.
const DefaultURL = "wss://stream.openseabeta.com/socket/websocket"

// Command is an outbound Phoenix control message.
type Command struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	Ref     int64  `json:"ref"`
}

// JoinCommand subscribes to a collection's channel.
func JoinCommand(slug string, ref int64) Command {
	return Command{
		Topic:   CollectionTopic(slug),
		Event:   EventJoin,
		Payload: struct{}{},
		Ref:     ref,
	}
}

// HeartbeatCommand keeps the socket alive. Its ref is always 0.
func HeartbeatCommand() Command {
	return Command{
		Topic:   TopicPhoenix,
		Event:   EventHeartbeat,
		Payload: struct{}{},
		Ref:     0,
	}
}

// CollectionTopic returns the channel topic for a collection slug.
func CollectionTopic(slug string) string {
	return "collection:" + slug
}

// Event is a decoded inbound message.
type Event struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     json.RawMessage `json:"ref"` // int, string or null depending on the sender
}

// replyPayload is the payload of a phx_reply.
type replyPayload struct {
	Status string `json:"status"`
}

// State is the lifecycle state of a session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config configures a session.
type Config struct {
	URL                string        // Socket URL without the token
	APIKey             string        // Stream API key, sent as ?token=
	Collection         string        // Collection slug
	HeartbeatInterval  time.Duration // Phoenix heartbeat period
	WriteTimeout       time.Duration // Write deadline for sends
	HandshakeTimeout   time.Duration // WebSocket handshake timeout
	InsecureSkipVerify bool          // Skip TLS certificate verification
	TolerateMalformed  bool          // Skip undecodable frames instead of ending the session
}

// DefaultConfig returns the stream defaults.
func DefaultConfig() Config {
	return Config{
		URL:               DefaultURL,
		HeartbeatInterval: 30 * time.Second,
		WriteTimeout:      5 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

// endpoint returns the socket URL with the token query parameter set.
func (c Config) endpoint() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}
	if c.APIKey != "" {
		q := u.Query()
		q.Set("token", c.APIKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Stats are cumulative counters across all runs of a session.
type Stats struct {
	State      State
	Runs       int64
	Received   int64 // frames read
	Dispatched int64 // item_listed events handed to the handler
	Ignored    int64 // other events
	Malformed  int64 // undecodable frames
	Heartbeats int64 // heartbeats sent
	LastError  string
}
