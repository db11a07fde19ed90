// Package ratelimit implements the sliding-window admission gate used for
// outbound calls.
//
// Two limiters exist per process:
//   - metadata: OpenSea REST calls (limits.api_per_minute)
//   - notifications: Telegram sendMessage calls (limits.notifications_per_minute)
//
// A limiter admits at most Max operations in any trailing Window, not just
// in aligned buckets.
package ratelimit
