// Package notify delivers alerts to Telegram and answers the bot's chat
// commands.
//
// Components:
//   - Bot: go-telegram/bot client that keeps the token out of errors
//   - Sink: sends alerts to one chat, gated by the notification rate limiter
//   - Commands: long-polls for updates and answers /start and /status
//   - Format*: HTML message templates
package notify
