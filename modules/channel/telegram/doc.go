// Package telegram implements the Telegram Bot API channel for arkrelay.
//
// The channel receives bot commands through long polling or a webhook,
// delivers status messages, and uploads mirrored payloads with streaming
// multipart requests so that file bytes never accumulate in memory.
package telegram
