package ai

import "errors"

// ErrNotConfigured indicates no reasoning-service credential is configured.
// Non-fatal: items land in needs_api_key and can be retried later.
var ErrNotConfigured = errors.New("ai not configured")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")
