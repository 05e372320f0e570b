// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "time"

// SessionTTL is the fixed validity window of an issued token.
const SessionTTL = 24 * time.Hour

// Session is the verified identity carried by a token. It is rebuilt from
// the token on every request and never stored.
type Session struct {
	AccountID AccountID
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// IsExpiredAt returns true if the session is outside its validity window at t.
func (s Session) IsExpiredAt(t time.Time) bool {
	return t.Before(s.NotBefore) || t.After(s.ExpiresAt)
}
