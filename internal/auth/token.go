// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"encoding/hex"
	"errors"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
)

// SecretKeyLen is the PASETO v4.local key size in bytes.
const SecretKeyLen = 32

const claimAccountID = "account_id"

var errOutsideWindow = errors.New("token used outside its validity window")

// SecretKey is the symmetric key tokens are encrypted under.
type SecretKey struct {
	key paseto.V4SymmetricKey
}

// ParseSecretKey accepts 32 raw bytes or 64 hex characters.
func ParseSecretKey(s string) (SecretKey, error) {
	raw := []byte(s)
	if len(s) == 2*SecretKeyLen {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return SecretKey{}, oops.Code("CONFIG_INVALID").
				With("field", "token.secret_key").
				Wrapf(err, "64-character secret key must be hex encoded")
		}
		raw = decoded
	}
	if len(raw) != SecretKeyLen {
		return SecretKey{}, oops.Code("CONFIG_INVALID").
			With("field", "token.secret_key").
			With("length", len(s)).
			Errorf("secret key must be %d raw bytes or %d hex characters", SecretKeyLen, 2*SecretKeyLen)
	}
	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return SecretKey{}, oops.Code("CONFIG_INVALID").With("field", "token.secret_key").Wrap(err)
	}
	return SecretKey{key: key}, nil
}

// NewRandomSecretKey returns a fresh key. Intended for tests and tooling.
func NewRandomSecretKey() SecretKey {
	return SecretKey{key: paseto.NewV4SymmetricKey()}
}

// Hex returns the key in the hex form accepted by ParseSecretKey.
func (k SecretKey) Hex() string {
	return k.key.ExportHex()
}

// TokenIssuer issues session tokens.
type TokenIssuer interface {
	Issue(accountID AccountID) (string, error)
}

// TokenVerifier turns a token back into a Session.
type TokenVerifier interface {
	Verify(token string) (Session, error)
}

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	key SecretKey
	now func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService bound to key for its lifetime.
func NewTokenService(key SecretKey, opts ...TokenOption) *TokenService {
	s := &TokenService{key: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns an encrypted token for accountID valid from now for SessionTTL.
func (s *TokenService) Issue(accountID AccountID) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(SessionTTL))
	if err := token.Set(claimAccountID, int64(accountID)); err != nil {
		return "", oops.Code(apperr.CodeInternal).With("operation", "set token claim").Wrap(err)
	}

	return token.V4Encrypt(s.key.key, nil), nil
}

// Verify decrypts token and checks its validity window. Every failure,
// whether wrong key, tampering, bad format, or expiry, is TokenInvalid.
func (s *TokenService) Verify(token string) (Session, error) {
	if token == "" {
		return Session{}, apperr.TokenInvalid(nil)
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parsed, err := parser.ParseV4Local(s.key.key, token, nil)
	if err != nil {
		return Session{}, apperr.TokenInvalid(err)
	}

	var id int64
	if err := parsed.Get(claimAccountID, &id); err != nil {
		return Session{}, apperr.TokenInvalid(err)
	}
	if id <= 0 {
		return Session{}, apperr.TokenInvalid(nil)
	}

	sess := Session{AccountID: AccountID(id)}
	if sess.IssuedAt, err = parsed.GetIssuedAt(); err != nil {
		return Session{}, apperr.TokenInvalid(err)
	}
	if sess.NotBefore, err = parsed.GetNotBefore(); err != nil {
		return Session{}, apperr.TokenInvalid(err)
	}
	if sess.ExpiresAt, err = parsed.GetExpiration(); err != nil {
		return Session{}, apperr.TokenInvalid(err)
	}
	if sess.IsExpiredAt(s.now()) {
		return Session{}, apperr.TokenInvalid(errOutsideWindow)
	}

	return sess, nil
}
