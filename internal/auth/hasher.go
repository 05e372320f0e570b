// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"

	"github.com/qna-dev/qna/internal/apperr"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// Bounds on parameters read back from a stored hash. Anything outside them
// is treated as corruption rather than handed to argon2.
const (
	minSaltLen = 8
	maxMemory  = 1 << 20 // KiB, 1 GiB
	maxTime    = 10
)

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces a self-describing argon2id hash of the password.
	Hash(password string) string

	// Verify checks if the password matches the encoded hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, and an
	// error only when encoded cannot be parsed.
	Verify(password, encoded string) (bool, error)
}

// Argon2idHasher implements PasswordHasher using argon2id in PHC string format.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password with a fresh random salt.
// crypto/rand.Read aborts the process if the entropy source fails, so Hash
// has no error path.
func (h *Argon2idHasher) Hash(password string) string {
	salt := make([]byte, argon2SaltLen)
	_, _ = rand.Read(salt) //nolint:errcheck // never returns an error; fails fatally instead

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// Verify re-derives the digest with the parameters embedded in encoded and
// compares in constant time.
func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	p, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))

	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

type hashParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func corruptHash(format string, args ...any) error {
	return oops.Code(apperr.CodeCredentialHashCorrupt).Errorf(format, args...)
}

func decodeHash(encoded string) (*hashParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, corruptHash("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return nil, corruptHash("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, oops.Code(apperr.CodeCredentialHashCorrupt).Wrapf(err, "invalid version segment")
	}
	if version != argon2.Version {
		return nil, corruptHash("unsupported argon2 version %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, oops.Code(apperr.CodeCredentialHashCorrupt).Wrapf(err, "invalid parameter segment")
	}
	if memory == 0 || time == 0 || threads == 0 {
		return nil, corruptHash("cost parameters must be positive")
	}
	if memory > maxMemory || time > maxTime {
		return nil, corruptHash("cost parameters exceed limits: m=%d t=%d", memory, time)
	}
	// threads is a uint8 in the argon2 API; reject rather than truncate
	if threads > 255 {
		return nil, corruptHash("threads value %d exceeds uint8 max", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, oops.Code(apperr.CodeCredentialHashCorrupt).Wrapf(err, "invalid salt encoding")
	}
	if len(salt) < minSaltLen {
		return nil, corruptHash("salt too short: %d bytes", len(salt))
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, oops.Code(apperr.CodeCredentialHashCorrupt).Wrapf(err, "invalid digest encoding")
	}
	if len(key) == 0 || len(key) > 1<<10 {
		return nil, corruptHash("invalid digest length: %d", len(key))
	}

	return &hashParams{
		memory:  memory,
		time:    time,
		threads: uint8(threads),
		salt:    salt,
		key:     key,
	}, nil
}
