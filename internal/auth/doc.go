// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth is the trust boundary of the service.
//
// # Components
//
//   - Argon2idHasher - hashes and verifies passwords (PHC encoded argon2id)
//   - TokenService - issues and verifies PASETO v4.local session tokens
//   - Service - registration and login on top of an AccountRepository
//   - Ownership - checks that a session owns a resource before mutation
//   - CryptoPool - bounds concurrent password hashing
//
// Sessions are never stored. Each request rebuilds its Session from the
// token, so an issued token stays valid until it expires; there is no
// revocation.
package auth
