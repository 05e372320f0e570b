// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package qna holds the question and answer domain: types, pagination and
// the service that gates mutations on the owning account.
package qna
