// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
)

func argon2IDKey(password, salt string, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), []byte(salt), time, memory, threads, keyLen)
}

func apperrDuplicate(cause error) error {
	return oops.Code(apperr.CodeDuplicateAccount).With("constraint", "accounts_email_key").Wrap(cause)
}

func corruptHashErr() error {
	_, err := auth.NewArgon2idHasher().Verify("x", "$argon2id$garbage")
	return err
}
