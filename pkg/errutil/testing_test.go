// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("MY_CODE").Errorf("test error")
	errutil.AssertErrorCode(t, err, "MY_CODE")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("account_id", int64(7)).Errorf("test error")
	errutil.AssertErrorContext(t, err, "account_id", int64(7))
}

func TestAssertKind_MatchingKind(t *testing.T) {
	errutil.AssertKind(t, apperr.NotFound("question", 1), apperr.KindNotFound)
}
