// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides helpers for logging and asserting coded errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// Log writes err at level with its code and context when it is an oops
// error, or just its text otherwise. attrs are appended as-is.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error, attrs ...any) {
	if !logger.Enabled(ctx, level) {
		return
	}
	args := make([]any, 0, len(attrs)+6)
	args = append(args, "error", err.Error())
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil && code != "" {
			args = append(args, "code", code)
		}
		if errCtx := oopsErr.Context(); len(errCtx) > 0 {
			args = append(args, "context", errCtx)
		}
	}
	args = append(args, attrs...)
	logger.Log(ctx, level, msg, args...)
}

// LogError logs err at error level.
func LogError(logger *slog.Logger, msg string, err error) {
	Log(context.Background(), logger, slog.LevelError, msg, err)
}
