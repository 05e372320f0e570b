// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"runtime"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

// CryptoPool bounds how many password hash or verify operations run at once,
// so a burst of logins cannot occupy every CPU.
type CryptoPool struct {
	sem  *semaphore.Weighted
	size int
}

// NewCryptoPool creates a pool allowing workers concurrent operations.
// workers <= 0 uses GOMAXPROCS.
func NewCryptoPool(workers int) *CryptoPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CryptoPool{sem: semaphore.NewWeighted(int64(workers)), size: workers}
}

// Size returns the number of concurrent slots.
func (p *CryptoPool) Size() int {
	return p.size
}

// Do waits for a free slot and runs fn. It returns early only when ctx is
// done before a slot frees up.
func (p *CryptoPool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return oops.With("operation", "acquire crypto slot").Wrap(err)
	}
	defer p.sem.Release(1)
	fn()
	return nil
}
