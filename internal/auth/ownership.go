// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
)

// OwnerLookup returns the account that owns a resource. A missing resource
// fails with NotFound; storage failures with PersistenceUnavailable.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, resourceID int64) (AccountID, error)
}

// Ownership decides whether a session may mutate an owned resource.
type Ownership struct {
	resource string
	lookup   OwnerLookup
}

// NewOwnership creates an ownership check for one resource type.
func NewOwnership(resource string, lookup OwnerLookup) *Ownership {
	return &Ownership{resource: resource, lookup: lookup}
}

// IsOwner reports whether accountID owns resourceID. Lookup errors,
// including not-found, are returned unchanged in kind.
func (o *Ownership) IsOwner(ctx context.Context, resourceID int64, accountID AccountID) (bool, error) {
	owner, err := o.lookup.OwnerOf(ctx, resourceID)
	if err != nil {
		return false, oops.With("operation", "look up owner").
			With("resource", o.resource).
			With("resource_id", resourceID).
			Wrap(err)
	}
	return owner == accountID, nil
}

// Authorize returns nil when sess owns resourceID and an Unauthorized error
// when it does not.
func (o *Ownership) Authorize(ctx context.Context, resourceID int64, sess Session) error {
	owner, err := o.IsOwner(ctx, resourceID, sess.AccountID)
	if err != nil {
		return err
	}
	if !owner {
		return apperr.Unauthorized(o.resource, resourceID, int64(sess.AccountID))
	}
	return nil
}
