package service

import (
	"context"
	"errors"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
)

// Permissions is the single authority for access checks. Every mutating
// operation goes through RequireOwner or RequireEditor before touching
// storage; call sites never compare ids themselves.
type Permissions struct {
	Store store.Store
}

// IsOwner reports whether userID owns the resource.
func (p *Permissions) IsOwner(ctx context.Context, userID, resourceID string) (bool, error) {
	return p.Store.Resources().IsOwner(ctx, userID, resourceID)
}

// HasEditAccess reports whether userID holds a membership with edit rights.
// Ownership implies nothing here: the owner's edit right comes from the
// membership row created with the resource.
func (p *Permissions) HasEditAccess(ctx context.Context, userID, resourceID string) (bool, error) {
	return p.Store.Memberships().HasEditAccess(ctx, userID, resourceID)
}

// RequireOwner resolves the resource and fails with ErrNotOwner unless the
// caller owns it. Returns the resource so callers avoid a second lookup.
func (p *Permissions) RequireOwner(ctx context.Context, userID, resourceID string, kind domain.Kind) (domain.Resource, error) {
	res, err := p.Store.Resources().GetResource(ctx, resourceID, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Resource{}, ErrResourceNotFound
		}
		return domain.Resource{}, err
	}

	if res.OwnerID != userID {
		return domain.Resource{}, ErrNotOwner
	}
	return res, nil
}

// RequireEditor resolves the resource and fails with ErrNotEditor unless the
// caller holds edit access.
func (p *Permissions) RequireEditor(ctx context.Context, userID, resourceID string, kind domain.Kind) (domain.Resource, error) {
	res, err := p.Store.Resources().GetResource(ctx, resourceID, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Resource{}, ErrResourceNotFound
		}
		return domain.Resource{}, err
	}

	canEdit, err := p.HasEditAccess(ctx, userID, resourceID)
	if err != nil {
		return domain.Resource{}, err
	}
	if !canEdit {
		return domain.Resource{}, ErrNotEditor
	}
	return res, nil
}
