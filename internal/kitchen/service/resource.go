package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/pkg/idx"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// ResourceService implements the CRUD side of recipes and grocery lists.
// The same code serves both kinds; the Kind tag flows through unchanged.
type ResourceService struct {
	Store       store.Store
	Permissions *Permissions
}

// List returns the resources of one kind the caller is a member of.
func (s *ResourceService) List(
	ctx context.Context,
	kind domain.Kind,
	userID string,
	filter store.ResourceFilter,
) ([]domain.Resource, error) {
	return s.Store.Resources().ListResourcesForUser(ctx, kind, userID, filter)
}

// Create inserts the resource and the creator's membership atomically. The
// creator becomes owner and first editor; a resource row without its owner
// membership must never be observable.
func (s *ResourceService) Create(
	ctx context.Context,
	kind domain.Kind,
	ownerID, title, color string,
	payload json.RawMessage,
) (domain.Resource, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	res := domain.Resource{
		ID:        idx.New().String(),
		Kind:      kind,
		OwnerID:   ownerID,
		Title:     title,
		Color:     color,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Resources().CreateResource(ctx, res); err != nil {
			return err
		}
		return tx.Memberships().CreateMembership(ctx, domain.Membership{
			UserID:     ownerID,
			ResourceID: res.ID,
			CanEdit:    true,
			CreatedAt:  now,
		})
	})
	if err != nil {
		log.Error("failed to create resource",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return domain.Resource{}, err
	}

	log.Debug("resource created",
		slog.String("resource_id", res.ID),
		slog.String("kind", string(kind)),
		slog.String("owner_id", ownerID),
	)

	return res, nil
}

// Update replaces title, color and payload. Allowed for any member with edit
// access, not only the owner.
func (s *ResourceService) Update(
	ctx context.Context,
	kind domain.Kind,
	userID, resourceID, title, color string,
	payload json.RawMessage,
) (domain.Resource, error) {
	res, err := s.Permissions.RequireEditor(ctx, userID, resourceID, kind)
	if err != nil {
		return domain.Resource{}, err
	}

	res.Title = title
	res.Color = color
	if len(payload) > 0 {
		res.Payload = payload
	}
	res.UpdatedAt = time.Now().UTC()

	if err := s.Store.Resources().UpdateResource(ctx, res); err != nil {
		return domain.Resource{}, err
	}
	return res, nil
}

// Delete removes a resource and all its memberships in one transaction.
// Owner only; members lose access as part of the same commit.
func (s *ResourceService) Delete(ctx context.Context, kind domain.Kind, userID, resourceID string) error {
	log := slogx.FromContext(ctx)

	res, err := s.Permissions.RequireOwner(ctx, userID, resourceID, kind)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Memberships().DeleteByResource(ctx, res.ID); err != nil {
			return err
		}
		return tx.Resources().DeleteResource(ctx, res.ID)
	})
	if err != nil {
		log.Error("failed to delete resource",
			slog.String("resource_id", res.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Debug("resource deleted",
		slog.String("resource_id", res.ID),
		slog.String("kind", string(kind)),
	)
	return nil
}
