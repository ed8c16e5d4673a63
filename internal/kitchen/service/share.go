package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
	"github.com/onkyoh/paper-kitchen-api/pkg/cryptox"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// shareCodeAttempts bounds the regenerate-on-collision loop when inserting a
// short link code. With 4 random bytes a collision is already unlikely; more
// than a couple of retries means the RNG is broken, not the table full.
const shareCodeAttempts = 5

// ShareService mints share links and manages the memberships they create.
type ShareService struct {
	Store       store.Store
	Codec       *token.Codec
	Permissions *Permissions
}

// ShareUpdate is the bulk permission change applied by the owner from the
// share management screen.
type ShareUpdate struct {
	EditingIDs  []string `json:"editingIds"`
	DeletingIDs []string `json:"deletingIds"`
	CanEdit     bool     `json:"canEdit"`
}

// MintShareLink signs a share token for the resource and stores it behind a
// fresh short code. Any editor may mint. canEdit nil falls back to the
// per-kind default: grocery lists share as editable, recipes as read-only.
func (s *ShareService) MintShareLink(
	ctx context.Context,
	userID, resourceID string,
	kind domain.Kind,
	canEdit *bool,
) (domain.ShareLink, error) {
	log := slogx.FromContext(ctx)

	res, err := s.Permissions.RequireEditor(ctx, userID, resourceID, kind)
	if err != nil {
		return domain.ShareLink{}, err
	}

	grant := kind.DefaultCanEdit()
	if canEdit != nil {
		grant = *canEdit
	}

	owner, err := s.Store.Users().GetUserByID(ctx, res.OwnerID)
	if err != nil {
		return domain.ShareLink{}, err
	}

	signed, err := s.Codec.MintShare(token.ShareClaims{
		ResourceID: res.ID,
		Kind:       res.Kind,
		CanEdit:    grant,
		Title:      res.Title,
		Owner:      owner.Name,
	}, token.ShareTTL)
	if err != nil {
		return domain.ShareLink{}, err
	}

	link := domain.ShareLink{
		Token:     signed,
		CreatedAt: time.Now().UTC(),
	}

	// Codes are short so collisions, while rare, are possible. Retry with a
	// fresh code when the insert hits the primary key.
	for attempt := 0; ; attempt++ {
		link.Code, err = cryptox.GenerateHex(domain.ShareLinkCodeBytes)
		if err != nil {
			return domain.ShareLink{}, err
		}

		err = s.Store.ShareLinks().CreateShareLink(ctx, link)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) || attempt >= shareCodeAttempts {
			return domain.ShareLink{}, err
		}
	}

	log.Debug("share link minted",
		slog.String("resource_id", res.ID),
		slog.String("code", link.Code),
		slog.Bool("can_edit", grant),
	)

	return link, nil
}

// ListShares returns every member of the resource except the owner, with
// their current edit flag. Owner only.
func (s *ShareService) ListShares(ctx context.Context, userID, resourceID string, kind domain.Kind) ([]domain.Member, error) {
	res, err := s.Permissions.RequireOwner(ctx, userID, resourceID, kind)
	if err != nil {
		return nil, err
	}
	return s.Store.Memberships().ListMembers(ctx, res.ID, res.OwnerID)
}

// UpdateShares applies a bulk permission change and removals in one
// transaction. Owner only. The owner's own membership is never touched: the
// id lists come from ListShares, which excludes the owner.
func (s *ShareService) UpdateShares(ctx context.Context, userID, resourceID string, kind domain.Kind, update ShareUpdate) error {
	res, err := s.Permissions.RequireOwner(ctx, userID, resourceID, kind)
	if err != nil {
		return err
	}

	editing := withoutID(update.EditingIDs, res.OwnerID)
	deleting := withoutID(update.DeletingIDs, res.OwnerID)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Memberships().UpdateMembershipBulk(ctx, res.ID, editing, update.CanEdit); err != nil {
			return err
		}
		return tx.Memberships().DeleteMemberships(ctx, res.ID, deleting)
	})
}

// RemoveSelf deletes the caller's own membership. The owner cannot leave;
// the owner membership only goes away with the resource.
func (s *ShareService) RemoveSelf(ctx context.Context, userID, resourceID string, kind domain.Kind) error {
	res, err := s.Store.Resources().GetResource(ctx, resourceID, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	if res.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	if _, err := s.Store.Memberships().GetMembership(ctx, userID, res.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}

	return s.Store.Memberships().DeleteMembership(ctx, userID, res.ID)
}

func withoutID(ids []string, exclude string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
