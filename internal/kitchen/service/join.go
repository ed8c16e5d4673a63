package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
	"github.com/onkyoh/paper-kitchen-api/pkg/slogx"
)

// DefaultLinkRetention is how long a share link row outlives its minting
// before the sweep removes it. Well past the token TTL so an expired link
// still resolves to a clear "expired" answer instead of "not found".
const DefaultLinkRetention = 10 * 24 * time.Hour

var shareCodePattern = regexp.MustCompile(`^[0-9A-Fa-f]{8}$`)

// JoinInfo is the preview shown before the caller commits to joining.
type JoinInfo struct {
	ResourceID string      `json:"resourceId"`
	Kind       domain.Kind `json:"kind"`
	Title      string      `json:"title"`
	Owner      string      `json:"owner"`
	CanEdit    bool        `json:"canEdit"`
}

// JoinService resolves share codes and turns them into memberships.
type JoinService struct {
	Store     store.Store
	Codec     *token.Codec
	Retention time.Duration
}

func (s *JoinService) retention() time.Duration {
	if s.Retention > 0 {
		return s.Retention
	}
	return DefaultLinkRetention
}

// resolve looks up the code, verifies the embedded token and confirms the
// resource still exists. Every failure that could probe for state collapses
// into ErrLinkInvalid; only a good-but-stale token reports ErrLinkExpired.
func (s *JoinService) resolve(ctx context.Context, code string) (token.ShareClaims, error) {
	if !shareCodePattern.MatchString(code) {
		return token.ShareClaims{}, ErrLinkInvalid
	}

	s.sweep(ctx)

	link, err := s.Store.ShareLinks().GetShareLink(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return token.ShareClaims{}, ErrLinkInvalid
		}
		return token.ShareClaims{}, err
	}

	claims, err := s.Codec.VerifyShare(link.Token)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return token.ShareClaims{}, ErrLinkExpired
		}
		return token.ShareClaims{}, ErrLinkInvalid
	}

	if _, err := s.Store.Resources().GetResource(ctx, claims.ResourceID, claims.Kind); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return token.ShareClaims{}, ErrLinkInvalid
		}
		return token.ShareClaims{}, err
	}

	return claims, nil
}

// GetJoinInfo returns the preview for a share code without creating any
// membership.
func (s *JoinService) GetJoinInfo(ctx context.Context, code string) (JoinInfo, error) {
	claims, err := s.resolve(ctx, code)
	if err != nil {
		return JoinInfo{}, err
	}

	return JoinInfo{
		ResourceID: claims.ResourceID,
		Kind:       claims.Kind,
		Title:      claims.Title,
		Owner:      claims.Owner,
		CanEdit:    claims.CanEdit,
	}, nil
}

// Redeem grants the caller the membership the link describes and returns the
// client path to the joined resource. Redeeming twice, or racing another
// redemption of the same link, reports ErrAlreadyJoined with the original
// membership untouched.
func (s *JoinService) Redeem(ctx context.Context, userID, code string) (string, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.resolve(ctx, code)
	if err != nil {
		return "", err
	}

	if _, err := s.Store.Memberships().GetMembership(ctx, userID, claims.ResourceID); err == nil {
		return "", ErrAlreadyJoined
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	err = s.Store.Memberships().CreateMembership(ctx, domain.Membership{
		UserID:     userID,
		ResourceID: claims.ResourceID,
		CanEdit:    claims.CanEdit,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		// The primary key on (user_id, resource_id) closes the race between
		// the existence check and the insert.
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrAlreadyJoined
		}
		return "", err
	}

	log.Info("share link redeemed",
		slog.String("user_id", userID),
		slog.String("resource_id", claims.ResourceID),
		slog.Bool("can_edit", claims.CanEdit),
	)

	return claims.Kind.RedirectPath(), nil
}

// SweepExpired removes link rows older than the retention window and returns
// how many were dropped. Also run lazily on every resolve.
func (s *JoinService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention())
	return s.Store.ShareLinks().DeleteShareLinksBefore(ctx, cutoff)
}

// sweep is the lazy variant. Failures are logged and swallowed; an
// unavailable sweep must not block a join.
func (s *JoinService) sweep(ctx context.Context) {
	if _, err := s.SweepExpired(ctx); err != nil {
		slogx.FromContext(ctx).Warn("share link sweep failed", slog.Any("error", err))
	}
}
