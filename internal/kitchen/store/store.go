package store

import (
	"context"
	"errors"
	"time"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it.
// Repositories are pure data access: every authorization decision happens in
// the service layer before a mutating call reaches a repository.
type Store interface {
	Users() Users
	Resources() Resources
	Memberships() Memberships
	ShareLinks() ShareLinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and
	// rolling back on error. This is the preferred way to make multi-step
	// mutations atomic (resource + owner membership, cascade deletes).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used at login and for availability checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

// ResourceFilter narrows and pages resource listings. Pointer fields are
// ignored when nil. The payload-derived filters only apply to recipes.
type ResourceFilter struct {
	Page     int
	PageSize int

	OwnerOnly      bool
	Favourite      *bool
	Serves         *int
	MaxCookingTime *int
	MaxCost        *int
}

type Resources interface {
	// GetResource returns a resource by id, scoped to a kind.
	GetResource(ctx context.Context, id string, kind domain.Kind) (domain.Resource, error)

	// ListResourcesForUser returns the resources of one kind the user is a
	// member of (owned or joined), newest first.
	ListResourcesForUser(ctx context.Context, kind domain.Kind, userID string, f ResourceFilter) ([]domain.Resource, error)

	// CreateResource inserts a new resource row.
	CreateResource(ctx context.Context, r domain.Resource) error

	// UpdateResource replaces title, color and payload and bumps updated_at.
	UpdateResource(ctx context.Context, r domain.Resource) error

	// DeleteResource removes the resource row.
	DeleteResource(ctx context.Context, id string) error

	// IsOwner reports whether the resource's owner column equals userID.
	IsOwner(ctx context.Context, userID, resourceID string) (bool, error)
}

type Memberships interface {
	// GetMembership returns the row for (userID, resourceID).
	GetMembership(ctx context.Context, userID, resourceID string) (domain.Membership, error)

	// HasEditAccess reports whether a membership with can_edit exists.
	HasEditAccess(ctx context.Context, userID, resourceID string) (bool, error)

	// ListMembers returns memberships for a resource joined with display
	// names, excluding the given user (the owner, when listing shares).
	ListMembers(ctx context.Context, resourceID, excludingUserID string) ([]domain.Member, error)

	// CountMembers returns the number of membership rows for a resource.
	CountMembers(ctx context.Context, resourceID string) (int, error)

	// CreateMembership inserts a membership. The (user_id, resource_id)
	// primary key makes duplicates impossible; violations are returned as
	// ErrAlreadyExists so redemption races degrade to "already joined".
	CreateMembership(ctx context.Context, m domain.Membership) error

	// UpdateMembershipBulk sets can_edit for the given users on a resource.
	UpdateMembershipBulk(ctx context.Context, resourceID string, userIDs []string, canEdit bool) error

	// DeleteMemberships removes the given users' memberships on a resource.
	DeleteMemberships(ctx context.Context, resourceID string, userIDs []string) error

	// DeleteMembership removes a single membership.
	DeleteMembership(ctx context.Context, userID, resourceID string) error

	// DeleteByResource removes all memberships of a resource (cascade path
	// for resource deletion).
	DeleteByResource(ctx context.Context, resourceID string) error
}

type ShareLinks interface {
	// CreateShareLink inserts a short link row. Returns ErrAlreadyExists on
	// a code collision so the caller can regenerate.
	CreateShareLink(ctx context.Context, l domain.ShareLink) error

	// GetShareLink returns a link by code. Resolving never deletes the row;
	// a link stays redeemable by many users until its token expires.
	GetShareLink(ctx context.Context, code string) (domain.ShareLink, error)

	// DeleteShareLinksBefore removes links created before cutoff, returning
	// the number of rows swept.
	DeleteShareLinksBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
