package domain

import "time"

// Membership is the junction record granting a user access to a shared
// resource. At most one row exists per (user, resource) pair; the owner's
// row is created with the resource and lives exactly as long as it does.
type Membership struct {
	UserID     string
	ResourceID string
	CanEdit    bool
	CreatedAt  time.Time
}

// Member is a membership joined with the user's display name, as returned
// when an owner lists who a resource is shared with.
type Member struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	CanEdit bool   `json:"canEdit"`
}
