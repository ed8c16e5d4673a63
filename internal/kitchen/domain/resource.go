package domain

import (
	"encoding/json"
	"time"
)

// Kind tags the two shareable resource types. Sharing and permission rules
// are identical for both; only the payload shape and a few defaults differ.
type Kind string

const (
	KindRecipe      Kind = "recipe"
	KindGroceryList Kind = "grocery"
)

// ParseKind validates a kind string coming from storage or a token claim.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRecipe, KindGroceryList:
		return Kind(s), true
	}
	return "", false
}

// RedirectPath is the client route a joiner is sent to after redemption.
func (k Kind) RedirectPath() string {
	switch k {
	case KindGroceryList:
		return "/grocery-lists"
	default:
		return "/recipes"
	}
}

// DefaultCanEdit is the edit grant a share link carries when the minter does
// not choose one: grocery lists are collaborative by default, recipes are
// shared read-only.
func (k Kind) DefaultCanEdit() bool {
	return k == KindGroceryList
}

// Label is the human-readable name used in error messages.
func (k Kind) Label() string {
	switch k {
	case KindGroceryList:
		return "grocery list"
	default:
		return "recipe"
	}
}

// Resource is a recipe or grocery list. The owner is fixed at creation and
// cannot be transferred; everything kind-specific lives in Payload.
type Resource struct {
	ID        string
	Kind      Kind
	OwnerID   string
	Title     string
	Color     string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
