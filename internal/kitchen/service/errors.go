package service

import "errors"

var (
	// ErrNotOwner: the caller is authenticated but not the resource owner.
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrNotEditor: the caller has no membership with edit access.
	ErrNotEditor = errors.New("caller has no edit access")

	// ErrResourceNotFound: no resource of the requested kind with that id.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrOwnerCannotLeave: the owner's membership is tied to the resource
	// lifetime and is only removed by deleting the resource.
	ErrOwnerCannotLeave = errors.New("owner cannot remove themselves")

	// ErrLinkInvalid covers malformed codes, unknown codes and tokens that
	// fail verification. Deliberately indistinguishable from "no such
	// resource" so links cannot be used to probe existence.
	ErrLinkInvalid = errors.New("link is not valid")

	// ErrLinkExpired: the link resolved but its embedded token is past TTL.
	ErrLinkExpired = errors.New("link has expired")

	// ErrAlreadyJoined: the caller already holds a membership. A signal that
	// no action is needed, not a failure of the system.
	ErrAlreadyJoined = errors.New("already joined")

	// ErrUsernameTaken: registration conflict on the username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrInvalidCredentials: unknown username or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
