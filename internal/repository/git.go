package repository

import "context"

// GitRepository defines the read-only queries made against the local checkout.

type GitRepository interface {
	// RemoteURL returns the first URL of the named remote, or "" when it does not exist.
	RemoteURL(ctx context.Context, name string) (string, error)
	// HeadRef returns refs/tags/<tag> when a tag points at HEAD, otherwise the
	// checked out branch ref. It returns "" for a detached HEAD or an empty repository.
	HeadRef(ctx context.Context) (string, error)
}
