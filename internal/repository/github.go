package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/ghrelease/internal/domain"
)

// ErrReleaseNotFound is returned by GetReleaseByTag when no release exists for the tag yet.
var ErrReleaseNotFound = errors.New("release not found")

// GithubRepository defines the hosting API operations used to manage releases.
type GithubRepository interface {
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*domain.Release, error)
	CreateRelease(ctx context.Context, owner, repo string, input domain.ReleaseInput) (*domain.Release, error)
	UpdateRelease(
		ctx context.Context,
		owner, repo string,
		releaseID int64,
		input domain.ReleaseInput,
	) (*domain.Release, error)
	DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error
	// UploadReleaseAsset posts the asset to endpoint with a name query parameter
	// and returns the raw response body.
	UploadReleaseAsset(ctx context.Context, endpoint string, asset *domain.ReleaseAsset) (string, error)
}

// StatusError carries the HTTP status of a failed API call.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
