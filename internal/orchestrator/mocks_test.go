package orchestrator

import (
	"context"

	"github.com/compozy/ghrelease/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GithubRepository
type mockGithubRepository struct{ mock.Mock }

func (m *mockGithubRepository) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*domain.Release, error) {
	args := m.Called(ctx, owner, repo, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}
func (m *mockGithubRepository) CreateRelease(
	ctx context.Context,
	owner, repo string,
	input domain.ReleaseInput,
) (*domain.Release, error) {
	args := m.Called(ctx, owner, repo, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}
func (m *mockGithubRepository) UpdateRelease(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
	input domain.ReleaseInput,
) (*domain.Release, error) {
	args := m.Called(ctx, owner, repo, releaseID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Release), args.Error(1)
}
func (m *mockGithubRepository) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	args := m.Called(ctx, owner, repo, assetID)
	return args.Error(0)
}
func (m *mockGithubRepository) UploadReleaseAsset(
	ctx context.Context,
	endpoint string,
	asset *domain.ReleaseAsset,
) (string, error) {
	args := m.Called(ctx, endpoint, asset)
	return args.String(0), args.Error(1)
}

// Mock for OutputRepository
type mockOutputRepository struct{ mock.Mock }

func (m *mockOutputRepository) SetOutput(ctx context.Context, name, value string) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}
