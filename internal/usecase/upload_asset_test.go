package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/ghrelease/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://uploads.github.com/repos/acme/widgets/releases/1/assets"

func TestMimeOrDefault(t *testing.T) {
	t.Run("Should map compressed tarballs to gzip", func(t *testing.T) {
		assert.Equal(t, "application/gzip", MimeOrDefault("foo.tar.gz"))
	})
	t.Run("Should map text files", func(t *testing.T) {
		assert.Equal(t, "text/plain", MimeOrDefault("dist/bar.txt"))
		assert.Equal(t, "text/plain", MimeOrDefault("BAR.TXT"))
	})
	t.Run("Should fall back to octet-stream", func(t *testing.T) {
		assert.Equal(t, "application/octet-stream", MimeOrDefault("foo.uncommon"))
		assert.Equal(t, "application/octet-stream", MimeOrDefault("Makefile"))
	})
}

func TestNewReleaseAsset(t *testing.T) {
	t.Run("Should derive name, type, size and data", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "tests/data/foo/bar.txt", []byte("release me"), 0644))
		asset, err := NewReleaseAsset(fs, "tests/data/foo/bar.txt")
		require.NoError(t, err)
		assert.Equal(t, &domain.ReleaseAsset{
			Name: "bar.txt",
			Mime: "text/plain",
			Size: 10,
			Data: []byte("release me"),
		}, asset)
	})
	t.Run("Should fail for a missing file", func(t *testing.T) {
		_, err := NewReleaseAsset(afero.NewMemMapFs(), "nope.txt")
		assert.Error(t, err)
	})
}

func TestUploadAssetUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	newFs := func(t *testing.T) afero.Fs {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "dist/bar.txt", []byte("release me"), 0644))
		return fs
	}
	isBar := mock.MatchedBy(func(a *domain.ReleaseAsset) bool {
		return a.Name == "bar.txt" && a.Size == 10 && a.Mime == "text/plain"
	})

	t.Run("Should upload a new asset", func(t *testing.T) {
		githubRepo := new(mockGithubRepository)
		uc := &UploadAssetUseCase{GithubRepo: githubRepo, FsRepo: newFs(t)}
		githubRepo.On("UploadReleaseAsset", ctx, testEndpoint, isBar).Return(`{"id":3}`, nil)
		out, err := uc.Execute(ctx, testConfig(), testEndpoint, "dist/bar.txt", []domain.AssetStub{{ID: 1, Name: "other.txt"}})
		require.NoError(t, err)
		assert.Equal(t, `{"id":3}`, out)
		githubRepo.AssertNotCalled(t, "DeleteReleaseAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		githubRepo.AssertExpectations(t)
	})
	t.Run("Should replace a same-named asset", func(t *testing.T) {
		githubRepo := new(mockGithubRepository)
		uc := &UploadAssetUseCase{GithubRepo: githubRepo, FsRepo: newFs(t)}
		githubRepo.On("DeleteReleaseAsset", ctx, "acme", "widgets", int64(5)).Return(nil).Once()
		githubRepo.On("UploadReleaseAsset", ctx, testEndpoint, isBar).Return(`{"id":6}`, nil).Once()
		_, err := uc.Execute(ctx, testConfig(), testEndpoint, "dist/bar.txt", []domain.AssetStub{{ID: 5, Name: "bar.txt"}})
		require.NoError(t, err)
		githubRepo.AssertExpectations(t)
	})
	t.Run("Should refuse to replace an asset without an id", func(t *testing.T) {
		githubRepo := new(mockGithubRepository)
		uc := &UploadAssetUseCase{GithubRepo: githubRepo, FsRepo: newFs(t)}
		_, err := uc.Execute(ctx, testConfig(), testEndpoint, "dist/bar.txt", []domain.AssetStub{{Name: "bar.txt"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingAssetID)
		githubRepo.AssertNotCalled(t, "DeleteReleaseAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		githubRepo.AssertNotCalled(t, "UploadReleaseAsset", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Should not upload when the delete fails", func(t *testing.T) {
		githubRepo := new(mockGithubRepository)
		uc := &UploadAssetUseCase{GithubRepo: githubRepo, FsRepo: newFs(t)}
		githubRepo.On("DeleteReleaseAsset", ctx, "acme", "widgets", int64(5)).Return(errors.New("boom"))
		_, err := uc.Execute(ctx, testConfig(), testEndpoint, "dist/bar.txt", []domain.AssetStub{{ID: 5, Name: "bar.txt"}})
		require.Error(t, err)
		githubRepo.AssertNotCalled(t, "UploadReleaseAsset", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("Should return upload failures", func(t *testing.T) {
		githubRepo := new(mockGithubRepository)
		uc := &UploadAssetUseCase{GithubRepo: githubRepo, FsRepo: newFs(t)}
		githubRepo.On("UploadReleaseAsset", ctx, testEndpoint, isBar).Return("", errors.New("boom"))
		_, err := uc.Execute(ctx, testConfig(), testEndpoint, "dist/bar.txt", nil)
		assert.Error(t, err)
	})
}
