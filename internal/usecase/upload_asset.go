package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/compozy/ghrelease/internal/config"
	"github.com/compozy/ghrelease/internal/domain"
	"github.com/compozy/ghrelease/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrMissingAssetID is returned when a same-named asset must be replaced but carries no id.
var ErrMissingAssetID = errors.New("existing asset has no id")

const defaultMimeType = "application/octet-stream"

// knownMimeTypes covers the usual release artifacts independently of the host's MIME database.
var knownMimeTypes = map[string]string{
	".txt":    "text/plain",
	".md":     "text/markdown",
	".sha256": "text/plain",
	".sig":    "application/pgp-signature",
	".asc":    "application/pgp-signature",
	".json":   "application/json",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".xml":    "application/xml",
	".pdf":    "application/pdf",
	".gz":     "application/gzip",
	".tgz":    "application/gzip",
	".zip":    "application/zip",
	".tar":    "application/x-tar",
	".bz2":    "application/x-bzip2",
	".xz":     "application/x-xz",
	".zst":    "application/zstd",
	".7z":     "application/x-7z-compressed",
	".deb":    "application/vnd.debian.binary-package",
	".rpm":    "application/x-rpm",
	".dmg":    "application/x-apple-diskimage",
	".exe":    "application/vnd.microsoft.portable-executable",
	".msi":    "application/x-msdownload",
	".wasm":   "application/wasm",
}

// MimeOrDefault returns the MIME type for path's extension, or application/octet-stream.
func MimeOrDefault(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return defaultMimeType
	}
	if t, ok := knownMimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		base, _, _ := strings.Cut(t, ";")
		return strings.TrimSpace(base)
	}
	return defaultMimeType
}

// NewReleaseAsset reads the file at path into an upload payload.
func NewReleaseAsset(fs afero.Fs, path string) (*domain.ReleaseAsset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", path, err)
	}
	return &domain.ReleaseAsset{
		Name: filepath.Base(path),
		Mime: MimeOrDefault(path),
		Size: int64(len(data)),
		Data: data,
	}, nil
}

// UploadAssetUseCase attaches a local file to a release, replacing a same-named asset.
type UploadAssetUseCase struct {
	GithubRepo repository.GithubRepository
	FsRepo     repository.FileSystemRepository
	Logger     *zap.Logger
}

// Execute uploads path to endpoint and returns the raw upload response.
// currentAssets is the asset list of the release before any upload of this run.
func (uc *UploadAssetUseCase) Execute(
	ctx context.Context,
	cfg *config.Config,
	endpoint, path string,
	currentAssets []domain.AssetStub,
) (string, error) {
	log := uc.Logger
	if log == nil {
		log = zap.NewNop()
	}
	asset, err := NewReleaseAsset(uc.FsRepo, path)
	if err != nil {
		return "", err
	}
	if current, ok := domain.FindAsset(currentAssets, asset.Name); ok {
		if current.ID == 0 {
			return "", fmt.Errorf("failed to replace asset %s: %w", asset.Name, ErrMissingAssetID)
		}
		log.Info("Deleting previously uploaded asset", zap.String("name", asset.Name), zap.Int64("id", current.ID))
		if err := uc.GithubRepo.DeleteReleaseAsset(ctx, cfg.Owner(), cfg.RepoName(), current.ID); err != nil {
			return "", err
		}
	}
	log.Info("Uploading asset", zap.String("name", asset.Name), zap.Int64("size", asset.Size))
	return uc.GithubRepo.UploadReleaseAsset(ctx, endpoint, asset)
}
