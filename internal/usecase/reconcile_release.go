package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/ghrelease/internal/config"
	"github.com/compozy/ghrelease/internal/domain"
	"github.com/compozy/ghrelease/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrTooManyRetries is returned once every release creation attempt has failed.
var ErrTooManyRetries = errors.New("too many retries")

// ReconcileReleaseUseCase makes the release for the configured tag match the configuration,
// updating it when it exists and creating it otherwise.
type ReconcileReleaseUseCase struct {
	GithubRepo repository.GithubRepository
	FsRepo     repository.FileSystemRepository
	Logger     *zap.Logger
}

// Execute runs the use case. A failed create re-runs the whole lookup-then-decide
// step, at most maxRetries times in total.
func (uc *ReconcileReleaseUseCase) Execute(
	ctx context.Context,
	cfg *config.Config,
	maxRetries int,
) (*domain.Release, error) {
	log := uc.logger()
	owner, repo := cfg.Owner(), cfg.RepoName()
	tag := cfg.Tag()
	for remaining := maxRetries; remaining > 0; remaining-- {
		body, err := ReleaseBody(uc.FsRepo, cfg)
		if err != nil {
			return nil, err
		}
		existing, err := uc.GithubRepo.GetReleaseByTag(ctx, owner, repo, tag)
		if err == nil {
			return uc.update(ctx, cfg, existing, body)
		}
		if !errors.Is(err, repository.ErrReleaseNotFound) {
			return nil, fmt.Errorf("failed to look up release: %w", err)
		}
		input := domain.ReleaseInput{
			TagName:                tag,
			TargetCommitish:        cfg.TargetCommitish,
			Name:                   domain.FirstNonEmpty(cfg.Name, tag),
			Body:                   body,
			Draft:                  cfg.Draft,
			Prerelease:             cfg.Prerelease,
			DiscussionCategoryName: cfg.DiscussionCategoryName,
			GenerateReleaseNotes:   cfg.GenerateReleaseNotes,
		}
		log.Info("Creating new release", zap.String("tag", tag))
		created, err := uc.GithubRepo.CreateRelease(ctx, owner, repo, input)
		if err == nil {
			return created, nil
		}
		log.Warn("Failed to create release",
			zap.String("tag", tag),
			zap.Int("status", repository.StatusCode(err)),
			zap.Error(err),
			zap.Int("retries_remaining", remaining-1))
	}
	return nil, ErrTooManyRetries
}

func (uc *ReconcileReleaseUseCase) update(
	ctx context.Context,
	cfg *config.Config,
	existing *domain.Release,
	body *string,
) (*domain.Release, error) {
	log := uc.logger()
	target := existing.TargetCommitish
	if cfg.TargetCommitish != "" && cfg.TargetCommitish != existing.TargetCommitish {
		log.Info("Updating release commit",
			zap.String("from", existing.TargetCommitish),
			zap.String("to", cfg.TargetCommitish))
		target = cfg.TargetCommitish
	}
	input := domain.ReleaseInput{
		TagName:                existing.TagName,
		TargetCommitish:        target,
		Name:                   domain.FirstNonEmpty(cfg.Name, existing.Name, cfg.Tag()),
		Body:                   domain.Ptr(mergeBody(cfg.AppendBody, existing.Body, body)),
		Draft:                  domain.Ptr(domain.Inherit(cfg.Draft, existing.Draft)),
		Prerelease:             domain.Ptr(domain.Inherit(cfg.Prerelease, existing.Prerelease)),
		DiscussionCategoryName: cfg.DiscussionCategoryName,
		GenerateReleaseNotes:   cfg.GenerateReleaseNotes,
	}
	if input.TagName == "" {
		input.TagName = cfg.Tag()
	}
	log.Info("Updating existing release", zap.String("tag", input.TagName), zap.Int64("id", existing.ID))
	updated, err := uc.GithubRepo.UpdateRelease(ctx, cfg.Owner(), cfg.RepoName(), existing.ID, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}
	return updated, nil
}

func (uc *ReconcileReleaseUseCase) logger() *zap.Logger {
	if uc.Logger == nil {
		return zap.NewNop()
	}
	return uc.Logger
}

// mergeBody joins the existing and workflow bodies when appending and both are non-empty;
// otherwise the workflow body wins over the existing one.
func mergeBody(appendBody bool, existing string, workflow *string) string {
	var next string
	if workflow != nil {
		next = *workflow
	}
	if appendBody && next != "" && existing != "" {
		return existing + "\n" + next
	}
	return domain.FirstNonEmpty(next, existing)
}

// ReleaseBody resolves the release body: the body file wins over the inline body.
// It returns nil when neither is configured.
func ReleaseBody(fs afero.Fs, cfg *config.Config) (*string, error) {
	if cfg.BodyPath != "" {
		data, err := afero.ReadFile(fs, cfg.BodyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file %s: %w", cfg.BodyPath, err)
		}
		return domain.Ptr(string(data)), nil
	}
	if cfg.Body != "" {
		return domain.Ptr(cfg.Body), nil
	}
	return nil, nil
}
