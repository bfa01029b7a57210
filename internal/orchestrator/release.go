package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/compozy/ghrelease/internal/config"
	"github.com/compozy/ghrelease/internal/domain"
	"github.com/compozy/ghrelease/internal/repository"
	"github.com/compozy/ghrelease/internal/service"
	"github.com/compozy/ghrelease/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReleaseResult describes the outcome of a release run.
type ReleaseResult struct {
	Release *domain.Release
	// Assets holds the raw upload responses of the configured files, in file order.
	Assets []string
}

// ReleaseOrchestrator orchestrates the release workflow: reconcile the release,
// attach artifacts and files, then publish outputs.
type ReleaseOrchestrator struct {
	githubRepo  repository.GithubRepository
	fsRepo      repository.FileSystemRepository
	outputRepo  repository.OutputRepository
	matcherSvc  service.MatcherService
	artifactSvc service.ArtifactService
	logger      *zap.Logger
	maxRetries  int
	concurrency int
}

// NewReleaseOrchestrator creates a new release orchestrator.
func NewReleaseOrchestrator(
	githubRepo repository.GithubRepository,
	fsRepo repository.FileSystemRepository,
	outputRepo repository.OutputRepository,
	matcherSvc service.MatcherService,
	artifactSvc service.ArtifactService,
	logger *zap.Logger,
) *ReleaseOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReleaseOrchestrator{
		githubRepo:  githubRepo,
		fsRepo:      fsRepo,
		outputRepo:  outputRepo,
		matcherSvc:  matcherSvc,
		artifactSvc: artifactSvc,
		logger:      logger,
		maxRetries:  DefaultMaxRetries,
		concurrency: DefaultUploadConcurrency,
	}
}

// Execute runs the complete release workflow.
func (o *ReleaseOrchestrator) Execute(ctx context.Context, cfg *config.Config) (*ReleaseResult, error) {
	o.logger.Debug("Resolved configuration", zap.Stringer("config", cfg))
	if err := ValidateReleaseTarget(cfg); err != nil {
		return nil, err
	}
	if err := o.checkPatterns(cfg); err != nil {
		return nil, err
	}
	reconcile := &usecase.ReconcileReleaseUseCase{
		GithubRepo: o.githubRepo,
		FsRepo:     o.fsRepo,
		Logger:     o.logger,
	}
	rel, err := reconcile.Execute(ctx, cfg, o.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile release: %w", err)
	}
	currentAssets := rel.Assets
	endpoint := domain.UploadURL(rel.UploadURL)
	uploader := &usecase.UploadAssetUseCase{
		GithubRepo: o.githubRepo,
		FsRepo:     o.fsRepo,
		Logger:     o.logger,
	}
	if err := o.uploadArtifacts(ctx, cfg, uploader, endpoint, currentAssets); err != nil {
		return nil, err
	}
	result := &ReleaseResult{Release: rel}
	if len(cfg.Files) > 0 {
		result.Assets, err = o.uploadFiles(ctx, cfg, uploader, endpoint, currentAssets)
		if err != nil {
			return nil, err
		}
	}
	o.logger.Info("Release ready", zap.String("url", rel.HTMLURL))
	if err := o.writeOutputs(ctx, cfg, result); err != nil {
		return nil, err
	}
	return result, nil
}

// checkPatterns warns about file patterns that match nothing.
func (o *ReleaseOrchestrator) checkPatterns(cfg *config.Config) error {
	if len(cfg.Files) == 0 {
		return nil
	}
	unmatched, err := o.matcherSvc.UnmatchedPatterns(cfg.Files)
	if err != nil {
		return fmt.Errorf("failed to match files: %w", err)
	}
	for _, pattern := range unmatched {
		o.logger.Warn("Pattern does not match any files", zap.String("pattern", pattern))
	}
	if len(unmatched) > 0 && cfg.FailOnUnmatchedFiles {
		return ErrUnmatchedFiles
	}
	return nil
}

// uploadArtifacts uploads the files of the selected artifacts one after another.
func (o *ReleaseOrchestrator) uploadArtifacts(
	ctx context.Context,
	cfg *config.Config,
	uploader *usecase.UploadAssetUseCase,
	endpoint string,
	currentAssets []domain.AssetStub,
) error {
	if len(cfg.Artifacts) == 0 {
		return nil
	}
	files, err := o.artifactSvc.Files(cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to list artifacts: %w", err)
	}
	for _, f := range files {
		o.logger.Debug("Uploading artifact file", zap.String("artifact", f.Artifact), zap.String("path", f.Path))
		if _, err := uploader.Execute(ctx, cfg, endpoint, f.Path, currentAssets); err != nil {
			return fmt.Errorf("failed to upload artifact %s: %w", f.Artifact, err)
		}
	}
	return nil
}

// uploadFiles uploads every matched file concurrently. The first failure cancels the rest.
func (o *ReleaseOrchestrator) uploadFiles(
	ctx context.Context,
	cfg *config.Config,
	uploader *usecase.UploadAssetUseCase,
	endpoint string,
	currentAssets []domain.AssetStub,
) ([]string, error) {
	paths, err := o.matcherSvc.Paths(cfg.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to match files: %w", err)
	}
	if len(paths) == 0 {
		o.logger.Warn("Files did not include any valid files", zap.Strings("files", cfg.Files))
	}
	results := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			out, err := uploader.Execute(gctx, cfg, endpoint, path, currentAssets)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *ReleaseOrchestrator) writeOutputs(ctx context.Context, cfg *config.Config, result *ReleaseResult) error {
	outputs := [][2]string{
		{OutputURL, result.Release.HTMLURL},
		{OutputID, strconv.FormatInt(result.Release.ID, 10)},
		{OutputUploadURL, result.Release.UploadURL},
	}
	if len(cfg.Files) > 0 {
		assets := result.Assets
		if assets == nil {
			assets = []string{}
		}
		data, err := json.Marshal(assets)
		if err != nil {
			return fmt.Errorf("failed to encode assets output: %w", err)
		}
		outputs = append(outputs, [2]string{OutputAssets, string(data)})
	}
	for _, out := range outputs {
		if err := o.outputRepo.SetOutput(ctx, out[0], out[1]); err != nil {
			return fmt.Errorf("failed to set output %s: %w", out[0], err)
		}
	}
	return nil
}
