package cmd

import (
	"os"

	"github.com/compozy/ghrelease/internal/config"
	"github.com/compozy/ghrelease/internal/orchestrator"
	"github.com/compozy/ghrelease/internal/repository"
	"github.com/compozy/ghrelease/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo      repository.FileSystemRepository
	ghRepo      repository.GithubRepository
	outputRepo  repository.OutputRepository
	matcherSvc  service.MatcherService
	artifactSvc service.ArtifactService
}

// newContainer creates a new container with all the dependencies.
func newContainer(log *zap.Logger) (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	ghRepo, err := repository.NewGithubRepository(cfg.Token, cfg.APIURL, log)
	if err != nil {
		return nil, err
	}

	return &container{
		cfg:         cfg,
		log:         log,
		fsRepo:      fsRepo,
		ghRepo:      ghRepo,
		outputRepo:  repository.NewOutputRepository(fsRepo, os.Getenv("GITHUB_OUTPUT"), os.Stdout),
		matcherSvc:  service.NewMatcherService(fsRepo),
		artifactSvc: service.NewArtifactService(fsRepo, cfg.ArtifactsDir),
	}, nil
}

func (c *container) releaseOrchestrator() *orchestrator.ReleaseOrchestrator {
	return orchestrator.NewReleaseOrchestrator(
		c.ghRepo,
		c.fsRepo,
		c.outputRepo,
		c.matcherSvc,
		c.artifactSvc,
		c.log,
	)
}
