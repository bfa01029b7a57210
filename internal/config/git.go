package config

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/compozy/ghrelease/internal/repository"
)

// populateRepositoryDefaults fills Repository from the origin remote when no
// input or CI variable provided it.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.Repository != "" {
		return nil
	}
	gitRepo, err := repository.NewGitRepository()
	if err != nil {
		// not a checkout; Validate reports the missing repository
		return nil
	}
	remote, err := gitRepo.RemoteURL(context.Background(), "origin")
	if err != nil || remote == "" {
		return err
	}
	owner, name, err := parseGitRemoteURL(remote)
	if err != nil {
		return err
	}
	cfg.Repository = owner + "/" + name
	return nil
}

// populateRefDefault fills Ref from HEAD when running outside CI.
func populateRefDefault(cfg *Config) error {
	if cfg.Ref != "" {
		return nil
	}
	gitRepo, err := repository.NewGitRepository()
	if err != nil {
		return nil
	}
	ref, err := gitRepo.HeadRef(context.Background())
	if err != nil {
		return err
	}
	cfg.Ref = ref
	return nil
}

// parseGitRemoteURL extracts owner and repository from https, ssh, scp-like
// and plain path remotes.
func parseGitRemoteURL(raw string) (string, string, error) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if s == "" {
		return "", "", fmt.Errorf("empty remote url")
	}
	switch {
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return "", "", fmt.Errorf("invalid remote url %s: %w", raw, err)
		}
		s = u.Path
	case strings.Contains(s, "@"):
		at := strings.Index(s, "@")
		if colon := strings.Index(s[at:], ":"); colon > -1 {
			s = s[at+colon+1:]
		}
	}
	parts := strings.Split(strings.Trim(filepath.ToSlash(s), "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot determine owner/repo from remote %s", raw)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
