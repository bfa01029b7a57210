package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/ghrelease/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo *git.Repository
}

// NewGitRepository opens the checkout containing the working directory.
func NewGitRepository() (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo}, nil
}

// RemoteURL returns the first URL configured for the remote.
func (r *gitRepository) RemoteURL(_ context.Context, name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// HeadRef resolves the ref a CI run would have been triggered for.
func (r *gitRepository) HeadRef(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	tag, err := r.tagAtCommit(head.Hash())
	if err != nil {
		return "", err
	}
	switch {
	case tag != "":
		return domain.TagRefPrefix + tag, nil
	case head.Name().IsBranch():
		return head.Name().String(), nil
	}
	return "", nil
}

// tagAtCommit returns the name of a tag, lightweight or annotated, that points at hash.
func (r *gitRepository) tagAtCommit(hash plumbing.Hash) (string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to get tags: %w", err)
	}
	var found string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		if found != "" {
			return nil
		}
		target := ref.Hash()
		// annotated tags point at a tag object rather than the commit
		if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
			target = tagObj.Target
		}
		if target == hash {
			found = ref.Name().Short()
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("failed to iterate tags: %w", err)
	}
	return found, nil
}
