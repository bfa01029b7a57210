package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/compozy/ghrelease/internal/domain"
	"github.com/google/go-github/v74/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com"

// githubRepository is the implementation of the GithubRepository interface.
type githubRepository struct {
	client *github.Client
}

// NewGithubRepository creates a GithubRepository authenticated with token.
// An apiURL other than the public API selects a GitHub Enterprise Server.
func NewGithubRepository(token, apiURL string, log *zap.Logger) (GithubRepository, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("github token is required")
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Transport = NewRateLimitTransport(tc.Transport, log, DefaultMaxRateLimitWait)
	client := github.NewClient(tc)

	apiURL = strings.TrimSuffix(apiURL, "/")
	if apiURL != "" && apiURL != defaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, strings.TrimSuffix(apiURL, "/api/v3"))
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise urls: %w", err)
		}
	}
	return &githubRepository{client: client}, nil
}

// GetReleaseByTag returns the release for tag, or ErrReleaseNotFound.
func (r *githubRepository) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*domain.Release, error) {
	rel, _, err := r.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		err = wrapAPIError(err)
		if StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("failed to get release for tag %q: %w", tag, ErrReleaseNotFound)
		}
		return nil, fmt.Errorf("failed to get release for tag %q: %w", tag, err)
	}
	return toDomainRelease(rel), nil
}

// CreateRelease creates a new release.
func (r *githubRepository) CreateRelease(
	ctx context.Context,
	owner, repo string,
	input domain.ReleaseInput,
) (*domain.Release, error) {
	rel, _, err := r.client.Repositories.CreateRelease(ctx, owner, repo, toGithubRelease(input))
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", input.TagName, wrapAPIError(err))
	}
	return toDomainRelease(rel), nil
}

// UpdateRelease edits the release with the given id.
func (r *githubRepository) UpdateRelease(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
	input domain.ReleaseInput,
) (*domain.Release, error) {
	rel, _, err := r.client.Repositories.EditRelease(ctx, owner, repo, releaseID, toGithubRelease(input))
	if err != nil {
		return nil, fmt.Errorf("failed to update release %d: %w", releaseID, wrapAPIError(err))
	}
	return toDomainRelease(rel), nil
}

// DeleteReleaseAsset deletes an asset attached to a release.
func (r *githubRepository) DeleteReleaseAsset(ctx context.Context, owner, repo string, assetID int64) error {
	if _, err := r.client.Repositories.DeleteReleaseAsset(ctx, owner, repo, assetID); err != nil {
		return fmt.Errorf("failed to delete release asset %d: %w", assetID, wrapAPIError(err))
	}
	return nil
}

// UploadReleaseAsset posts the raw asset bytes to endpoint.
func (r *githubRepository) UploadReleaseAsset(
	ctx context.Context,
	endpoint string,
	asset *domain.ReleaseAsset,
) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid upload url %s: %w", endpoint, err)
	}
	q := u.Query()
	q.Add("name", asset.Name)
	u.RawQuery = q.Encode()
	req, err := r.client.NewUploadRequest(u.String(), bytes.NewReader(asset.Data), asset.Size, asset.Mime)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request for %s: %w", asset.Name, err)
	}
	var body bytes.Buffer
	if _, err := r.client.Do(ctx, req, &body); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", asset.Name, wrapAPIError(err))
	}
	return body.String(), nil
}

// wrapAPIError attaches the response status of go-github errors.
func wrapAPIError(err error) error {
	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		response *http.Response
	)
	switch {
	case errors.As(err, &errResp):
		response = errResp.Response
	case errors.As(err, &rateErr):
		response = rateErr.Response
	case errors.As(err, &abuseErr):
		response = abuseErr.Response
	}
	if response == nil {
		return err
	}
	return &StatusError{StatusCode: response.StatusCode, Err: err}
}

func toGithubRelease(input domain.ReleaseInput) *github.RepositoryRelease {
	rel := &github.RepositoryRelease{
		TagName:              github.Ptr(input.TagName),
		Name:                 github.Ptr(input.Name),
		Body:                 input.Body,
		Draft:                input.Draft,
		Prerelease:           input.Prerelease,
		GenerateReleaseNotes: github.Ptr(input.GenerateReleaseNotes),
	}
	if input.TargetCommitish != "" {
		rel.TargetCommitish = github.Ptr(input.TargetCommitish)
	}
	if input.DiscussionCategoryName != "" {
		rel.DiscussionCategoryName = github.Ptr(input.DiscussionCategoryName)
	}
	return rel
}

func toDomainRelease(rel *github.RepositoryRelease) *domain.Release {
	out := &domain.Release{
		ID:              rel.GetID(),
		TagName:         rel.GetTagName(),
		TargetCommitish: rel.GetTargetCommitish(),
		Name:            rel.GetName(),
		Body:            rel.GetBody(),
		Draft:           rel.GetDraft(),
		Prerelease:      rel.GetPrerelease(),
		HTMLURL:         rel.GetHTMLURL(),
		UploadURL:       rel.GetUploadURL(),
	}
	for _, a := range rel.Assets {
		if a == nil {
			continue
		}
		out.Assets = append(out.Assets, domain.AssetStub{ID: a.GetID(), Name: a.GetName()})
	}
	return out
}
