package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"photofolio/internal/config"
	"photofolio/internal/domain/models"
)

const listingRepoDir = "data/listings"

// GitHubListingStore хранит документ листинга в git-репозитории.
// Токен версии — SHA блоба: contents API отклоняет запись с устаревшим
// SHA, это и есть условность записи.
type GitHubListingStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

func NewGitHubListingStore(cfg config.GitHubConfig) *GitHubListingStore {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubListingStore{
		client: github.NewClient(tc),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

func (s *GitHubListingStore) Get(ctx context.Context, category models.Category) (models.Listing, string, error) {
	const op = "repository.github_listing.Get"

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path(category),
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return models.Listing{}, VersionNone, nil
		}
		return nil, "", fmt.Errorf("failed to get listing: %s %w", op, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("%s: listing path is a directory", op)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode listing: %s %w", op, err)
	}

	var listing models.Listing
	if err := json.Unmarshal([]byte(content), &listing); err != nil {
		return nil, "", fmt.Errorf("failed to parse listing: %s %w", op, err)
	}

	return listing, file.GetSHA(), nil
}

func (s *GitHubListingStore) Put(ctx context.Context, category models.Category, listing models.Listing, version string) (string, error) {
	const op = "repository.github_listing.Put"

	if listing == nil {
		listing = models.Listing{}
	}

	raw, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal listing: %s %w", op, err)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Update %s gallery listing", category)),
		Content: raw,
		Branch:  github.String(s.branch),
	}

	var (
		res  *github.RepositoryContentResponse
		werr error
	)

	if version == VersionNone {
		res, _, werr = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.path(category), opts)
	} else {
		opts.SHA = github.String(version)
		res, _, werr = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path(category), opts)
	}

	if werr != nil {
		var ghErr *github.ErrorResponse
		if errors.As(werr, &ghErr) && ghErr.Response != nil {
			switch ghErr.Response.StatusCode {
			case http.StatusConflict, http.StatusUnprocessableEntity:
				return "", ErrVersionConflict
			}
		}
		return "", fmt.Errorf("failed to put listing: %s %w", op, werr)
	}

	return res.Content.GetSHA(), nil
}

func (s *GitHubListingStore) path(category models.Category) string {
	return path.Join(listingRepoDir, category.String()+".json")
}
