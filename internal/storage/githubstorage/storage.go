package githubstorage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"photofolio/internal/config"
	"photofolio/internal/storage"
)

// Файлы в репозитории лежат так же, как их раздаёт сайт.
const repoPrefix = "public/static"

// GitHubBlobStorage хранит объекты в git-репозитории через contents API.
// Каждая запись — отдельный коммит; удаление требует текущего SHA блоба.
type GitHubBlobStorage struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

func NewGitHubBlobStorage(cfg config.GitHubConfig) *GitHubBlobStorage {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubBlobStorage{
		client: github.NewClient(tc),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

func (s *GitHubBlobStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	repoPath := path.Join(repoPrefix, key)

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Add %s", path.Base(key))),
		Content: data,
		Branch:  github.String(s.branch),
	}

	// Перезапись существующего пути требует его SHA
	if sha, err := s.contentSHA(ctx, repoPath); err == nil {
		opts.SHA = github.String(sha)
		opts.Message = github.String(fmt.Sprintf("Update %s", path.Base(key)))
		_, _, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, repoPath, opts)
		return s.wrapWriteErr(err)
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		return err
	}

	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, repoPath, opts)
	return s.wrapWriteErr(err)
}

func (s *GitHubBlobStorage) Delete(ctx context.Context, key string) error {
	repoPath := path.Join(repoPrefix, key)

	sha, err := s.contentSHA(ctx, repoPath)
	if err != nil {
		return err
	}

	_, _, err = s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, repoPath, &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Remove %s", path.Base(key))),
		SHA:     github.String(sha),
		Branch:  github.String(s.branch),
	})
	return s.wrapWriteErr(err)
}

func (s *GitHubBlobStorage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	repoPath := path.Join(repoPrefix, strings.TrimSuffix(prefix, "/"))

	_, dir, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, repoPath,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			// Каталог раздела ещё не создавался
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}

	objects := make([]storage.ObjectInfo, 0, len(dir))
	for _, entry := range dir {
		if entry.GetType() != "file" {
			continue
		}

		objects = append(objects, storage.ObjectInfo{
			Key:  strings.TrimSuffix(prefix, "/") + "/" + entry.GetName(),
			Size: int64(entry.GetSize()),
			ETag: entry.GetSHA(),
		})
	}

	return objects, nil
}

// contentSHA возвращает SHA блоба по пути в репозитории.
func (s *GitHubBlobStorage) contentSHA(ctx context.Context, repoPath string) (string, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, repoPath,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", storage.ErrObjectNotFound
		}
		return "", fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
	}
	if file == nil {
		return "", storage.ErrObjectNotFound
	}

	return file.GetSHA(), nil
}

func (s *GitHubBlobStorage) wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", storage.ErrWriteConflict, err)
		case http.StatusNotFound:
			return storage.ErrObjectNotFound
		}
	}

	return fmt.Errorf("%w: %v", storage.ErrStoreUnavailable, err)
}
