package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"publisher/internal/gateway/entity"
)

// WithWorkdir keeps one clone per repository under dir and resets it to the
// remote branch before every commit. An empty dir keeps in-memory clones.
func WithWorkdir(dir string) CommitterOption {
	return func(c *Committer) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		c.open = func(ctx context.Context, repo entity.Repository) (*git.Repository, error) {
			return c.openOnDisk(ctx, filepath.Join(dir, repo.Owner, repo.Name), repo)
		}
	}
}

func (c *Committer) openOnDisk(ctx context.Context, dir string, repo entity.Repository) (*git.Repository, error) {
	branch := repo.BranchOrDefault()
	r, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		url := strings.TrimSpace(repo.CloneURL)
		if url == "" {
			return nil, fmt.Errorf("repository %s has no clone url", repo.FullName())
		}
		r, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           url,
			Auth:          c.auth,
			ReferenceName: plumbing.NewBranchReferenceName(branch),
			SingleBranch:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("clone %s: %w", repo.FullName(), err)
		}
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}

	err = r.FetchContext(ctx, &git.FetchOptions{RemoteName: git.DefaultRemoteName, Auth: c.auth, Force: true})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("fetch %s: %w", repo.FullName(), err)
	}
	ref, err := r.Reference(plumbing.NewRemoteReferenceName(git.DefaultRemoteName, branch), true)
	if err != nil {
		return nil, fmt.Errorf("resolve %s/%s: %w", repo.FullName(), branch, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: ref.Hash(), Mode: git.HardReset}); err != nil {
		return nil, fmt.Errorf("reset %s: %w", repo.FullName(), err)
	}
	if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return nil, fmt.Errorf("clean %s: %w", repo.FullName(), err)
	}
	c.logger.Debugw("reusing clone", "repository", repo.FullName(), "dir", dir, "head", ref.Hash().String())
	return r, nil
}
