package gitrepo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
)

// Opener yields a checked-out git repository for repo on its branch.
type Opener func(ctx context.Context, repo entity.Repository) (*git.Repository, error)

// Author signs commits created by the committer.
type Author struct {
	Name  string
	Email string
}

// Committer applies FileUpdates to a repository as a single commit and pushes it.
type Committer struct {
	open   Opener
	author Author
	auth   transport.AuthMethod
	now    func() time.Time
	logger *zap.SugaredLogger
}

type CommitterOption func(*Committer)

// WithToken authenticates clone and push with a hosting token.
func WithToken(token string) CommitterOption {
	return func(c *Committer) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		c.auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
	}
}

// WithOpener replaces the default in-memory clone.
func WithOpener(open Opener) CommitterOption {
	return func(c *Committer) {
		if open != nil {
			c.open = open
		}
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) CommitterOption {
	return func(c *Committer) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCommitter(author Author, logger *zap.SugaredLogger, opts ...CommitterOption) *Committer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if strings.TrimSpace(author.Name) == "" {
		author.Name = "Packmind"
	}
	if strings.TrimSpace(author.Email) == "" {
		author.Email = "noreply@packmind.local"
	}
	c := &Committer{
		author: author,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.open == nil {
		c.open = c.cloneInMemory
	}
	return c
}

func (c *Committer) cloneInMemory(ctx context.Context, repo entity.Repository) (*git.Repository, error) {
	url := strings.TrimSpace(repo.CloneURL)
	if url == "" {
		return nil, fmt.Errorf("repository %s has no clone url", repo.FullName())
	}
	r, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), &git.CloneOptions{
		URL:           url,
		Auth:          c.auth,
		ReferenceName: plumbing.NewBranchReferenceName(repo.BranchOrDefault()),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", repo.FullName(), err)
	}
	return r, nil
}

// Commit writes updates, stages deletions and creates one commit. When the
// resulting worktree is clean the result is NoChanges and nothing is pushed.
func (c *Committer) Commit(ctx context.Context, repo entity.Repository, updates entity.FileUpdates, message string) (entity.CommitResult, error) {
	r, err := c.open(ctx, repo)
	if err != nil {
		return entity.CommitResult{}, err
	}
	wt, err := r.Worktree()
	if err != nil {
		return entity.CommitResult{}, fmt.Errorf("worktree: %w", err)
	}

	for _, f := range updates.CreateOrUpdate {
		p := cleanPath(f.Path)
		if p == "" {
			continue
		}
		data, err := decode(f)
		if err != nil {
			return entity.CommitResult{}, fmt.Errorf("decode %s: %w", p, err)
		}
		if dir := path.Dir(p); dir != "." {
			if err := wt.Filesystem.MkdirAll(dir, 0o755); err != nil {
				return entity.CommitResult{}, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if err := util.WriteFile(wt.Filesystem, p, data, 0o644); err != nil {
			return entity.CommitResult{}, fmt.Errorf("write %s: %w", p, err)
		}
		if _, err := wt.Add(p); err != nil {
			return entity.CommitResult{}, fmt.Errorf("stage %s: %w", p, err)
		}
	}
	for _, d := range updates.Delete {
		p := cleanPath(d.Path)
		if p == "" {
			continue
		}
		if _, err := wt.Filesystem.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if _, err := wt.Remove(p); err != nil {
			return entity.CommitResult{}, fmt.Errorf("remove %s: %w", p, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return entity.CommitResult{}, fmt.Errorf("status: %w", err)
	}
	if status.IsClean() {
		c.logger.Infow("no changes to commit", "repository", repo.FullName())
		return entity.CommitResult{NoChanges: true}, nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.author.Name,
			Email: c.author.Email,
			When:  c.now(),
		},
	})
	if err != nil {
		return entity.CommitResult{}, fmt.Errorf("commit: %w", err)
	}

	if err := c.push(ctx, r, repo); err != nil {
		return entity.CommitResult{}, err
	}
	c.logger.Infow("committed",
		"repository", repo.FullName(),
		"branch", repo.BranchOrDefault(),
		"sha", hash.String(),
	)
	return entity.CommitResult{Commit: &entity.GitCommit{
		SHA:     hash.String(),
		Message: message,
		Author:  c.author.Name,
		URL:     commitURL(repo, hash.String()),
	}}, nil
}

// push is skipped for repositories without an origin remote.
func (c *Committer) push(ctx context.Context, r *git.Repository, repo entity.Repository) error {
	if _, err := r.Remote(git.DefaultRemoteName); errors.Is(err, git.ErrRemoteNotFound) {
		return nil
	}
	err := r.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       c.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push %s: %w", repo.FullName(), err)
	}
	return nil
}

func decode(f entity.FileUpdate) ([]byte, error) {
	if f.Encoding == entity.EncodingBase64 {
		return base64.StdEncoding.DecodeString(f.Content)
	}
	return []byte(f.Content), nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

func commitURL(repo entity.Repository, sha string) string {
	base := strings.TrimSuffix(strings.TrimSpace(repo.CloneURL), ".git")
	if !strings.HasPrefix(base, "https://") {
		return ""
	}
	return base + "/commit/" + sha
}
