package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jenkins-x/go-scm/scm"
	"github.com/jenkins-x/go-scm/scm/factory"

	"publisher/internal/gateway/entity"
)

// SCMFileReader reads current file contents through a git hosting API.
type SCMFileReader struct {
	client *scm.Client
}

func NewSCMFileReader(client *scm.Client) *SCMFileReader {
	return &SCMFileReader{client: client}
}

// NewSCMClient builds a go-scm client for driver ("github", "gitlab", "fake", ...).
func NewSCMClient(driver, serverURL, token string) (*scm.Client, error) {
	client, err := factory.NewClient(strings.TrimSpace(driver), strings.TrimSpace(serverURL), strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("init scm client: %w", err)
	}
	return client, nil
}

// GetExistingFile returns the content of path on the repository branch.
// A missing file is (_, false, nil).
func (r *SCMFileReader) GetExistingFile(ctx context.Context, repo entity.Repository, path string) (string, bool, error) {
	if r == nil || r.client == nil {
		return "", false, fmt.Errorf("scm client is nil")
	}
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", false, fmt.Errorf("path is required")
	}
	content, resp, err := r.client.Contents.Find(ctx, repo.FullName(), path, repo.BranchOrDefault())
	if err != nil {
		if isNotFound(resp, err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s from %s: %w", path, repo.FullName(), err)
	}
	if content == nil {
		return "", false, nil
	}
	return string(content.Data), true, nil
}

func isNotFound(resp *scm.Response, err error) bool {
	if resp != nil && resp.Status == http.StatusNotFound {
		return true
	}
	return errors.Is(err, scm.ErrNotFound) || scm.IsScmNotFound(err)
}
