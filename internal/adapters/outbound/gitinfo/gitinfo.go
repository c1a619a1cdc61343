package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Locator implements domain.WorkspaceLocator using go-git. The workspace
// root is the top of the git worktree containing a directory.
type Locator struct{}

func New() *Locator {
	return &Locator{}
}

func open(dir string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}

// WorkspaceRoot returns the worktree root above dir. Outside a repository it
// returns dir itself so callers always get a usable path.
func (l *Locator) WorkspaceRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	repo, err := open(abs)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

func (l *Locator) IsGitRepo(dir string) bool {
	_, err := open(dir)
	return err == nil
}

// CommitHash returns the HEAD commit of the repository containing dir.
func (l *Locator) CommitHash(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
