package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoCommits is returned for a repository whose HEAD has no commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// GitInfoAdapter implements domain.GitInfo using go-git. The project path may
// be any directory inside the working tree.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := open(projectPath)
	return err == nil
}

func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	head, err := g.head(projectPath)
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

// Branch returns the short name of the checked-out branch, or "" for a detached HEAD.
func (g *GitInfoAdapter) Branch(projectPath string) (string, error) {
	head, err := g.head(projectPath)
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

func (g *GitInfoAdapter) head(projectPath string) (*plumbing.Reference, error) {
	repo, err := open(projectPath)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	return head, nil
}

func open(projectPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
}

// Short abbreviates a commit hash for display.
func Short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
