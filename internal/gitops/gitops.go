// Package gitops keeps the workspace under version control so every ledger
// change leaves a commit behind.
package gitops

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who the commits are attributed to.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Repo runs git inside a single workspace directory.
type Repo struct {
	dir    string
	author Author
}

// Open returns a Repo for dir. It does not check that dir is a repository.
func Open(dir string, author Author) *Repo {
	return &Repo{dir: dir, author: author}
}

// Dir returns the working tree root.
func (r *Repo) Dir() string { return r.dir }

// Init creates a repository at the working tree root, writing git's chatter to w.
func (r *Repo) Init(w io.Writer) error {
	cmd := r.command("init")
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether the working tree has been initialized.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}

// HasChanges reports whether anything is staged, modified or untracked.
func (r *Repo) HasChanges() (bool, error) {
	out, err := r.command("status", "--porcelain").Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// CommitAll stages everything and commits it, returning the short hash.
// When the tree is clean no commit is made and the hash is empty.
func (r *Repo) CommitAll(message string) (string, error) {
	dirty, err := r.HasChanges()
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	if out, err := r.command("add", "-A").CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}
	if out, err := r.command("commit", "-m", message, "--author", r.author.String()).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.command("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// command builds a git invocation in the working tree. The committer is
// pinned to the author so commits work on machines without a git identity.
func (r *Repo) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+r.author.Name,
		"GIT_COMMITTER_EMAIL="+r.author.Email,
	)
	return cmd
}
