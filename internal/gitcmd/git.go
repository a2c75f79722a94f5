// Package gitcmd wraps the git binary for the history queries the update
// flow needs: clone without checkout, branch containment, path-scoped log,
// and ancestry tests. All invocations are synchronous subprocess calls.
package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes git with the given arguments in a working directory and
// returns trimmed stdout. It exists so tests can fake subprocess output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execRunner struct {
	binary string
}

func (r execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
		}

		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Client creates repository clones.
type Client struct {
	runner Runner
}

// NewClient returns a Client invoking the given git binary.
func NewClient(binary string) *Client {
	return &Client{runner: execRunner{binary: binary}}
}

// NewClientWithRunner returns a Client using a custom Runner.
func NewClientWithRunner(runner Runner) *Client {
	return &Client{runner: runner}
}

// Repo is a local clone of an upstream repository with no working tree.
type Repo struct {
	dir    string
	runner Runner
}

// CloneNoCheckout clones a repository into a fresh temporary directory
// without materializing a working tree. The returned cleanup removes the
// directory and must run on every exit path.
func (c *Client) CloneNoCheckout(ctx context.Context, cloneURL string) (*Repo, func(), error) {
	dir, err := os.MkdirTemp("", "grammarsync-clone-")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	if _, err := c.runner.Run(ctx, "", "clone", "--no-checkout", "--quiet", cloneURL, dir); err != nil {
		os.RemoveAll(dir)

		return nil, nil, fmt.Errorf("failed to clone %s: %w", cloneURL, err)
	}

	cleanup := func() { os.RemoveAll(dir) }

	return &Repo{dir: dir, runner: c.runner}, cleanup, nil
}

// BranchesContaining lists remote branches whose history contains the commit,
// in git's own listing order. The origin/HEAD pointer line is skipped.
func (r *Repo) BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	out, err := r.runner.Run(ctx, r.dir, "branch", "-r", "--contains", commit)
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		branch := strings.TrimSpace(line)
		if branch == "" || strings.Contains(branch, "->") {
			continue
		}
		branches = append(branches, branch)
	}

	return branches, nil
}

// RemoteBranches lists all remote branches in git's own listing order,
// skipping the origin/HEAD pointer line.
func (r *Repo) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := r.runner.Run(ctx, r.dir, "branch", "-r")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(out, "\n") {
		branch := strings.TrimSpace(line)
		if branch == "" || strings.Contains(branch, "->") {
			continue
		}
		branches = append(branches, branch)
	}

	return branches, nil
}

// DefaultBranch returns the remote branch origin/HEAD points at, e.g.
// "origin/main", or "" when the remote advertises no default. symbolic-ref
// exits 1 for a missing ref; anything else is a broken clone.
func (r *Repo) DefaultBranch(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "symbolic-ref", "--quiet", "refs/remotes/origin/HEAD")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}

		return "", err
	}

	return strings.TrimPrefix(out, "refs/remotes/"), nil
}

// LatestCommit returns the short hash of the newest commit on a branch that
// touched any of the given paths.
func (r *Repo) LatestCommit(ctx context.Context, branch string, paths []string) (string, error) {
	args := append([]string{"log", "-1", "--format=%h", branch, "--"}, paths...)

	out, err := r.runner.Run(ctx, r.dir, args...)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("no commit on %s touches %s", branch, strings.Join(paths, ", "))
	}

	return out, nil
}

// IsAncestor reports whether ancestor is reachable walking descendant's
// history backward.
func (r *Repo) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	_, err := r.runner.Run(ctx, r.dir, "merge-base", "--is-ancestor", ancestor, descendant)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}

	return false, err
}
