// Package resolver drives the update flow: for each tracked source it
// inspects the upstream repository's history and decides whether the pinned
// commit must advance. Decisions are monotonic: an accepted pin is always a
// strict history-descendant of the one it replaces.
package resolver

import (
	"context"
	"fmt"
	"sort"

	syncerrors "github.com/conneroisu/grammarsync/internal/errors"
	"github.com/conneroisu/grammarsync/internal/gitcmd"
	"github.com/conneroisu/grammarsync/internal/logging"
	"github.com/conneroisu/grammarsync/internal/registry"
)

const sentinelLatest = registry.VersionLatest

// Repository is the history surface the resolver queries on a clone.
type Repository interface {
	BranchesContaining(ctx context.Context, commit string) ([]string, error)
	RemoteBranches(ctx context.Context) ([]string, error)
	DefaultBranch(ctx context.Context) (string, error)
	LatestCommit(ctx context.Context, branch string, paths []string) (string, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
}

// Cloner produces scoped repository clones. The returned cleanup removes the
// clone and runs on every exit path before the next source is processed.
type Cloner interface {
	CloneNoCheckout(ctx context.Context, cloneURL string) (Repository, func(), error)
}

// gitCloner adapts gitcmd.Client to the Cloner seam.
type gitCloner struct {
	client *gitcmd.Client
}

func (g gitCloner) CloneNoCheckout(ctx context.Context, cloneURL string) (Repository, func(), error) {
	return g.client.CloneNoCheckout(ctx, cloneURL)
}

// NewGitCloner wraps a gitcmd client as a Cloner.
func NewGitCloner(client *gitcmd.Client) Cloner {
	return gitCloner{client: client}
}

// Outcome describes what happened to one source's pin.
type Outcome string

const (
	OutcomeUpToDate Outcome = "up to date"
	OutcomeKept     Outcome = "kept"
	OutcomeAdvanced Outcome = "advanced"
)

// Result records the decision for one tracked source.
type Result struct {
	Name      string
	Previous  string
	Candidate string
	State     PinState
	Outcome   Outcome
}

// Resolver computes updated pins for tracked sources.
type Resolver struct {
	cloner    Cloner
	cloneHost string
	logger    logging.Logger
}

// New returns a Resolver cloning from cloneHost (e.g. "https://github.com").
func New(cloner Cloner, cloneHost string, logger logging.Logger) *Resolver {
	return &Resolver{
		cloner:    cloner,
		cloneHost: cloneHost,
		logger:    logger.WithComponent("resolver"),
	}
}

// Resolve processes each selected source sequentially and returns the full
// registry with accepted updates applied and sorted by name, alongside the
// per-source results. changed reports whether the sorted result differs from
// the input in any field, i.e. whether the registry file must be rewritten.
func (r *Resolver) Resolve(ctx context.Context, sources []registry.TrackedSource, filter string) (updated []registry.TrackedSource, results []Result, changed bool, err error) {
	if filter != "" {
		if _, err := registry.Find(sources, filter); err != nil {
			return nil, nil, false, err
		}
	}

	updated = append([]registry.TrackedSource(nil), sources...)
	for i := range updated {
		if filter != "" && updated[i].Name != filter {
			continue
		}

		result, err := r.resolveOne(ctx, updated[i])
		if err != nil {
			return nil, nil, false, err
		}
		results = append(results, result)

		if result.Outcome == OutcomeAdvanced {
			updated[i].Version = result.Candidate
		}
	}

	sort.Slice(updated, func(i, j int) bool { return updated[i].Name < updated[j].Name })

	return updated, results, !registry.Equal(sources, updated), nil
}

// resolveOne clones the source's repository, selects the branch to follow,
// computes the path-scoped candidate, and runs the pin state machine.
func (r *Resolver) resolveOne(ctx context.Context, source registry.TrackedSource) (Result, error) {
	repo, cleanup, err := r.cloner.CloneNoCheckout(ctx, r.cloneURL(source.Name))
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	branch, err := r.selectBranch(ctx, repo, source)
	if err != nil {
		return Result{}, err
	}

	candidate, err := repo.LatestCommit(ctx, branch, source.GrammarPaths)
	if err != nil {
		return Result{}, fmt.Errorf("failed to find candidate for %s: %w", source.Name, err)
	}

	state, err := classify(source.Version, candidate, func(ancestor, descendant string) (bool, error) {
		return repo.IsAncestor(ctx, ancestor, descendant)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to compare %s pins: %w", source.Name, err)
	}

	result := Result{
		Name:      source.Name,
		Previous:  source.Version,
		Candidate: candidate,
		State:     state,
	}
	switch {
	case state.Decide() == Advance && candidate != source.Version:
		result.Outcome = OutcomeAdvanced
	case state == PinUnchanged:
		result.Outcome = OutcomeUpToDate
	default:
		result.Outcome = OutcomeKept
	}

	r.logger.Info(ctx, "resolved source",
		"source", source.Name,
		"state", state.String(),
		"outcome", string(result.Outcome),
		"candidate", candidate)

	return result, nil
}

// selectBranch picks the branch whose history the candidate comes from. For a
// pinned source that is the default branch when it contains the pin, else the
// first containing branch in git's listing order; a pin contained in no
// branch is orphaned and fatal. The sentinel pin is not a commit, so it
// follows the default branch directly.
func (r *Resolver) selectBranch(ctx context.Context, repo Repository, source registry.TrackedSource) (string, error) {
	var branches []string
	var err error
	if source.TracksLatest() {
		branches, err = repo.RemoteBranches(ctx)
	} else {
		branches, err = repo.BranchesContaining(ctx, source.Version)
	}
	if err != nil {
		return "", fmt.Errorf("failed to list branches for %s: %w", source.Name, err)
	}
	if len(branches) == 0 {
		if source.TracksLatest() {
			return "", fmt.Errorf("repository %s has no remote branches", source.Name)
		}

		return "", syncerrors.NewOrphanedPin(source.Name, source.Version)
	}

	defaultBranch, err := repo.DefaultBranch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read default branch for %s: %w", source.Name, err)
	}
	for _, branch := range branches {
		if branch == defaultBranch {
			return branch, nil
		}
	}

	// Listing order is git's own and carries no meaning; taking the first
	// entry is an accepted nondeterminism.
	return branches[0], nil
}

func (r *Resolver) cloneURL(name string) string {
	return r.cloneHost + "/" + name + ".git"
}
