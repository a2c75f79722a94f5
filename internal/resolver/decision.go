package resolver

// PinState classifies the relationship between the current pin and the
// candidate commit computed from the path-scoped history query.
type PinState int

const (
	// PinInvalid is the zero state: classification failed or never ran.
	PinInvalid PinState = iota
	// PinSentinel means the current pin is the track-latest sentinel.
	PinSentinel
	// PinUnchanged means the candidate equals the current pin.
	PinUnchanged
	// PinAncestor means the current pin is a history-ancestor of the
	// candidate: the candidate is strictly newer on the selected branch.
	PinAncestor
	// PinNotAncestor means the candidate differs but the current pin is
	// not behind it: either the pin was manually advanced past the naive
	// path-scoped computation, or only unrelated paths changed since.
	PinNotAncestor
)

// String returns a short label for logs and result reporting.
func (s PinState) String() string {
	switch s {
	case PinInvalid:
		return "invalid"
	case PinSentinel:
		return "sentinel"
	case PinUnchanged:
		return "unchanged"
	case PinAncestor:
		return "ancestor"
	case PinNotAncestor:
		return "not-ancestor"
	default:
		return "unknown"
	}
}

// Decision is the outcome of the pin state machine.
type Decision int

const (
	Keep Decision = iota
	Advance
)

// Decide maps each pin state to keep or advance. Advancing only from
// PinSentinel and PinAncestor is the non-regression guard: every accepted
// pin is a strict history-descendant of the one it replaces, so a candidate
// that is behind a manually advanced pin, or that moved only on unrelated
// paths, never wins.
func (s PinState) Decide() Decision {
	switch s {
	case PinSentinel, PinAncestor:
		return Advance
	default:
		return Keep
	}
}

// classify computes the pin state for a current pin and candidate. The
// ancestor query runs only when it can change the decision.
func classify(current, candidate string, isAncestor func(ancestor, descendant string) (bool, error)) (PinState, error) {
	if current == sentinelLatest {
		return PinSentinel, nil
	}
	if current == candidate {
		return PinUnchanged, nil
	}

	ancestor, err := isAncestor(current, candidate)
	if err != nil {
		return PinInvalid, err
	}
	if ancestor {
		return PinAncestor, nil
	}

	return PinNotAncestor, nil
}
