package tree

// FixedFramePolicy picks the time-bridging fixed frame for hosts that
// do not pin one explicitly. Apply itself never guesses: it always
// takes the fixed frame as an argument, a policy is just the
// documented way for a host to choose that argument.
type FixedFramePolicy interface {
	// FixedFrame returns the frame to bridge through, or false when
	// the policy cannot produce one yet (e.g. empty tree).
	FixedFrame(t *Tree) (string, bool)
}

// PinnedFrame always selects the named frame, as long as it is
// registered.
type PinnedFrame string

func (p PinnedFrame) FixedFrame(t *Tree) (string, bool) {
	if !t.HasFrame(string(p)) {
		return "", false
	}
	return string(p), true
}

// MostSamples selects the root above whichever frame currently holds
// the most samples, on the theory that the busiest frame sits in the
// subtree the data source actually populates. Ties break toward the
// lexicographically smallest frame name so the choice is stable
// between calls.
type MostSamples struct{}

func (MostSamples) FixedFrame(t *Tree) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	best := ""
	bestCount := 0
	for name, f := range t.frames {
		n := len(f.samples)
		if n == 0 {
			continue
		}
		if n > bestCount || (n == bestCount && name < best) {
			best, bestCount = name, n
		}
	}
	if best == "" {
		return "", false
	}
	root, err := t.rootLocked(best)
	if err != nil {
		return "", false
	}
	return root, true
}
