package tree

import (
	"sync"

	"github.com/mogaika/transform_tree/transform"
)

// Tree owns every known coordinate frame, keyed by case-sensitive
// name. One writer feeds it transforms, any number of readers resolve
// poses concurrently; a sync.RWMutex keeps each update (re-parent +
// sample insert) atomic from a reader's point of view.
type Tree struct {
	mu     sync.RWMutex
	frames map[string]*Frame
}

func NewTree() *Tree {
	return &Tree{frames: make(map[string]*Frame)}
}

// Update describes the structural side effects of one AddTransform
// call. It is the only notification channel the tree has: consumers
// that care about topology forward it themselves, the tree keeps no
// subscriber state.
type Update struct {
	NewFrames  []string
	Reparented bool
}

// AddTransform records the transform of child relative to parent at
// the given time. Unknown frames are created lazily; a changed parent
// re-parents the child before the sample is stored. A message naming
// a frame as its own parent is dropped.
func (t *Tree) AddTransform(child, parent string, timeNanos int64, tf transform.Rigid) Update {
	var up Update
	if child == parent {
		return up
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.frames[parent]; !ok {
		t.frames[parent] = newFrame(parent)
		up.NewFrames = append(up.NewFrames, parent)
	}
	c, ok := t.frames[child]
	if !ok {
		c = newFrame(child)
		t.frames[child] = c
		up.NewFrames = append(up.NewFrames, child)
	}
	if c.parent != parent {
		up.Reparented = c.parent != ""
		c.setParent(parent)
	}
	c.addSample(timeNanos, tf)
	return up
}

func (t *Tree) HasFrame(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.frames[name]
	return ok
}

// Frame returns a stable handle for one frame: a value copy that
// later writes do not touch.
func (t *Tree) Frame(name string) (*Frame, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.frames[name]
	if !ok {
		return nil, false
	}
	return f.clone(), true
}

// FrameNames returns every registered frame name. The order carries
// no meaning.
func (t *Tree) FrameNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.frames))
	for name := range t.frames {
		names = append(names, name)
	}
	return names
}

// Root walks parent references up from name to the frame that has no
// parent. The walk length is bounded by the frame count so broken
// input that managed to form a cycle fails instead of spinning.
func (t *Tree) Root(name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rootLocked(name)
}

func (t *Tree) rootLocked(name string) (string, error) {
	cur := name
	for steps := 0; steps <= len(t.frames); steps++ {
		f, ok := t.frames[cur]
		if !ok {
			return "", &UnknownFrameError{Frame: cur}
		}
		if f.parent == "" {
			return cur, nil
		}
		cur = f.parent
	}
	return "", &CycleError{Frame: name}
}

// Apply resolves pose, expressed in src at srcTime, into the
// equivalent pose expressed in dst at dstTime. The two times are
// bridged through fixed, a caller-chosen frame assumed static enough
// that "fixed at srcTime" and "fixed at dstTime" coincide. fixed must
// be an ancestor of (or equal to) both src and dst; each hop is
// sampled per Frame.SampleAt with the given extrapolation bound.
//
// Every failure is an expected outcome (frame unknown, subtrees still
// disjoint, data not arrived) reported as one of the typed errors in
// this package.
func (t *Tree) Apply(dst string, pose transform.Pose, src string,
	dstTimeNanos, srcTimeNanos int64, fixed string, maxExtrapolation int64) (transform.Pose, error) {

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, name := range [...]string{dst, src, fixed} {
		if _, ok := t.frames[name]; !ok {
			return transform.IdentityPose(), &UnknownFrameError{Frame: name}
		}
	}

	// zero-length walks, exact by construction
	if src == dst && srcTimeNanos == dstTimeNanos {
		return pose, nil
	}

	fixedFromSrc, err := t.walkLocked(src, fixed, srcTimeNanos, maxExtrapolation)
	if err != nil {
		return transform.IdentityPose(), err
	}
	fixedFromDst, err := t.walkLocked(dst, fixed, dstTimeNanos, maxExtrapolation)
	if err != nil {
		return transform.IdentityPose(), err
	}
	return fixedFromDst.Inv().Mul(fixedFromSrc).TransformPose(pose), nil
}

// walkLocked composes per-link transforms from `from` up to `to`,
// sampling every link at the same instant. An empty walk (from == to)
// yields the identity motion.
func (t *Tree) walkLocked(from, to string, timeNanos, maxExtrapolation int64) (transform.Rigid, error) {
	acc := transform.Identity()
	cur := from
	for steps := 0; cur != to; steps++ {
		if steps > len(t.frames) {
			return acc, &CycleError{Frame: from}
		}
		f, ok := t.frames[cur]
		if !ok {
			return acc, &UnknownFrameError{Frame: cur}
		}
		if f.parent == "" {
			return acc, &NoCommonAncestorError{Frame: from, Fixed: to}
		}
		link, err := f.SampleAt(timeNanos, maxExtrapolation)
		if err != nil {
			return acc, err
		}
		acc = link.Mul(acc)
		cur = f.parent
	}
	return acc, nil
}

// Snapshot clones the frame map into an independent Tree that reads
// consistently without coordinating with the writer. Frames are
// copied by value; sample slices are shared but visible only up to
// the snapshotted length, and the writer never rewrites entries below
// that length in place.
func (t *Tree) Snapshot() *Tree {
	t.mu.RLock()
	defer t.mu.RUnlock()
	frames := make(map[string]*Frame, len(t.frames))
	for name, f := range t.frames {
		frames[name] = f.clone()
	}
	return &Tree{frames: frames}
}
