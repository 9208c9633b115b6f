package tree

import (
	"sort"

	"github.com/mogaika/transform_tree/transform"
)

// TimedSample is one recorded transform of a frame relative to the
// parent that was current when the sample arrived. Time is absolute
// nanoseconds; the single wide integer is the only time representation
// used anywhere in the tree.
type TimedSample struct {
	Time      int64
	Transform transform.Rigid
}

// Frame is one named coordinate frame. The parent is held by name
// into the owning Tree's frame map, never by pointer, so frames form
// a forest without ownership cycles. Frames are only mutated by the
// Tree while it holds its write lock.
type Frame struct {
	name    string
	parent  string // "" while the frame has no known parent
	samples []TimedSample
}

func newFrame(name string) *Frame {
	return &Frame{name: name}
}

func (f *Frame) Name() string { return f.name }

// Parent returns the current parent frame name, "" for a root.
func (f *Frame) Parent() string { return f.parent }

func (f *Frame) SampleCount() int { return len(f.samples) }

// SampleRange returns the first and last recorded sample times.
func (f *Frame) SampleRange() (first, last int64, ok bool) {
	if len(f.samples) == 0 {
		return 0, 0, false
	}
	return f.samples[0].Time, f.samples[len(f.samples)-1].Time, true
}

// setParent re-points the frame at a new parent. Structural only:
// recorded samples keep the values they had under the old parent,
// only future upward walks change direction.
func (f *Frame) setParent(parent string) {
	f.parent = parent
}

// addSample inserts a sample keeping the slice sorted by time. The
// common near-real-time case appends at the end in O(1). Inserts that
// land on or between existing entries allocate a fresh slice so that
// snapshots taken earlier keep reading the old backing array.
func (f *Frame) addSample(timeNanos int64, tf transform.Rigid) {
	n := len(f.samples)
	if n == 0 || f.samples[n-1].Time < timeNanos {
		f.samples = append(f.samples, TimedSample{Time: timeNanos, Transform: tf})
		return
	}
	i := sort.Search(n, func(i int) bool { return f.samples[i].Time >= timeNanos })
	if i < n && f.samples[i].Time == timeNanos {
		// duplicate timestamp overwrites
		next := make([]TimedSample, n)
		copy(next, f.samples)
		next[i].Transform = tf
		f.samples = next
		return
	}
	next := make([]TimedSample, n+1)
	copy(next, f.samples[:i])
	next[i] = TimedSample{Time: timeNanos, Transform: tf}
	copy(next[i+1:], f.samples[i:])
	f.samples = next
}

// SampleAt resolves the frame's transform relative to its parent at
// the given time. Between two samples the result is interpolated.
// Before the first or after the last sample the nearest sample is
// held as-is when the gap is within maxExtrapolation, otherwise the
// query fails with SampleUnavailableError.
func (f *Frame) SampleAt(timeNanos, maxExtrapolation int64) (transform.Rigid, error) {
	n := len(f.samples)
	if n == 0 {
		return transform.Identity(), &EmptyFrameError{Frame: f.name}
	}
	if maxExtrapolation < 0 {
		maxExtrapolation = 0
	}
	i := sort.Search(n, func(i int) bool { return f.samples[i].Time >= timeNanos })
	switch {
	case i < n && f.samples[i].Time == timeNanos:
		return f.samples[i].Transform, nil
	case i == 0:
		return f.holdSample(0, timeNanos, maxExtrapolation)
	case i == n:
		return f.holdSample(n-1, timeNanos, maxExtrapolation)
	default:
		lo, hi := f.samples[i-1], f.samples[i]
		t := float64(timeNanos-lo.Time) / float64(hi.Time-lo.Time)
		return transform.Interpolate(lo.Transform, hi.Transform, t), nil
	}
}

func (f *Frame) holdSample(i int, timeNanos, maxExtrapolation int64) (transform.Rigid, error) {
	s := f.samples[i]
	gap := timeNanos - s.Time
	if gap < 0 {
		gap = -gap
	}
	if gap > maxExtrapolation {
		return transform.Identity(), &SampleUnavailableError{
			Frame:   f.name,
			Time:    timeNanos,
			Nearest: s.Time,
			Bound:   maxExtrapolation,
		}
	}
	return s.Transform, nil
}

// clone returns a value copy sharing the (append-only visible) sample
// slice prefix with the original.
func (f *Frame) clone() *Frame {
	c := *f
	return &c
}
