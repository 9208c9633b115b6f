package tree

import "fmt"

// The error types below are the expected "not resolvable right now"
// outcomes of normal operation (data not arrived yet, disjoint
// subtrees, ...). Callers are expected to skip or retry, never crash.

// UnknownFrameError reports a frame name that was never registered.
type UnknownFrameError struct {
	Frame string
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("unknown frame %q", e.Frame)
}

// NoCommonAncestorError reports that the fixed frame is not reachable
// walking up from the given frame.
type NoCommonAncestorError struct {
	Frame string
	Fixed string
}

func (e *NoCommonAncestorError) Error() string {
	return fmt.Sprintf("fixed frame %q is not an ancestor of frame %q", e.Fixed, e.Frame)
}

// EmptyFrameError reports a frame that is registered but holds no
// samples while something other than the fixed frame terminal needs
// its transform.
type EmptyFrameError struct {
	Frame string
}

func (e *EmptyFrameError) Error() string {
	return fmt.Sprintf("frame %q has no transform samples", e.Frame)
}

// SampleUnavailableError reports a query time too far from every
// recorded sample of a frame.
type SampleUnavailableError struct {
	Frame   string
	Time    int64 // query time, nanoseconds
	Nearest int64 // closest recorded sample time
	Bound   int64 // allowed extrapolation, nanoseconds
}

func (e *SampleUnavailableError) Error() string {
	return fmt.Sprintf("frame %q has no sample within %dns of t=%d (nearest t=%d)",
		e.Frame, e.Bound, e.Time, e.Nearest)
}

// CycleError reports a structural cycle in parent references. Cycles
// can only appear through re-parenting driven by broken input data;
// walks fail fast instead of looping.
type CycleError struct {
	Frame string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("frame hierarchy cycle detected walking up from %q", e.Frame)
}
