package bytestream

import "fmt"

// Sentinel errors for the stream failure modes listed in SPEC_FULL.md §4.2.
var (
	ErrAppendExceedsMaxBuffer     = fmt.Errorf("bytestream: append would exceed max buffer size")
	ErrCannotResizeExternalBuffer = fmt.Errorf("bytestream: cannot grow an external caller-owned buffer")
	ErrCannotSeekNonMemorySource  = fmt.Errorf("bytestream: SetPosition/Reset requires a memory or file source")
	ErrLiveBorrows                = fmt.Errorf("bytestream: append would reallocate while borrowed token text is live")
)

// IOError wraps an error surfaced by the underlying io.Reader.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bytestream: io error: %v", e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}
