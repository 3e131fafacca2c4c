package source

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by a Source wraps exactly one of them.
var (
	// ErrPatternNotFound means a required page or URL pattern is missing. Not retryable.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrTransport means a request could not be completed (dial, timeout, read).
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse means the backend answered with data of the wrong shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrBackendUnavailable means the backend answered but has no usable data for the id.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Error carries the diagnostic context of a resolution failure.
type Error struct {
	Kind    error
	Op      string
	VideoID string
	Format  FormatTag
	// Segment is the zero-based clip index, or -1 when the failure is not clip specific.
	Segment int
	Err     error
}

// NewError builds an Error that is not bound to a format or segment.
func NewError(kind error, op, videoID string, err error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		VideoID: videoID,
		Segment: -1,
		Err:     err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)

	var ctx []string
	if e.VideoID != "" {
		ctx = append(ctx, "vid "+e.VideoID)
	}
	if e.Format != "" {
		ctx = append(ctx, "format "+string(e.Format))
	}
	if e.Segment >= 0 {
		ctx = append(ctx, fmt.Sprintf("part %d", e.Segment+1))
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(ctx, ", "))
	}

	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool {
	return errors.Is(e, ErrTransport)
}

// WithFormat returns a copy bound to the given format and segment.
func (e *Error) WithFormat(tag FormatTag, segment int) *Error {
	c := *e
	c.Format = tag
	c.Segment = segment
	return &c
}

// IsRetryable reports whether err is a transport failure anywhere in its chain.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport)
}
